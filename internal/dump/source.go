// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dump

import (
	"iter"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// Source is a restartable page sequence over a dump file. Every call to
// Pages reopens the file, so the benchmark can replay the same input
// through each strategy.
type Source struct {
	Path string

	// PageLimit stops the sequence after this many pages; 0 means no limit.
	PageLimit int

	Options []Option
}

// Pages opens the dump and yields its pages. Open and read failures are
// yielded as errors.
func (src Source) Pages() iter.Seq2[types.Page, error] {
	return func(yield func(types.Page, error) bool) {
		rc, err := Open(src.Path)
		if err != nil {
			yield(types.Page{}, err)
			return
		}
		defer rc.Close()

		n := 0
		for p, err := range NewScanner(rc, src.Options...).Pages() {
			if err != nil {
				yield(types.Page{}, err)
				return
			}
			if src.PageLimit > 0 && n >= src.PageLimit {
				return
			}
			n++
			if !yield(p, nil) {
				return
			}
		}
	}
}
