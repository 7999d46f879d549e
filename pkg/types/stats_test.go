package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaseFormOf(t *testing.T) {
	tests := []struct {
		word string
		want CaseForm
	}{
		{"cat", CaseLower},
		{"ice cream", CaseLower},
		{"123", CaseLower},
		{"Paris", CaseTitle},
		{"New York", CaseTitle},
		{"Jean-Paul", CaseTitle},
		{"NASA", CaseUpper},
		{"U.S.", CaseUpper},
		{"iPhone", CaseMixed},
		{"McDonald", CaseMixed},
		{"Élan", CaseTitle},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, CaseFormOf(tt.word))
		})
	}
}

func TestStats_Observe(t *testing.T) {
	s := NewStats()
	s.Observe(OutcomeWritten, "cat", []string{"transitive"})
	s.Observe(OutcomeWritten, "Paris", nil)
	s.Observe(OutcomeRedirect, "", nil)
	s.Observe(OutcomeWritten, "dog", []string{"transitive", "uncountable"})

	assert.Equal(t, 4, s.Pages)
	assert.Equal(t, 3, s.Written())
	assert.Equal(t, 1, s.Skipped())
	assert.Equal(t, 2, s.Cases[CaseLower])
	assert.Equal(t, 1, s.Cases[CaseTitle])
	assert.Equal(t, []LabelCount{{"transitive", 2}, {"uncountable", 1}}, s.TopUnknownLabels(0))
	assert.Equal(t, []LabelCount{{"transitive", 2}}, s.TopUnknownLabels(1))
}

func TestStats_PagesPerSecond(t *testing.T) {
	s := NewStats()
	assert.Zero(t, s.PagesPerSecond())

	s.Pages = 500
	s.Elapsed = 2 * time.Second
	assert.InDelta(t, 250.0, s.PagesPerSecond(), 1e-9)
}
