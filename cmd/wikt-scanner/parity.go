package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikt-scanner/internal/parity"
)

var parityCmd = &cobra.Command{
	Use:   "parity A.jsonl B.jsonl",
	Short: "Compare two record files field by field",
	Long: `Parity reads two JSON Lines record files, pairs records by word, and
reports words present on one side only, duplicate words, and per-field
differences. Line order and JSON whitespace are ignored.

Parity exits non-zero when the files differ.`,
	Args: cobra.ExactArgs(2),
	RunE: runParity,
}

func init() {
	parityCmd.Flags().Int("samples", parity.DefaultMaxSamples, "maximum field differences to print")

	rootCmd.AddCommand(parityCmd)
}

func runParity(cmd *cobra.Command, args []string) error {
	samples, _ := cmd.Flags().GetInt("samples")

	rep, err := parity.CompareFiles(args[0], args[1], parity.Options{MaxSamples: samples})
	if err != nil {
		return err
	}
	parity.WriteReport(os.Stdout, rep)
	if !rep.Equal() {
		return fmt.Errorf("%s and %s differ", args[0], args[1])
	}
	return nil
}
