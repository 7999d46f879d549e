// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wikt-scanner CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is shared by every command; verbosity is set before each run.
var logger = logrus.New()

// rootCmd is the base command for the wikt-scanner CLI.
var rootCmd = &cobra.Command{
	Use:   "wikt-scanner",
	Short: "Extract normalized lexical records from Wiktionary dumps",
	Long: `wikt-scanner streams a Wiktionary XML dump (plain, bz2, gzip or zstd),
isolates each page's target-language section, and writes one normalized
record per entry: parts of speech, register and region labels, flags,
syllables, lemma and morphology.

Subcommands: scan runs one extraction, bench compares the scheduling
strategies, parity diffs two output files, and fetch downloads a dump.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		switch {
		case viper.GetBool("verbose"):
			logger.SetLevel(logrus.DebugLevel)
		case viper.GetBool("quiet"):
			logger.SetLevel(logrus.WarnLevel)
		default:
			logger.SetLevel(logrus.InfoLevel)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wikt-scanner.yaml or ~/.config/wikt-scanner/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "log warnings and errors only")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug detail, including unknown label tokens")

	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wikt-scanner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wikt-scanner"))
		}
	}

	viper.SetEnvPrefix("WIKT_SCANNER")
	viper.SetEnvKeyReplacer(envKeys)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds a command's flags to their config keys. Binding happens
// per run because scan and bench share keys with different flag sets.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := viper.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("binding flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
