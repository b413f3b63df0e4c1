// Package cmd provides the CLI commands for authzctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentrypolicy/authzcore/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "authzctl",
	Short: "authzctl - embeddable authorization engine CLI",
	Long: `authzctl drives the authzcore authorization engine from the command
line: evaluate a decision against a policy file, simulate without side
effects, diff two policy files, or manage delegations.

Configuration:
  Config is loaded from authzcore.yaml in the current directory,
  $HOME/.authzcore/, or /etc/authzcore/.

  Environment variables can override config values with the AUTHZCORE_
  prefix. Example: AUTHZCORE_CACHE_SIZE=5000

Commands:
  evaluate    Evaluate a single authorization decision
  simulate    Run a side-effect-free timed evaluation
  compare     Diff two policy files by rule signature
  delegate    Create, revoke, and list delegations
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./authzcore.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
