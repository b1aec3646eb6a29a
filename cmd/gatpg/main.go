package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "gatpg",
	Short:   "SAT-based automatic test pattern generation and fault simulation",
	Long:    `gatpg generates stuck-at and transition-delay test patterns for a gate-level netlist and fault-simulates candidate pattern sets against it.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./gatpg.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(dtpgCmd)
	rootCmd.AddCommand(fsimCmd)
}

// Subcommands are defined in separate files: dtpgCmd in dtpg.go, fsimCmd
// in fsim.go.

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
