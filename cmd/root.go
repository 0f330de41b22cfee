package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/elide/cmd/bench"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "elide",
		Short: "hardware lock elision toolkit",
		Long: fmt.Sprintf(`elide (v%s)

Speculative lock elision for Go: critical sections run optimistically
inside Intel RTM hardware transactions and fall back to a conventional
lock when a transaction cannot complete.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of elide",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("elide v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
