// Command jsonoracle runs JSON inputs through several parsers and reports
// where they disagree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jsonoracle/internal/util"

	"github.com/spf13/cobra"
)

var (
	version        = "0.1.0-dev"
	globalConfig   string
	globalVerbose  bool
	globalBackends []string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	util.SyncLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jsonoracle",
		Short:         "Differential conformance oracle for JSON parsers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfig, "config", "c", "config.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Enable detail logging")
	rootCmd.PersistentFlags().StringSliceVarP(&globalBackends, "backends", "b", nil, "Backends to evaluate, overriding the config")

	rootCmd.AddCommand(
		newRunCmd(),
		newEvalCmd(),
		newReproCmd(),
		newBenchCmd(),
		newAuditCmd(),
		newCasesCmd(),
	)
	return rootCmd
}
