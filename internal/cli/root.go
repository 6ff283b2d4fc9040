// Package cli implements the dsopt command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the dsopt command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dsopt",
		Short: "dsopt - data structure usage monitor and optimization advisor",
		Long: `dsopt manages named caches, prefix tries, priority queues and Bloom filters,
times the operations performed on them and turns what it observes into
prioritized optimization suggestions.

Commands:
- simulate:   run a seeded synthetic workload and print the optimization report
- bloom-size: compute Bloom filter dimensions for a capacity and error rate
- version:    print the build version`,
		// Don't show usage when there's an error
		SilenceUsage: true,
		// Errors are printed by Execute
		SilenceErrors: true,
	}

	root.AddCommand(
		newSimulateCommand(),
		newBloomSizeCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/dsopt.
func Main(ctx context.Context) int {
	return Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
