package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	envFile string
}

// NewRootCommand builds the command tree. Running the binary without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tallysync",
		Short:         "Receives Tally exports and keeps them in a relational store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file (default ./.env)")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newMigrateCommand(opts))
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
