package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewRecordCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewTableCmd())
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "diamond-node <command> <subcommand> [flags]",
		Short:             "Diamond storage node",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Long:              `Store, fetch and scan fixed-width records on a Diamond storage node`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s\n%s\n",
				titleStyle.Render("Diamond Node"),
				"For help type \"diamond-node help\"",
			)
		},
	}

	addCommands(cmd)

	cmd.PersistentFlags().String("data-path", "", "The directory holding the meta file and pages")
	cmd.PersistentFlags().Int64("page-size", 0, "The number of records stored on each page")
	cmd.PersistentFlags().String("storage-mode", "", "Where pages are stored: local, object or tiered")

	return cmd
}

// Execute runs the root command until it completes or the context is done.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
