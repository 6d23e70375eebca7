package cmd

import (
	"fmt"

	"github.com/diamonddb/diamond-node/pkg/engine"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return NewCommand(
		"init", "Initialize persistence and load the table definitions",
	).WithArgs(cobra.NoArgs).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		tables := e.Catalog().Tables()

		renderSuccess(cmd.OutOrStdout(), fmt.Sprintf("Initialized with %d tables", len(tables)))

		if len(tables) > 0 {
			renderTables(cmd.OutOrStdout(), tables)
		}

		return nil
	}).Build()
}
