package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/engine"
	"github.com/spf13/cobra"
)

func NewTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage tables",
	}

	cmd.AddCommand(NewTableCreateCmd())
	cmd.AddCommand(NewTableListCmd())

	return cmd
}

func NewTableCreateCmd() *cobra.Command {
	return NewCommand(
		"create <name>", "Create a table",
	).WithArgs(cobra.ExactArgs(1)).WithFlags(func(cmd *cobra.Command) {
		cmd.Flags().StringArray("field", nil, "A field of the schema as name:type:width, repeat for each field")
	}).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		definitions, err := cmd.Flags().GetStringArray("field")

		if err != nil {
			return err
		}

		schema := make([]catalog.Field, 0, len(definitions))

		for _, definition := range definitions {
			field, err := parseField(definition)

			if err != nil {
				return err
			}

			schema = append(schema, field)
		}

		if err := e.CreateTable(cmd.Context(), catalog.NewTable(args[0], schema...)); err != nil {
			return err
		}

		renderSuccess(cmd.OutOrStdout(), fmt.Sprintf("Table %s created", args[0]))

		return nil
	}).Build()
}

func NewTableListCmd() *cobra.Command {
	return NewCommand(
		"list", "List tables",
	).WithArgs(cobra.NoArgs).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		tables := e.Catalog().Tables()

		if len(tables) == 0 {
			return fmt.Errorf("no tables found")
		}

		renderTables(cmd.OutOrStdout(), tables)

		return nil
	}).Build()
}

// Parse a field definition formatted as "name:type:width".
func parseField(definition string) (catalog.Field, error) {
	parts := strings.Split(definition, ":")

	if len(parts) != 3 {
		return catalog.Field{}, fmt.Errorf("invalid field %q, expected name:type:width", definition)
	}

	width, err := strconv.ParseInt(parts[2], 10, 64)

	if err != nil {
		return catalog.Field{}, fmt.Errorf("invalid width for field %s: %w", parts[0], err)
	}

	return catalog.Field{
		Name:  parts[0],
		Type:  catalog.FieldType(parts[1]),
		Width: width,
	}, nil
}

func renderTables(w io.Writer, tables []*catalog.Table) {
	rows := make([][]string, 0, len(tables))

	for _, t := range tables {
		fields := make([]string, 0, len(t.Schema))

		for _, field := range t.Schema {
			fields = append(fields, fmt.Sprintf("%s:%s:%d", field.Name, field.Type, field.Width))
		}

		rows = append(rows, []string{
			t.Name,
			strings.Join(fields, " "),
			strconv.FormatInt(t.Size, 10),
			strconv.FormatInt(t.Index, 10),
		})
	}

	renderTable(w, []string{"Name", "Schema", "Size", "Index"}, rows)
}
