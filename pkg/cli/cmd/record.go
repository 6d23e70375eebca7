package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/engine"
	"github.com/spf13/cobra"
)

func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Store, fetch and filter records",
	}

	cmd.AddCommand(NewRecordFetchCmd())
	cmd.AddCommand(NewRecordFilterCmd())
	cmd.AddCommand(NewRecordStoreCmd())

	return cmd
}

func NewRecordFetchCmd() *cobra.Command {
	return NewCommand(
		"fetch <table> <id>", "Fetch a persisted record",
	).WithArgs(cobra.ExactArgs(2)).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		t, ok := e.Catalog().Get(args[0])

		if !ok {
			return fmt.Errorf("table %s does not exist", args[0])
		}

		id, err := parseID(args[1])

		if err != nil {
			return err
		}

		record, err := e.Fetch(cmd.Context(), t.Name, id)

		if err != nil {
			return err
		}

		renderRecords(cmd.OutOrStdout(), t, []catalog.Record{record})

		return nil
	}).Build()
}

func NewRecordFilterCmd() *cobra.Command {
	return NewCommand(
		"filter <table> <key> <comparator> <value>", "Scan a table for matching records",
	).WithArgs(cobra.ExactArgs(4)).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		t, ok := e.Catalog().Get(args[0])

		if !ok {
			return fmt.Errorf("table %s does not exist", args[0])
		}

		query := engine.Query{
			Key:        args[1],
			Comparator: strings.ToUpper(args[2]),
			Value:      parseValue(t, args[1], args[3]),
		}

		result, err := e.Filter(cmd.Context(), t.Name, query)

		if err != nil {
			return err
		}

		renderRecords(cmd.OutOrStdout(), t, result.Results)

		return nil
	}).Build()
}

func NewRecordStoreCmd() *cobra.Command {
	return NewCommand(
		"store <table> <id> <field=value>...", "Store a record and persist it",
	).WithArgs(cobra.MinimumNArgs(3)).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		t, ok := e.Catalog().Get(args[0])

		if !ok {
			return fmt.Errorf("table %s does not exist", args[0])
		}

		id, err := parseID(args[1])

		if err != nil {
			return err
		}

		record := catalog.Record{}

		for _, pair := range args[2:] {
			key, value, found := strings.Cut(pair, "=")

			if !found {
				return fmt.Errorf("invalid field %q, expected field=value", pair)
			}

			record[key] = parseValue(t, key, value)
		}

		if err := e.StoreRecord(cmd.Context(), t.Name, id, record); err != nil {
			return err
		}

		if err := e.Persist(cmd.Context()); err != nil {
			return err
		}

		renderSuccess(cmd.OutOrStdout(), fmt.Sprintf("Record %d stored in %s", id, t.Name))

		return nil
	}).Build()
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)

	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", value)
	}

	return id, nil
}

// Convert a command line value to the type of the field it is compared with
// or stored in. Values that are not valid numbers are left as strings.
func parseValue(t *catalog.Table, key, value string) any {
	field, ok := t.Field(key)

	if key != catalog.IDKey && (!ok || field.Type != catalog.FieldTypeNumber) {
		return value
	}

	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return value
}
