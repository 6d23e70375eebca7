package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/diamonddb/diamond-node/pkg/catalog"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Margin(0, 0, 1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#86efac"})
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"})).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(w, t.String())
}

func renderSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render(message))
}

// Render records as rows with the id first and the schema fields in order.
func renderRecords(w io.Writer, t *catalog.Table, records []catalog.Record) {
	headers := []string{catalog.IDKey}

	for _, field := range t.Schema {
		headers = append(headers, field.Name)
	}

	rows := make([][]string, 0, len(records))

	for _, record := range records {
		row := make([]string, 0, len(headers))

		for _, header := range headers {
			row = append(row, formatValue(record[header]))
		}

		rows = append(rows, row)
	}

	renderTable(w, headers, rows)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return fmt.Sprint(value)
}
