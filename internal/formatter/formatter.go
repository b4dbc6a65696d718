// package formatter reads and writes CSV files and renders table snapshots for the terminal (text table, Markdown, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/chinook/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func cells(columns []string, snapshots []models.Snapshot) [][]string {
	rows := make([][]string, len(snapshots))
	for i, s := range snapshots {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = s[c]
		}
		rows[i] = row
	}
	return rows
}

// RenderTable draws snapshots as a bordered terminal table in column order.
func RenderTable(columns []string, snapshots []models.Snapshot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(columns...).
		Rows(cells(columns, snapshots)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// SnapshotsToMarkdown converts snapshots to a Markdown table titled with the table name.
func SnapshotsToMarkdown(title string, columns []string, snapshots []models.Snapshot) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Rows**: %d\n\n", len(snapshots)))

	escape := strings.NewReplacer("|", "\\|", "\n", " ")
	buf.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")
	for _, row := range cells(columns, snapshots) {
		for i := range row {
			row[i] = escape.Replace(row[i])
		}
		buf.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return buf.Bytes()
}

// SnapshotsToCSV converts snapshots to CSV with columns as the header.
func SnapshotsToCSV(columns []string, snapshots []models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range cells(columns, snapshots) {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
