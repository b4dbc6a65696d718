package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/chinook/internal/models"
)

var (
	_ list.Item = tableItem{}
	_ list.Item = rowItem{}
)

// tableItem wraps a [models.Table] and its row count to implement [list.Item].
type tableItem struct {
	table models.Table
	rows  int
}

func (i tableItem) FilterValue() string { return i.table.Name }
func (i tableItem) Title() string       { return i.table.Name }
func (i tableItem) Description() string {
	desc := fmt.Sprintf("%d rows", i.rows)
	if fks := i.table.ForeignKeys(); len(fks) > 0 {
		parents := make([]string, len(fks))
		for j, fk := range fks {
			parents[j] = fk.References
		}
		desc = fmt.Sprintf("%s • references %s", desc, strings.Join(parents, ", "))
	}
	return desc
}

// rowItem wraps a [models.Snapshot] to implement [list.Item].
type rowItem struct {
	table    models.Table
	snapshot models.Snapshot
}

// label is the first data column, which names the row in every table.
func (i rowItem) label() string {
	for _, c := range i.table.Columns {
		if c.Name != models.IDColumn && c.Name != models.CreatedAtColumn {
			return i.snapshot[c.Name]
		}
	}
	return ""
}

func (i rowItem) FilterValue() string { return i.label() }
func (i rowItem) Title() string {
	return fmt.Sprintf("#%s %s", i.snapshot[models.IDColumn], i.label())
}
func (i rowItem) Description() string {
	var parts []string
	for _, c := range i.table.Columns[2:] {
		if v := i.snapshot[c.Name]; v != "" && c.Name != models.CreatedAtColumn {
			parts = append(parts, fmt.Sprintf("%s: %s", c.Name, v))
		}
	}
	return strings.Join(parts, " • ")
}
