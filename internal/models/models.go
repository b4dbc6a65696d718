// package models defines the data model for the music-store data-access layer
package models

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/desertthunder/chinook/internal/shared"
)

// Entity defines the base interface for all rows that can be inserted one at a time.
type Entity interface {
	Table() Table           // Table returns the descriptor of the table the entity maps to
	Values() map[string]any // Values returns the insertable column values; Id only when already assigned
	SetID(id int64)         // SetID records the identifier assigned by the store
	Validate() error        // Validate checks if the entity's data is valid and returns an error if not
}

// Filters is an exact-match conjunction of column/value pairs.
type Filters map[string]any

// Columns returns the filtered columns in sorted order.
func (f Filters) Columns() []string {
	cols := make([]string, 0, len(f))
	for c := range f {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Snapshot is a point-in-time mapping of column name to stringified value.
//
// NULL columns are represented by the empty string.
type Snapshot map[string]string

// ID parses the snapshot's Id column.
func (s Snapshot) ID() (int64, error) {
	v, ok := s[IDColumn]
	if !ok {
		return 0, fmt.Errorf("%w: snapshot has no %s", shared.ErrUnknownColumn, IDColumn)
	}
	return strconv.ParseInt(v, 10, 64)
}

// Row is a generic [Entity] built from a column map.
type Row struct {
	table  Table
	values map[string]any
	id     int64
}

// NewRow creates a [Row] for table with the given column values.
func NewRow(table Table, values map[string]any) *Row {
	return &Row{table: table, values: values}
}

func (r *Row) Table() Table { return r.table }
func (r *Row) ID() int64    { return r.id }

func (r *Row) SetID(id int64) {
	r.id = id
	r.values[IDColumn] = id
}

func (r *Row) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Validate checks that every column exists and that CreatedAt is left to the store.
func (r *Row) Validate() error {
	if len(r.values) == 0 {
		return fmt.Errorf("%w: no values for %s", shared.ErrInvalidInput, r.table.Name)
	}
	for col := range r.values {
		if col == CreatedAtColumn {
			return fmt.Errorf("%w: %s is set by the store", shared.ErrImmutableColumn, CreatedAtColumn)
		}
		if err := r.table.ValidateColumns(col); err != nil {
			return err
		}
	}
	return nil
}
