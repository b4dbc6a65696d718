package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/chinook/internal/shared"
	"golang.org/x/text/cases"
)

const (
	IDColumn        = "Id"
	CreatedAtColumn = "CreatedAt"
)

// Column describes a single table column.
type Column struct {
	Name       string
	Nullable   bool
	References string // parent table for foreign keys, empty otherwise
}

// Table describes a physical table. Columns are in declaration order.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by exact name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ForeignKeys returns the columns referencing another table.
func (t Table) ForeignKeys() []Column {
	var fks []Column
	for _, c := range t.Columns {
		if c.References != "" {
			fks = append(fks, c)
		}
	}
	return fks
}

// ValidateColumns returns [shared.ErrUnknownColumn] for the first name not in t.
func (t Table) ValidateColumns(names ...string) error {
	for _, n := range names {
		if _, ok := t.Column(n); !ok {
			return fmt.Errorf("%w: %s.%s", shared.ErrUnknownColumn, t.Name, n)
		}
	}
	return nil
}

// ValidateUpdate checks that attr exists and may be changed after insert.
func (t Table) ValidateUpdate(attr string) error {
	if err := t.ValidateColumns(attr); err != nil {
		return err
	}
	if attr == IDColumn || attr == CreatedAtColumn {
		return fmt.Errorf("%w: %s.%s", shared.ErrImmutableColumn, t.Name, attr)
	}
	return nil
}

func col(name string) Column        { return Column{Name: name} }
func nullable(name string) Column   { return Column{Name: name, Nullable: true} }
func fk(name, parent string) Column { return Column{Name: name, References: parent} }

func nullableFK(name, parent string) Column {
	return Column{Name: name, Nullable: true, References: parent}
}

func newTable(name string, cols ...Column) Table {
	all := append([]Column{col(IDColumn)}, cols...)
	return Table{Name: name, Columns: append(all, col(CreatedAtColumn))}
}

var (
	ArtistsTable    = newTable("Artists", col("Name"))
	GenresTable     = newTable("Genres", col("Name"))
	MediaTypesTable = newTable("MediaTypes", col("Name"))
	PlaylistsTable  = newTable("Playlists", col("Name"))
	AlbumsTable     = newTable("Albums", col("Title"), fk("ArtistId", "Artists"))
	EmployeesTable  = newTable("Employees",
		col("LastName"), col("FirstName"), col("Title"),
		nullableFK("ReportsTo", "Employees"),
		nullable("BirthDate"), nullable("HireDate"), nullable("Address"), nullable("City"),
		nullable("State"), nullable("Country"), nullable("PostalCode"), nullable("Phone"),
		nullable("Fax"), col("Email"),
	)
	CustomersTable = newTable("Customers",
		col("FirstName"), col("LastName"), nullable("Company"), nullable("Address"),
		nullable("City"), nullable("State"), nullable("Country"), nullable("PostalCode"),
		nullable("Phone"), nullable("Fax"), col("Email"),
		nullableFK("SupportRepId", "Employees"),
	)
	InvoicesTable = newTable("Invoices",
		fk("CustomerId", "Customers"), nullable("InvoiceDate"), nullable("BillingAddress"),
		nullable("BillingCity"), nullable("BillingState"), nullable("BillingCountry"),
		nullable("BillingPostalCode"), nullable("Email"), col("Total"),
	)
	TracksTable = newTable("Tracks",
		col("Name"), fk("AlbumId", "Albums"), fk("MediaTypeId", "MediaTypes"), fk("GenreId", "Genres"),
		nullable("Composer"), col("Milliseconds"), nullable("Bytes"), col("UnitPrice"),
	)
	InvoiceItemsTable = newTable("InvoiceItems",
		fk("InvoiceId", "Invoices"), fk("TrackId", "Tracks"), col("UnitPrice"), col("Quantity"),
	)
	PlaylistTracksTable = newTable("PlaylistTracks", fk("PlaylistId", "Playlists"), fk("TrackId", "Tracks"))
)

// Tables lists every table, parents before children.
var Tables = []Table{
	ArtistsTable,
	GenresTable,
	MediaTypesTable,
	PlaylistsTable,
	AlbumsTable,
	EmployeesTable,
	CustomersTable,
	InvoicesTable,
	TracksTable,
	InvoiceItemsTable,
	PlaylistTracksTable,
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// LookupTable resolves a table by name, ignoring case.
func LookupTable(name string) (Table, error) {
	want := fold(name)
	for _, t := range Tables {
		if fold(t.Name) == want {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("%w: %q", shared.ErrUnknownTable, name)
}

// TableForFile resolves the table for a seed CSV file.
//
// An explicit mapping from basename to table name wins; otherwise the basename
// without its extension must equal a table name, ignoring case ("mediatypes.csv" → MediaTypes).
func TableForFile(filename string, mapping map[string]string) (Table, error) {
	base := filepath.Base(filename)
	for k, v := range mapping {
		if fold(k) == fold(base) {
			return LookupTable(v)
		}
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	t, err := LookupTable(stem)
	if err != nil {
		return Table{}, fmt.Errorf("no table for seed file %s: %w", base, err)
	}
	return t, nil
}

// ValidateFileMapping checks that every mapped table exists.
func ValidateFileMapping(mapping map[string]string) error {
	for file, table := range mapping {
		if _, err := LookupTable(table); err != nil {
			return fmt.Errorf("%w: seed file %s: %v", shared.ErrInvalidConfig, file, err)
		}
	}
	return nil
}
