// Package models defines the music-store schema as Go values.
//
// The package contains three categories of types:
//
// 1. Table descriptors: the registry every other package uses to name tables and columns
//   - [Table] : Physical table name and its ordered [Column] list
//   - [Tables] : All tables in parent-before-child order
//   - [LookupTable], [TableForFile] : Case-folded resolution from names and CSV basenames
//
// 2. Entities: one struct per table, each implementing [Entity]
//   - [Artist], [Album], [Genre], [MediaType], [Track]
//   - [Employee], [Customer], [Invoice], [InvoiceItem]
//   - [Playlist], [PlaylistTrack]
//   - [Row] : A generic entity built from a column map (CLI inserts)
//
// 3. Query values
//   - [Filters] : Exact-match conjunction of column/value pairs
//   - [Snapshot] : Column name to stringified value, as returned by selects
//
// Every column used in a query is checked against its [Table] before SQL is built,
// so table and column identifiers never come from unchecked input.
package models
