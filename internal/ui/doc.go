// Package ui implements an interactive terminal table browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the store:
//  1. [TableListView] : Browse every table with its row count
//  2. [RowListView] : Browse the rows of the selected table, ordered by Id
//  3. [RowDetailView] : Inspect every column of a single row
//  4. [ConfirmDeleteView] : Confirm deleting the selected row
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store calls run as [tea.Cmd] functions so the view never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
