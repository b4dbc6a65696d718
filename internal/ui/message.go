package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chinook/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTablesLoaded MsgKind = iota
	MsgRowsLoaded
	MsgRowDeleted
)

type tablesLoaded struct {
	tables []tableItem
	err    error
}

type rowsLoaded struct {
	table     models.Table
	snapshots []models.Snapshot
	err       error
}

type rowDeleted struct {
	table models.Table
	id    string
	count int
	err   error
}

// tablesLoadedMsg is the constructor for [MsgTablesLoaded]
func tablesLoadedMsg(tables []tableItem, err error) Msg {
	return Msg{kind: MsgTablesLoaded, data: tablesLoaded{tables, err}}
}

// rowsLoadedMsg is the constructor for [MsgRowsLoaded]
func rowsLoadedMsg(table models.Table, snapshots []models.Snapshot, err error) Msg {
	return Msg{kind: MsgRowsLoaded, data: rowsLoaded{table, snapshots, err}}
}

// rowDeletedMsg is the constructor for [MsgRowDeleted]
func rowDeletedMsg(table models.Table, id string, count int, err error) Msg {
	return Msg{kind: MsgRowDeleted, data: rowDeleted{table, id, count, err}}
}
