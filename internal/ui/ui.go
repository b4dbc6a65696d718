package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chinook/internal/formatter"
	"github.com/desertthunder/chinook/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TableListView ViewState = iota
	RowListView
	RowDetailView
	ConfirmDeleteView
)

// Browser is the subset of the store the TUI reads from and deletes through.
type Browser interface {
	Count(ctx context.Context, table models.Table) (int, error)
	SelectAll(ctx context.Context, table models.Table, verbose bool) ([]models.Snapshot, error)
	Delete(ctx context.Context, table models.Table, filters models.Filters, verbose bool) (int, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	store     Browser
	verbose   bool
	width     int
	height    int
	tableList list.Model
	rowList   list.Model
	table     models.Table
	selected  models.Snapshot
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model reading from store. Deletes are written to the data log when verbose is set.
func NewModel(ctx context.Context, store Browser, verbose bool) *Model {
	return &Model{
		ctx:       ctx,
		view:      TableListView,
		store:     store,
		verbose:   verbose,
		tableList: newList("Tables", nil),
		rowList:   newList("Rows", nil),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Run starts the browser on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, store Browser, verbose bool) error {
	p := tea.NewProgram(NewModel(ctx, store, verbose), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return l
}

// Init initializes the TUI by loading the table list.
func (m *Model) Init() tea.Cmd {
	return m.loadTables()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tableList.SetSize(msg.Width-4, msg.Height-8)
		m.rowList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TableListView:
			return m.handleTableListKeys(msg)
		case RowListView:
			return m.handleRowListKeys(msg)
		case RowDetailView:
			return m.handleRowDetailKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTablesLoaded:
		data := msg.data.(tablesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.tables))
		for i, t := range data.tables {
			items[i] = t
		}
		cmd := m.tableList.SetItems(items)
		return m, cmd

	case MsgRowsLoaded:
		data := msg.data.(rowsLoaded)
		if data.err != nil {
			m.err = data.err
			m.view = TableListView
			return m, nil
		}
		m.err = nil
		m.table = data.table
		items := make([]list.Item, len(data.snapshots))
		for i, s := range data.snapshots {
			items[i] = rowItem{table: data.table, snapshot: s}
		}
		m.rowList = newList(data.table.Name, items)
		m.rowList.SetSize(m.width-4, m.height-8)
		m.view = RowListView
		return m, nil

	case MsgRowDeleted:
		data := msg.data.(rowDeleted)
		m.selected = nil
		if data.err != nil {
			m.err = data.err
			m.view = RowListView
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Deleted row %s from %s", data.id, data.table.Name)
		return m, m.loadRows(data.table)
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	} else if m.status != "" {
		b.WriteString(styles.ok.Render(m.status) + "\n\n")
	}

	switch m.view {
	case TableListView:
		b.WriteString(m.renderTableList())
	case RowListView:
		b.WriteString(m.renderRowList())
	case RowDetailView:
		b.WriteString(m.renderRowDetail())
	case ConfirmDeleteView:
		b.WriteString(m.renderConfirm())
	}
	return b.String()
}

func (m *Model) handleTableListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tableList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tableList, cmd = m.tableList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.loadTables()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.tableList.SelectedItem().(tableItem); ok {
			m.status = ""
			return m, m.loadRows(item.table)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tableList, cmd = m.tableList.Update(msg)
	return m, cmd
}

func (m *Model) handleRowListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rowList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.rowList, cmd = m.rowList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TableListView
		m.status = ""
		return m, m.loadTables()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.rowList.SelectedItem().(rowItem); ok {
			m.selected = item.snapshot
			m.view = RowDetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.rowList.SelectedItem().(rowItem); ok {
			m.selected = item.snapshot
			m.view = ConfirmDeleteView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.rowList, cmd = m.rowList.Update(msg)
	return m, cmd
}

func (m *Model) handleRowDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = RowListView
		m.selected = nil
	case key.Matches(msg, m.keys.remove):
		m.view = ConfirmDeleteView
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteRow(m.table, m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = RowListView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TableListView:
		m.tableList, cmd = m.tableList.Update(msg)
	case RowListView:
		m.rowList, cmd = m.rowList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadTables() tea.Cmd {
	return func() tea.Msg {
		items := make([]tableItem, 0, len(models.Tables))
		for _, t := range models.Tables {
			n, err := m.store.Count(m.ctx, t)
			if err != nil {
				return tablesLoadedMsg(nil, err)
			}
			items = append(items, tableItem{table: t, rows: n})
		}
		return tablesLoadedMsg(items, nil)
	}
}

func (m *Model) loadRows(table models.Table) tea.Cmd {
	return func() tea.Msg {
		snapshots, err := m.store.SelectAll(m.ctx, table, false)
		return rowsLoadedMsg(table, snapshots, err)
	}
}

func (m *Model) deleteRow(table models.Table, snapshot models.Snapshot) tea.Cmd {
	return func() tea.Msg {
		id, err := snapshot.ID()
		if err != nil {
			return rowDeletedMsg(table, snapshot[models.IDColumn], 0, err)
		}
		n, err := m.store.Delete(m.ctx, table, models.Filters{models.IDColumn: id}, m.verbose)
		return rowDeletedMsg(table, snapshot[models.IDColumn], n, err)
	}
}

func (m *Model) renderTableList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.tableList.View(), helpView)
}

func (m *Model) renderRowList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.rowList.View(), helpView)
}

func (m *Model) renderRowDetail() string {
	title := styles.title.Render(fmt.Sprintf("%s #%s", m.table.Name, m.selected[models.IDColumn]))

	fields := make([]models.Snapshot, 0, len(m.table.Columns))
	for _, c := range m.table.Columns {
		value := m.selected[c.Name]
		if value == "" && c.Nullable {
			value = styles.help.Render("NULL")
		}
		fields = append(fields, models.Snapshot{"Column": c.Name, "Value": value})
	}

	helpKeys := []key.Binding{m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, formatter.RenderTable([]string{"Column", "Value"}, fields), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.warn.Render(fmt.Sprintf("Delete %s row #%s?", m.table.Name, m.selected[models.IDColumn]))
	info := fmt.Sprintf("\n%s\n", rowItem{table: m.table, snapshot: m.selected}.Title())

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
