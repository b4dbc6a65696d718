package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chinook/internal/models"
	"github.com/desertthunder/chinook/internal/repositories"
	th "github.com/desertthunder/chinook/internal/testing"
)

type failingBrowser struct{ err error }

func (f failingBrowser) Count(context.Context, models.Table) (int, error) { return 0, f.err }
func (f failingBrowser) SelectAll(context.Context, models.Table, bool) ([]models.Snapshot, error) {
	return nil, f.err
}
func (f failingBrowser) Delete(context.Context, models.Table, models.Filters, bool) (int, error) {
	return 0, f.err
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// send delivers msg and then runs the resulting command chain to completion.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	for msg != nil {
		_, cmd := m.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
		if _, ok := msg.(Msg); !ok {
			return
		}
	}
}

func newBrowser(t *testing.T) (*Model, *repositories.Store) {
	t.Helper()
	ctx := context.Background()
	loggers, _ := th.NewLoggers(t)
	store := repositories.NewStore(th.MustMemoryDB(t), loggers)

	for _, name := range []string{"Rock", "Jazz"} {
		if _, err := store.Insert(ctx, &models.Genre{Name: name}, false); err != nil {
			t.Fatalf("failed to insert genre: %v", err)
		}
	}

	m := NewModel(ctx, store, false)
	send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	send(t, m, m.Init()())
	return m, store
}

func TestModel(t *testing.T) {
	t.Run("loads tables with counts", func(t *testing.T) {
		m, _ := newBrowser(t)

		items := m.tableList.Items()
		if len(items) != len(models.Tables) {
			t.Fatalf("expected %d tables, got %d", len(models.Tables), len(items))
		}
		genres := items[1].(tableItem)
		if genres.table.Name != "Genres" || genres.rows != 2 {
			t.Errorf("unexpected genres item: %+v", genres)
		}
		if !strings.Contains(genres.Description(), "2 rows") {
			t.Errorf("unexpected description %q", genres.Description())
		}
		if !strings.Contains(m.View(), "Genres") {
			t.Errorf("table view missing Genres:\n%s", m.View())
		}
	})

	t.Run("browses rows and details", func(t *testing.T) {
		m, _ := newBrowser(t)
		m.tableList.Select(1)

		send(t, m, keyPress("enter"))
		if m.view != RowListView {
			t.Fatalf("expected RowListView, got %v", m.view)
		}
		if len(m.rowList.Items()) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(m.rowList.Items()))
		}

		send(t, m, keyPress("enter"))
		if m.view != RowDetailView {
			t.Fatalf("expected RowDetailView, got %v", m.view)
		}
		if view := m.View(); !strings.Contains(view, "Genres #1") || !strings.Contains(view, "Rock") {
			t.Errorf("detail view missing row data:\n%s", view)
		}

		send(t, m, keyPress("esc"))
		if m.view != RowListView {
			t.Errorf("expected esc to return to rows, got %v", m.view)
		}

		send(t, m, keyPress("esc"))
		if m.view != TableListView {
			t.Errorf("expected esc to return to tables, got %v", m.view)
		}
	})

	t.Run("deletes a row after confirmation", func(t *testing.T) {
		m, store := newBrowser(t)
		m.tableList.Select(1)
		send(t, m, keyPress("enter"))

		send(t, m, keyPress("d"))
		if m.view != ConfirmDeleteView {
			t.Fatalf("expected ConfirmDeleteView, got %v", m.view)
		}

		send(t, m, keyPress("n"))
		if m.view != RowListView {
			t.Fatalf("expected n to cancel, got %v", m.view)
		}

		send(t, m, keyPress("d"))
		send(t, m, keyPress("y"))

		if n, _ := store.Count(context.Background(), models.GenresTable); n != 1 {
			t.Errorf("expected 1 genre after delete, got %d", n)
		}
		if len(m.rowList.Items()) != 1 {
			t.Errorf("expected row list to reload, got %d rows", len(m.rowList.Items()))
		}
		if !strings.Contains(m.View(), "Deleted row 1 from Genres") {
			t.Errorf("expected status message, got:\n%s", m.View())
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newBrowser(t)
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("store errors are shown", func(t *testing.T) {
		m := NewModel(context.Background(), failingBrowser{err: errors.New("database is locked")}, false)
		send(t, m, m.Init()())

		if !strings.Contains(m.View(), "database is locked") {
			t.Errorf("expected error in view, got:\n%s", m.View())
		}
	})
}

func TestRowItem(t *testing.T) {
	item := rowItem{
		table:    models.AlbumsTable,
		snapshot: models.Snapshot{"Id": "4", "Title": "Let There Be Rock", "ArtistId": "1", "CreatedAt": "2026-01-01T00:00:00.000Z"},
	}

	if item.Title() != "#4 Let There Be Rock" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.Description() != "ArtistId: 1" {
		t.Errorf("unexpected description %q", item.Description())
	}
	if item.FilterValue() != "Let There Be Rock" {
		t.Errorf("unexpected filter value %q", item.FilterValue())
	}
}
