package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chinook/internal/models"
	"github.com/desertthunder/chinook/internal/shared"
	"github.com/jmoiron/sqlx"
)

// Store runs the CRUD helpers against an open database.
type Store struct {
	db   *sqlx.DB
	app  *log.Logger
	data *log.Logger
}

// NewStore wraps db with the given loggers.
func NewStore(db *sql.DB, loggers *shared.Loggers) *Store {
	return &Store{
		db:   sqlx.NewDb(db, shared.DriverName),
		app:  loggers.App,
		data: loggers.Data,
	}
}

// InsertAll inserts rows into table in one transaction. Any failure rolls back the whole batch.
func (s *Store) InsertAll(ctx context.Context, table models.Table, rows []map[string]any, verbose bool) (int, error) {
	for i, row := range rows {
		if err := models.NewRow(table, row).Validate(); err != nil {
			return 0, s.fail("insert all", table, fmt.Errorf("row %d: %w", i, err))
		}
	}

	var count int
	err := s.mutate(ctx, func(tx *sqlx.Tx) error {
		for i, row := range rows {
			if _, err := tx.NamedExecContext(ctx, insertQuery(table, row), row); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, s.fail("insert all", table, err)
	}

	if verbose {
		s.data.Info("inserted rows", "table", table.Name, "count", count, "rows", rows)
	}
	return count, nil
}

// SelectAll returns every row of table ordered by Id. An empty table yields an empty slice.
func (s *Store) SelectAll(ctx context.Context, table models.Table, verbose bool) ([]models.Snapshot, error) {
	snapshots, err := s.query(ctx, table, nil)
	if err != nil {
		return nil, s.fail("select all", table, err)
	}

	if verbose {
		s.data.Info("selected rows", "table", table.Name, "count", len(snapshots), "rows", snapshots)
	}
	return snapshots, nil
}

// UpdateAll sets attr to value on every row of table and returns the affected row count.
func (s *Store) UpdateAll(ctx context.Context, table models.Table, attr string, value any, verbose bool) (int, error) {
	return s.update(ctx, "update all", table, nil, attr, value, verbose)
}

// DeleteAll removes every row of table and returns the prior row count.
func (s *Store) DeleteAll(ctx context.Context, table models.Table, verbose bool) (int, error) {
	return s.delete(ctx, "delete all", table, nil, verbose)
}

// Insert validates and inserts a single entity, records the assigned identifier on it and returns it.
func (s *Store) Insert(ctx context.Context, entity models.Entity, verbose bool) (int64, error) {
	table := entity.Table()
	if err := entity.Validate(); err != nil {
		return 0, s.fail("insert", table, fmt.Errorf("validation failed: %w", err))
	}

	values := entity.Values()
	if err := table.ValidateColumns(keys(values)...); err != nil {
		return 0, s.fail("insert", table, err)
	}

	var id int64
	err := s.mutate(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, insertQuery(table, values), values)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, s.fail("insert", table, err)
	}

	entity.SetID(id)
	if verbose {
		s.data.Info("inserted row", "table", table.Name, "id", id, "values", values)
	}
	return id, nil
}

// Select returns the rows of table matching every filter, ordered by Id.
//
// When nothing matches the error wraps [shared.ErrNoRowsMatched]. Empty filters match every row.
func (s *Store) Select(ctx context.Context, table models.Table, filters models.Filters, verbose bool) ([]models.Snapshot, error) {
	if err := table.ValidateColumns(filters.Columns()...); err != nil {
		return nil, s.fail("select", table, err)
	}

	snapshots, err := s.query(ctx, table, filters)
	if err != nil {
		return nil, s.fail("select", table, err)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: %s %s", shared.ErrNoRowsMatched, table.Name, describe(filters))
	}

	if verbose {
		s.data.Info("selected rows", "table", table.Name, "filters", filters, "count", len(snapshots), "rows", snapshots)
	}
	return snapshots, nil
}

// Update sets attr to value on the rows matching filters and returns the affected row count.
func (s *Store) Update(ctx context.Context, table models.Table, filters models.Filters, attr string, value any, verbose bool) (int, error) {
	return s.update(ctx, "update", table, filters, attr, value, verbose)
}

// Delete removes the rows matching filters and returns the affected row count.
func (s *Store) Delete(ctx context.Context, table models.Table, filters models.Filters, verbose bool) (int, error) {
	return s.delete(ctx, "delete", table, filters, verbose)
}

// DirectReports returns the employees whose ReportsTo is employeeID.
//
// An unknown manager wraps [shared.ErrNoRowsMatched]; a manager with no reports yields an empty slice.
func (s *Store) DirectReports(ctx context.Context, employeeID int64, verbose bool) ([]models.Snapshot, error) {
	table := models.EmployeesTable
	if _, err := s.Select(ctx, table, models.Filters{models.IDColumn: employeeID}, false); err != nil {
		return nil, err
	}

	reports, err := s.query(ctx, table, models.Filters{"ReportsTo": employeeID})
	if err != nil {
		return nil, s.fail("direct reports", table, err)
	}

	if verbose {
		s.data.Info("direct reports", "manager", employeeID, "count", len(reports), "rows", reports)
	}
	return reports, nil
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table models.Table) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table.Name); err != nil {
		return 0, s.fail("count", table, err)
	}
	return n, nil
}

func (s *Store) update(ctx context.Context, op string, table models.Table, filters models.Filters, attr string, value any, verbose bool) (int, error) {
	if err := table.ValidateUpdate(attr); err != nil {
		return 0, s.fail(op, table, err)
	}
	if err := table.ValidateColumns(filters.Columns()...); err != nil {
		return 0, s.fail(op, table, err)
	}

	where, args := whereClause(filters)
	query := fmt.Sprintf("UPDATE %s SET %s = ?%s", table.Name, attr, where)

	var count int
	err := s.mutate(ctx, func(tx *sqlx.Tx) error {
		var err error
		count, err = execCount(ctx, tx, query, append([]any{value}, args...)...)
		return err
	})
	if err != nil {
		return 0, s.fail(op, table, err)
	}

	if verbose {
		s.data.Info("updated rows", "table", table.Name, "filters", filters, "attr", attr, "value", value, "count", count)
	}
	return count, nil
}

func (s *Store) delete(ctx context.Context, op string, table models.Table, filters models.Filters, verbose bool) (int, error) {
	if err := table.ValidateColumns(filters.Columns()...); err != nil {
		return 0, s.fail(op, table, err)
	}

	where, args := whereClause(filters)
	query := fmt.Sprintf("DELETE FROM %s%s", table.Name, where)

	var count int
	err := s.mutate(ctx, func(tx *sqlx.Tx) error {
		var err error
		count, err = execCount(ctx, tx, query, args...)
		return err
	})
	if err != nil {
		return 0, s.fail(op, table, err)
	}

	if verbose {
		s.data.Info("deleted rows", "table", table.Name, "filters", filters, "count", count)
	}
	return count, nil
}

// mutate runs fn in a transaction on a dedicated connection with foreign keys enforced.
//
// The pragma is a no-op inside an open transaction, so it is set before BEGIN and reset after
// commit or rollback. The connection goes back to the pool with enforcement off.
func (s *Store) mutate(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	defer conn.ExecContext(context.Background(), "PRAGMA foreign_keys = OFF")

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}
	return nil
}

func (s *Store) query(ctx context.Context, table models.Table, filters models.Filters) ([]models.Snapshot, error) {
	where, args := whereClause(filters)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(table.ColumnNames(), ", "), table.Name, where, models.IDColumn)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table.Name, err)
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		row := make(map[string]any, len(table.Columns))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table.Name, err)
		}
		snapshot := make(models.Snapshot, len(row))
		for k, v := range row {
			snapshot[k] = stringify(v)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table.Name, err)
	}
	return snapshots, nil
}

func (s *Store) fail(op string, table models.Table, err error) error {
	err = fmt.Errorf("%s %s: %w", op, table.Name, err)
	s.app.Error("store operation failed", "op", op, "table", table.Name, "err", err)
	return err
}

func classify(err error) error {
	if shared.IsConstraintError(err) {
		return fmt.Errorf("%w: %w", shared.ErrConstraintViolation, err)
	}
	return err
}

func execCount(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// insertQuery builds a named INSERT for the columns present in values.
func insertQuery(table models.Table, values map[string]any) string {
	cols := keys(values)
	params := make([]string, len(cols))
	for i, c := range cols {
		params[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table.Name, strings.Join(cols, ", "), strings.Join(params, ", "))
}

// whereClause renders filters as "col = ?" terms joined with AND, in sorted column order.
func whereClause(filters models.Filters) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	cols := filters.Columns()
	terms := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		terms[i] = c + " = ?"
		args[i] = filters[c]
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

func describe(filters models.Filters) string {
	if len(filters) == 0 {
		return "(no filters)"
	}
	parts := make([]string, 0, len(filters))
	for _, c := range filters.Columns() {
		parts = append(parts, fmt.Sprintf("%s=%v", c, filters[c]))
	}
	return strings.Join(parts, " ")
}

func keys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for k := range values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// stringify renders a scanned column value. NULL becomes the empty string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(val)
	}
}
