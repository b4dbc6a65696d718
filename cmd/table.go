package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/chinook/internal/formatter"
	"github.com/desertthunder/chinook/internal/models"
	"github.com/desertthunder/chinook/internal/shared"
	"github.com/urfave/cli/v3"
)

type tableCount struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// TableList prints every table with its row count.
func (r *Runner) TableList(ctx context.Context, cmd *cli.Command) error {
	counts := make([]tableCount, 0, len(models.Tables))
	for _, t := range models.Tables {
		n, err := r.store.Count(ctx, t)
		if err != nil {
			return err
		}
		counts = append(counts, tableCount{Table: t.Name, Rows: n})
	}

	if cmd.Bool("json") {
		return r.writeJSON(counts, true)
	}

	snapshots := make([]models.Snapshot, len(counts))
	for i, c := range counts {
		snapshots[i] = models.Snapshot{"Table": c.Table, "Rows": fmt.Sprint(c.Rows)}
	}
	return r.writePlain("%s\n", formatter.RenderTable([]string{"Table", "Rows"}, snapshots))
}

// TableSelect prints the rows of a table, restricted by --where when given.
func (r *Runner) TableSelect(ctx context.Context, cmd *cli.Command) error {
	table, err := r.lookupTable(cmd)
	if err != nil {
		return err
	}
	filters, err := r.filters(cmd)
	if err != nil {
		return err
	}

	verbose := cmd.Bool("verbose")
	var snapshots []models.Snapshot
	if len(filters) == 0 {
		snapshots, err = r.store.SelectAll(ctx, table, verbose)
	} else {
		snapshots, err = r.store.Select(ctx, table, filters, verbose)
	}
	if errors.Is(err, shared.ErrNoRowsMatched) {
		return r.writePlain("No rows matched in %s\n", table.Name)
	} else if err != nil {
		return err
	}

	columns := table.ColumnNames()
	switch {
	case cmd.Bool("json"):
		return r.writeJSON(snapshots, true)
	case cmd.Bool("markdown"):
		_, err := r.output.Write(formatter.SnapshotsToMarkdown(table.Name, columns, snapshots))
		return err
	case cmd.Bool("csv"):
		data, err := formatter.SnapshotsToCSV(columns, snapshots)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	r.writePlain("%s\n", formatter.RenderTable(columns, snapshots))
	return r.writePlain("%d row(s)\n", len(snapshots))
}

// TableInsert inserts one row built from the --set pairs.
func (r *Runner) TableInsert(ctx context.Context, cmd *cli.Command) error {
	table, err := r.lookupTable(cmd)
	if err != nil {
		return err
	}
	values, err := parsePairs(cmd.StringSlice("set"), true)
	if err != nil {
		return err
	}

	id, err := r.store.Insert(ctx, models.NewRow(table, values), cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	return r.writePlain("Inserted %s #%d\n", table.Name, id)
}

// TableUpdate sets --attr on every row or on the rows matching --where.
func (r *Runner) TableUpdate(ctx context.Context, cmd *cli.Command) error {
	table, err := r.lookupTable(cmd)
	if err != nil {
		return err
	}
	filters, err := r.filters(cmd)
	if err != nil {
		return err
	}

	attr := cmd.String("attr")
	var value any = cmd.String("value")
	if cmd.Bool("null") {
		value = nil
	}

	verbose := cmd.Bool("verbose")
	var n int
	if len(filters) == 0 {
		n, err = r.store.UpdateAll(ctx, table, attr, value, verbose)
	} else {
		n, err = r.store.Update(ctx, table, filters, attr, value, verbose)
	}
	if err != nil {
		return err
	}
	return r.writePlain("Updated %d row(s) in %s\n", n, table.Name)
}

// TableDelete removes the rows matching --where. Deleting every row requires --all.
func (r *Runner) TableDelete(ctx context.Context, cmd *cli.Command) error {
	table, err := r.lookupTable(cmd)
	if err != nil {
		return err
	}
	filters, err := r.filters(cmd)
	if err != nil {
		return err
	}

	verbose := cmd.Bool("verbose")
	var n int
	switch {
	case len(filters) > 0:
		n, err = r.store.Delete(ctx, table, filters, verbose)
	case cmd.Bool("all"):
		n, err = r.store.DeleteAll(ctx, table, verbose)
	default:
		return fmt.Errorf("%w: --where or --all", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}
	return r.writePlain("Deleted %d row(s) from %s\n", n, table.Name)
}

// TableExport writes every row of a table to a CSV file with a header in column order.
func (r *Runner) TableExport(ctx context.Context, cmd *cli.Command) error {
	table, err := r.lookupTable(cmd)
	if err != nil {
		return err
	}

	verbose := cmd.Bool("verbose")
	snapshots, err := r.store.SelectAll(ctx, table, verbose)
	if err != nil {
		return err
	}

	records := make([]map[string]string, len(snapshots))
	for i, s := range snapshots {
		records[i] = s
	}

	output := cmd.String("output")
	if err := r.csv.WriteRecordsWithHeader(output, table.ColumnNames(), records, verbose); err != nil {
		return err
	}
	return r.writePlain("Exported %d row(s) from %s to %s\n", len(records), table.Name, output)
}

// EmployeesReports prints the employees whose ReportsTo is --id.
func (r *Runner) EmployeesReports(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	reports, err := r.store.DirectReports(ctx, id, cmd.Bool("verbose"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(reports, true)
	}
	if len(reports) == 0 {
		return r.writePlain("Employee %d has no direct reports\n", id)
	}
	return r.writePlain("%s\n", formatter.RenderTable(models.EmployeesTable.ColumnNames(), reports))
}

// filters parses the --where pairs. Empty values are matched literally.
func (r *Runner) filters(cmd *cli.Command) (models.Filters, error) {
	values, err := parsePairs(cmd.StringSlice("where"), false)
	if err != nil {
		return nil, err
	}
	return models.Filters(values), nil
}
