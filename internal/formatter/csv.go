package formatter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chinook/internal/shared"
)

// RowDelimiter joins the fields of a record in [CSV.ReadRows].
const RowDelimiter = ", "

const byteOrderMark = "\ufeff"

// CSV reads and writes flat rows and header-mapped records.
//
// Failures are logged to the application logger and returned; verbose mode
// writes the transferred data to the data logger.
type CSV struct {
	app  *log.Logger
	data *log.Logger
}

// NewCSV creates a [CSV] helper bound to the given loggers.
func NewCSV(loggers *shared.Loggers) *CSV {
	return &CSV{app: loggers.App, data: loggers.Data}
}

// ReadRows reads path and joins the fields of every record with [RowDelimiter].
func (c *CSV) ReadRows(path string, verbose bool) ([]string, error) {
	records, err := c.readAll(path)
	if err != nil {
		return nil, err
	}

	rows := make([]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, strings.Join(record, RowDelimiter))
	}

	if verbose {
		c.data.Info("read rows", "path", path, "rows", rows)
	}
	return rows, nil
}

// WriteRows writes one single-column record per row, replacing path.
func (c *CSV) WriteRows(path string, rows []string, verbose bool) error {
	err := c.write(path, func(w *csv.Writer) error {
		for _, row := range rows {
			if err := w.Write([]string{row}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if verbose {
		c.data.Info("wrote rows", "path", path, "rows", rows)
	}
	return nil
}

// ReadRecords reads path using its first record as the header.
//
// Records shorter than the header are padded with empty values; longer records fail.
func (c *CSV) ReadRecords(path string, verbose bool) ([]map[string]string, error) {
	all, err := c.readAll(path)
	if err != nil {
		return nil, err
	}

	records := []map[string]string{}
	if len(all) == 0 {
		return records, nil
	}

	header := all[0]
	for i, rec := range all[1:] {
		if len(rec) > len(header) {
			err := fmt.Errorf("%w: %s line %d has %d fields, header has %d", shared.ErrMalformedCSV, path, i+2, len(rec), len(header))
			c.app.Error(err)
			return nil, err
		}
		record := make(map[string]string, len(header))
		for j, name := range header {
			if j < len(rec) {
				record[name] = rec[j]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}

	if verbose {
		c.data.Info("read records", "path", path, "records", records)
	}
	return records, nil
}

// WriteRecords writes records with the sorted keys of the first record as the header.
func (c *CSV) WriteRecords(path string, records []map[string]string, verbose bool) error {
	if len(records) == 0 {
		err := fmt.Errorf("%w: no records to write to %s", shared.ErrInvalidInput, path)
		c.app.Error(err)
		return err
	}

	header := make([]string, 0, len(records[0]))
	for k := range records[0] {
		header = append(header, k)
	}
	sort.Strings(header)

	return c.WriteRecordsWithHeader(path, header, records, verbose)
}

// WriteRecordsWithHeader writes records in the given column order.
//
// Missing keys are written as empty values; keys outside the header fail.
func (c *CSV) WriteRecordsWithHeader(path string, header []string, records []map[string]string, verbose bool) error {
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}

	err := c.write(path, func(w *csv.Writer) error {
		if err := w.Write(header); err != nil {
			return err
		}
		for i, record := range records {
			for k := range record {
				if !known[k] {
					return fmt.Errorf("%w: record %d has field %q not in header", shared.ErrMalformedCSV, i, k)
				}
			}
			line := make([]string, len(header))
			for j, h := range header {
				line[j] = record[h]
			}
			if err := w.Write(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if verbose {
		c.data.Info("wrote records", "path", path, "records", records)
	}
	return nil
}

func (c *CSV) readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("failed to open CSV file: %w", err)
		c.app.Error(err)
		return nil, err
	}
	defer f.Close()

	records, err := decode(f)
	if err != nil {
		err = fmt.Errorf("failed to read %s: %w", path, err)
		c.app.Error(err)
		return nil, err
	}
	return records, nil
}

func (c *CSV) write(path string, fn func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		err = fmt.Errorf("failed to create CSV file: %w", err)
		c.app.Error(err)
		return err
	}

	w := csv.NewWriter(f)
	err = fn(w)
	w.Flush()
	err = errors.Join(err, w.Error(), f.Close())
	if err != nil {
		err = fmt.Errorf("failed to write %s: %w", path, err)
		c.app.Error(err)
		return err
	}
	return nil
}

// decode reads every record, stripping a leading byte order mark and rejecting invalid UTF-8.
func decode(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedCSV, err)
	}

	for i, rec := range records {
		for j, field := range rec {
			if !utf8.ValidString(field) {
				return nil, fmt.Errorf("%w: invalid UTF-8 on line %d", shared.ErrMalformedCSV, i+1)
			}
			if i == 0 && j == 0 {
				rec[j] = strings.TrimPrefix(field, byteOrderMark)
			}
		}
	}
	return records, nil
}
