// Package repositories implements table and record level CRUD over the SQLite store.
//
// Every operation is addressed by a [models.Table] from the registry, so table and column
// identifiers never come from user input. Mutations run in a single transaction on a dedicated
// connection with foreign key enforcement switched on for its duration; reads go through the pool.
//
// Key Implementations:
//   - [Store.InsertAll], [Store.SelectAll], [Store.UpdateAll], [Store.DeleteAll] : whole-table helpers
//   - [Store.Insert], [Store.Select], [Store.Update], [Store.Delete] : record-level helpers with exact-match filters
//   - [Store.DirectReports] : employees reporting to a manager
//   - [Store.Count] : row counts for reports and the browser
//
// Failures are logged to the application logger and returned wrapped; constraint violations wrap
// [shared.ErrConstraintViolation]. Verbose mode writes the affected data to the data logger.
package repositories
