// Package tasks implements the database lifecycle: schema initialization, CSV seeding and removal.
//
// # Operations
//
//  1. [Initialize] : Create or update the store
//     - Creates the store file (and its directory) when absent
//     - Applies pending migrations, then re-runs every create-if-missing script
//     - Never drops or rewrites existing rows
//
//  2. [Seeder.Seed] : Load CSV files named by a manifest
//     - Each manifest line names a CSV file relative to the manifest's directory
//     - The target table comes from the configured file mapping, falling back to lower(table)+".csv"
//     - Each file is inserted in its own transaction; the first failure aborts the remaining files
//
//  3. [Destroy] : Remove the store file and its journal siblings
//
// # Progress Reporting
//
// [Seeder.Seed] accepts an optional channel of [ProgressUpdate] values. Updates are sent with
// select/default so a slow or absent reader never blocks seeding.
package tasks
