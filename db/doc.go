// Package db provides the DuckDB execution engine for sqlrunner.
//
// The Runner type is the main entry point. It opens a sandboxed
// database, splits scripts into statements, and executes them.
//
// # Runner Usage
//
//	runner, err := db.Open("data/analytics.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runner.Close()
//
//	results, err := runner.ExecuteFile(ctx, "scripts/setup.sql")
//	for _, r := range results {
//	    r.Display()
//	}
//
// # Result Types
//
// There are two result types:
//   - QueryResult: rows returned by a guarded Query call
//   - StatementResult: per-statement outcome of a script run
//
// QueryResult contains columns, data rows, and execution metrics.
// StatementResult carries either a row preview or an affected-row
// count, plus the statement's error if it failed.
//
// # Sandboxing
//
// All file access goes through a Sandbox rooted at the working
// directory. Database files must live in the working directory or its
// data/ subdirectory. Scripts may also be fetched from s3:// and
// http(s):// URLs.
package db
