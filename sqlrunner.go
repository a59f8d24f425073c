package sqlrunner

import (
	"context"

	"sqlrunner/db"
	"sqlrunner/sql"
)

// Instance wraps an open script runner.
type Instance struct {
	Runner *db.Runner
}

// Open opens (or creates) a database file confined to the working
// directory or its data/ subdirectory.
func Open(path string, opts ...db.Option) (*Instance, error) {
	runner, err := db.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return &Instance{Runner: runner}, nil
}

// OpenMemory opens an in-memory database.
func OpenMemory(opts ...db.Option) (*Instance, error) {
	runner, err := db.OpenMemory(opts...)
	if err != nil {
		return nil, err
	}
	return &Instance{Runner: runner}, nil
}

// Close releases the underlying database.
func (instance *Instance) Close() error {
	return instance.Runner.Close()
}

// RunScript splits and executes a SQL script, tolerating per-statement
// failures.
func (instance *Instance) RunScript(ctx context.Context, text string) ([]db.StatementResult, error) {
	return instance.Runner.ExecuteScript(ctx, text)
}

// RunFile executes a SQL script from a local path or remote URL.
func (instance *Instance) RunFile(ctx context.Context, path string) ([]db.StatementResult, error) {
	return instance.Runner.ExecuteFile(ctx, path)
}

// Query runs a single guarded SELECT.
func (instance *Instance) Query(ctx context.Context, query string) (*db.QueryResult, error) {
	return instance.Runner.Query(ctx, query)
}

// Split breaks a SQL script into individual statements.
func Split(text string) []string {
	return sql.Split(text)
}
