package db

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"

	"sqlrunner/sql"
)

const (
	// PreviewRows caps the rows shown per statement when executing a script.
	PreviewRows = 10

	// MaxQueryRows caps the rows returned by a guarded Query call.
	MaxQueryRows = 10000
)

// restrictedKeywords are rejected by Query regardless of context. The
// guard is deliberately coarse: a keyword anywhere in the statement,
// even inside a string literal, fails the check.
var restrictedKeywords = []string{"UNION", "INTO", "OUTFILE", "DUMPFILE", "LOAD_FILE"}

// Runner executes SQL scripts and guarded queries against a DuckDB
// database, with file access confined to a sandbox directory.
type Runner struct {
	db      *stdsql.DB
	sandbox *Sandbox
	path    string
	logger  *zap.SugaredLogger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger attaches a logger. Without it the Runner stays silent.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Open opens (or creates) a DuckDB database file. The path must resolve
// to the current working directory or a data/ subdirectory under it;
// data/ is created on demand.
func Open(path string, opts ...Option) (*Runner, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	sandbox, err := NewSandbox(cwd)
	if err != nil {
		return nil, err
	}

	abs, err := sandbox.ResolveDatabase(path)
	if err != nil {
		return nil, err
	}

	if parent := filepath.Dir(abs); filepath.Base(parent) == "data" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	conn, err := stdsql.Open("duckdb", abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	r := &Runner{db: conn, sandbox: sandbox, path: abs}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// OpenMemory opens an in-memory database. File access is still
// sandboxed to the working directory.
func OpenMemory(opts ...Option) (*Runner, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	sandbox, err := NewSandbox(cwd)
	if err != nil {
		return nil, err
	}

	conn, err := stdsql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	r := &Runner{db: conn, sandbox: sandbox, path: ":memory:"}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the underlying database connection.
func (r *Runner) Close() error {
	return r.db.Close()
}

// Path returns the database file path, or ":memory:".
func (r *Runner) Path() string {
	return r.path
}

// DB exposes the underlying connection for callers that need raw access.
func (r *Runner) DB() *stdsql.DB {
	return r.db
}

// Sandbox returns the file-access sandbox.
func (r *Runner) Sandbox() *Sandbox {
	return r.sandbox
}

// ExecuteScript splits text into statements and runs them in order.
// A failing statement is recorded in its result and execution continues
// with the next one. Row-producing statements carry a preview of up to
// PreviewRows rows.
func (r *Runner) ExecuteScript(ctx context.Context, text string) ([]StatementResult, error) {
	statements := sql.Split(text)
	if len(statements) == 0 {
		return nil, nil
	}

	results := make([]StatementResult, 0, len(statements))
	for i, stmt := range statements {
		result := r.executeStatement(ctx, stmt)
		if result.Err != nil && r.logger != nil {
			r.logger.Warnw("statement failed",
				"index", i+1,
				"total", len(statements),
				"error", result.Err)
		}
		results = append(results, result)

		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}

	return results, nil
}

// ExecuteFile reads a SQL script and executes it. Local paths are
// validated against the sandbox; s3://, http:// and https:// sources
// are fetched remotely.
func (r *Runner) ExecuteFile(ctx context.Context, path string) ([]StatementResult, error) {
	var (
		text string
		err  error
	)

	if IsRemote(path) {
		text, err = FetchScript(ctx, path)
	} else {
		text, err = r.readLocal(path)
	}
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infow("executing script", "source", path)
	}

	return r.ExecuteScript(ctx, text)
}

func (r *Runner) readLocal(path string) (string, error) {
	abs, err := r.sandbox.Resolve(strings.TrimPrefix(path, "file://"))
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// executeStatement runs one statement, classifying it to decide between
// a row fetch and a plain exec.
func (r *Runner) executeStatement(ctx context.Context, stmt string) StatementResult {
	kind := sql.Classify(stmt)
	result := StatementResult{Statement: stmt, Kind: kind}

	start := time.Now()
	if kind.ProducesRows() {
		query, err := r.fetchRows(ctx, stmt, PreviewRows)
		result.Query = query
		result.Err = err
	} else {
		res, err := r.db.ExecContext(ctx, stmt)
		if err != nil {
			result.Err = err
		} else if affected, err := res.RowsAffected(); err == nil {
			result.RowsAffected = affected
		}
	}
	result.ExecutionTimeSec = time.Since(start).Seconds()

	return result
}

// Query runs a single guarded SELECT and returns up to MaxQueryRows
// rows. Scripts, non-SELECT statements, and statements containing a
// restricted keyword are rejected.
func (r *Runner) Query(ctx context.Context, query string) (*QueryResult, error) {
	statements := sql.Split(query)
	if len(statements) == 0 {
		return nil, fmt.Errorf("empty query")
	}
	if len(statements) > 1 {
		return nil, fmt.Errorf("only a single statement is allowed, got %d", len(statements))
	}

	stmt := statements[0]
	upper := strings.ToUpper(stmt)
	if !strings.HasPrefix(upper, "SELECT") {
		return nil, fmt.Errorf("only SELECT queries are allowed")
	}
	for _, keyword := range restrictedKeywords {
		if strings.Contains(upper, keyword) {
			return nil, fmt.Errorf("restricted keyword in query: %s", keyword)
		}
	}

	start := time.Now()
	result, err := r.fetchRows(ctx, stmt, MaxQueryRows)
	if err != nil {
		return nil, err
	}
	result.ExecutionTimeSec = time.Since(start).Seconds()

	return result, nil
}

// fetchRows runs stmt and scans up to limit rows into strings. Reads
// one row past the limit to detect truncation.
func (r *Runner) fetchRows(ctx context.Context, stmt string, limit int) (*QueryResult, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &QueryResult{Columns: columns}
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if len(result.Data) >= limit {
			result.Truncated = true
			break
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		result.Data = append(result.Data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.RecordsRead = len(result.Data)
	result.ExecutionTimeSec = time.Since(start).Seconds()

	return result, nil
}

// Tables lists the user tables and views in the main schema.
func (r *Runner) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Clean drops every table and view in the main schema.
func (r *Runner) Clean(ctx context.Context) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT table_name, table_type FROM information_schema.tables WHERE table_schema = 'main'")
	if err != nil {
		return 0, fmt.Errorf("failed to list tables: %w", err)
	}

	type entry struct {
		name string
		typ  string
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.name, &e.typ); err != nil {
			rows.Close()
			return 0, err
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	// Views first: dropping a table a view depends on would fail.
	dropped := 0
	for _, pass := range []string{"VIEW", "BASE TABLE"} {
		for _, e := range entries {
			if e.typ != pass {
				continue
			}
			object := "TABLE"
			if e.typ == "VIEW" {
				object = "VIEW"
			}
			stmt := fmt.Sprintf("DROP %s IF EXISTS %s", object, quoteIdentifier(e.name))
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return dropped, fmt.Errorf("failed to drop %s: %w", e.name, err)
			}
			dropped++
			if r.logger != nil {
				r.logger.Debugw("dropped", "object", object, "name", e.name)
			}
		}
	}

	return dropped, nil
}

// Setup executes every .sql file under dir in sorted order and returns
// the per-statement results keyed by script path.
func (r *Runner) Setup(ctx context.Context, dir string) (map[string][]StatementResult, error) {
	scripts, err := r.sandbox.FindScripts(dir)
	if err != nil {
		return nil, err
	}
	if len(scripts) == 0 {
		return nil, fmt.Errorf("no SQL scripts found in %s", dir)
	}

	results := make(map[string][]StatementResult, len(scripts))
	for _, script := range scripts {
		res, err := r.ExecuteFile(ctx, filepath.Join(r.sandbox.Base(), script))
		if err != nil {
			return results, fmt.Errorf("failed to run %s: %w", script, err)
		}
		results[script] = res
	}

	return results, nil
}

// quoteIdentifier wraps name in double quotes, doubling any embedded
// quote characters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// formatValue renders a scanned value for display. NULL becomes the
// literal string "NULL".
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
