package db

import (
	"fmt"
	"os"
	"strings"

	"sqlrunner/sql"
)

// QueryResult holds a fetched result set plus execution metrics.
type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	Truncated        bool
	ExecutionTimeSec float64
}

// StatementResult is the outcome of one statement from a script run.
// Err is set when the statement failed; Query is set when the statement
// produced rows.
type StatementResult struct {
	Statement        string
	Kind             sql.StatementKind
	Query            *QueryResult
	RowsAffected     int64
	Err              error
	ExecutionTimeSec float64
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

// ExecutionTime returns the formatted statement duration.
func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// Display renders the result set as an ASCII table followed by a
// compact stats line.
func (result QueryResult) Display() {
	if len(result.Data) > 0 {
		data := NewTable(os.Stdout)
		data.Header(result.Columns)
		data.Bulk(result.Data)
		data.Render()
	}

	suffix := ""
	if result.Truncated {
		suffix = ", more rows available"
	}
	fmt.Printf("%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(), suffix)
}

// Display renders a one-line summary of the statement outcome, plus the
// result table when the statement produced rows.
func (result StatementResult) Display() {
	if result.Err != nil {
		fmt.Printf("error: %v\n", result.Err)
		return
	}

	if result.Query != nil {
		result.Query.Display()
		return
	}

	var parts []string
	if result.RowsAffected > 0 {
		parts = append(parts, fmt.Sprintf("%d row(s) affected", result.RowsAffected))
	}
	if len(parts) == 0 {
		fmt.Printf("OK (%s)\n", formatDuration(result.ExecutionTimeSec))
	} else {
		fmt.Printf("%s (%s)\n", strings.Join(parts, ", "), formatDuration(result.ExecutionTimeSec))
	}
}

// Summary returns a short single-line description used by script
// progress output.
func (result StatementResult) Summary() string {
	if result.Err != nil {
		return "error: " + result.Err.Error()
	}
	if result.Query != nil {
		return fmt.Sprintf("%d rows", result.Query.RecordsRead)
	}
	if result.RowsAffected > 0 {
		return fmt.Sprintf("%d row(s) affected", result.RowsAffected)
	}
	return "ok"
}
