// Package sqlrunner provides a sandboxed DuckDB script runner.
//
// Scripts are split into statements with full awareness of string
// literals and line comments, then executed one at a time; a failing
// statement is reported without aborting the rest of the script.
//
// # Quick Start
//
// Open a database and run a script:
//
//	instance, _ := sqlrunner.Open("data/analytics.db")
//	defer instance.Close()
//
//	results, _ := instance.RunFile(ctx, "scripts/setup.sql")
//	for _, r := range results {
//	    fmt.Println(r.Summary())
//	}
//
// Run a guarded ad-hoc query (single SELECT, capped at 10000 rows):
//
//	result, _ := instance.Query(ctx, "SELECT * FROM users LIMIT 10")
//	result.Display()
//
// # File Access
//
// Local script and database paths are confined to the working
// directory. Scripts can also be fetched from s3:// and http(s)://
// sources.
package sqlrunner
