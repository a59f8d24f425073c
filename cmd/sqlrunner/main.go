// sqlrunner is a sandboxed DuckDB script runner.
package main

func main() {
	Execute()
}
