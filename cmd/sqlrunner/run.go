package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sqlrunner/db"
	"sqlrunner/internal/config"
)

var runVerbose bool

var runCmd = &cobra.Command{
	Use:   "run [script...]",
	Short: "Execute SQL script files",
	Long: `Execute one or more SQL scripts against the database. Local paths
are confined to the working directory; s3:// and http(s):// sources
are fetched remotely. With --scripts-file, the manifest's scripts run
instead of positional arguments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := args
		if scriptsFile != "" {
			manifest, err := config.LoadScriptsFile(scriptsFile)
			if err != nil {
				return fmt.Errorf("failed to load scripts file: %w", err)
			}
			for _, s := range manifest {
				sources = append(sources, s.Source)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no scripts given: pass file paths or --scripts-file")
		}

		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		for _, source := range sources {
			if err := runScript(cmd, runner, source); err != nil {
				return err
			}
		}
		return nil
	},
}

func runScript(cmd *cobra.Command, runner *db.Runner, source string) error {
	fmt.Printf("=== %s ===\n", source)

	results, err := runner.ExecuteFile(cmd.Context(), source)
	if err != nil {
		return err
	}

	succeeded, failed := 0, 0
	for i, result := range results {
		if result.Err != nil {
			failed++
			fmt.Printf("[%d] ✗ %s\n", i+1, truncate(result.Statement, 50))
			fmt.Printf("      Error: %v\n", result.Err)
			continue
		}
		succeeded++
		if runVerbose {
			fmt.Printf("[%d] ✓ %s\n", i+1, truncate(result.Statement, 50))
			result.Display()
		} else {
			fmt.Printf("[%d] ✓ %s (%s)\n", i+1, truncate(result.Statement, 50), result.Summary())
		}
	}

	fmt.Printf("\n%d statements: %d succeeded, %d failed\n\n", len(results), succeeded, failed)
	return nil
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "show full result tables per statement")
	rootCmd.AddCommand(runCmd)
}
