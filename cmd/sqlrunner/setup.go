package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup [dir]",
	Short: "Run every SQL script under a directory in sorted order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		results, err := runner.Setup(cmd.Context(), dir)
		if err != nil {
			return err
		}

		scripts := make([]string, 0, len(results))
		for script := range results {
			scripts = append(scripts, script)
		}
		sort.Strings(scripts)

		for _, script := range scripts {
			failed := 0
			for _, r := range results[script] {
				if r.Err != nil {
					failed++
				}
			}
			status := "✓"
			if failed > 0 {
				status = "✗"
			}
			fmt.Printf("%s %s (%d statements, %d failed)\n", status, script, len(results[script]), failed)
		}
		return nil
	},
}

var filesCmd = &cobra.Command{
	Use:   "files [dir]",
	Short: "List SQL scripts under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		scripts, err := runner.Sandbox().FindScripts(dir)
		if err != nil {
			return err
		}
		if len(scripts) == 0 {
			fmt.Println("No SQL scripts found")
			return nil
		}
		for _, s := range scripts {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(filesCmd)
}
