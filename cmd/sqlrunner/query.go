package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a single guarded SELECT query",
	Long: `Run one SELECT statement and print the result table. Scripts,
non-SELECT statements, and restricted keywords are rejected; output is
capped at 10000 rows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		result, err := runner.Query(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		result.Display()
		return nil
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables and views in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		tables, err := runner.Tables(cmd.Context())
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			fmt.Println("No tables")
			return nil
		}
		for _, t := range tables {
			fmt.Println(t)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop every table and view in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		dropped, err := runner.Clean(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Dropped %d object(s)\n", dropped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(cleanCmd)
}
