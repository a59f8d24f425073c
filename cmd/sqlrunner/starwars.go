package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sqlrunner/swapi"
)

var (
	swapiDir    string
	swapiURL    string
	swapiOutput string
)

var starwarsCmd = &cobra.Command{
	Use:   "starwars",
	Short: "Build the Star Wars demo database from SWAPI",
}

var starwarsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the SWAPI dataset as JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := swapi.NewClient(
			swapi.WithBaseURL(swapiURL),
			swapi.WithClientLogger(logger),
		)
		dataset, err := client.FetchAll(cmd.Context(), swapiDir)
		if err != nil {
			return err
		}

		total := 0
		for _, entities := range dataset {
			total += len(entities)
		}
		logger.Infow("fetch complete", "records", total, "dir", swapiDir)
		return nil
	},
}

var starwarsResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Replace URL cross-references with {id, name} objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := swapi.LoadDataset(swapiDir)
		if err != nil {
			return err
		}

		resolved := swapi.ResolveAll(dataset)
		if err := swapi.SaveDataset(swapiDir, resolved); err != nil {
			return err
		}
		logger.Infow("references resolved", "dir", swapiDir)
		return nil
	},
}

var starwarsSQLCmd = &cobra.Command{
	Use:   "sql",
	Short: "Generate the database creation script from fetched data",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := swapi.LoadDataset(swapiDir)
		if err != nil {
			return err
		}

		script := swapi.GenerateScript(dataset)
		if swapiOutput == "" {
			fmt.Print(script)
			return nil
		}
		if err := os.WriteFile(swapiOutput, []byte(script), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", swapiOutput, err)
		}
		logger.Infow("script written", "path", swapiOutput)
		return nil
	},
}

var starwarsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Fetch, resolve, and load the Star Wars database in one step",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := swapi.NewClient(
			swapi.WithBaseURL(swapiURL),
			swapi.WithClientLogger(logger),
		)
		dataset, err := client.FetchAll(cmd.Context(), swapiDir)
		if err != nil {
			return err
		}

		resolved := swapi.ResolveAll(dataset)
		if err := swapi.SaveDataset(swapiDir, resolved); err != nil {
			return err
		}

		runner, err := openRunner()
		if err != nil {
			return err
		}
		defer runner.Close()

		results, err := runner.ExecuteScript(cmd.Context(), swapi.GenerateScript(resolved))
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				logger.Warnw("statement failed", "error", r.Err)
			}
		}
		fmt.Printf("Star Wars database loaded: %d statements, %d failed\n", len(results), failed)
		return nil
	},
}

func init() {
	starwarsCmd.PersistentFlags().StringVar(&swapiDir, "data-dir", "data/star-wars", "directory for the fetched JSON files")
	starwarsCmd.PersistentFlags().StringVar(&swapiURL, "api-url", swapi.DefaultBaseURL, "SWAPI base URL")
	starwarsSQLCmd.Flags().StringVarP(&swapiOutput, "output", "o", "", "output file (default stdout)")

	starwarsCmd.AddCommand(starwarsFetchCmd)
	starwarsCmd.AddCommand(starwarsResolveCmd)
	starwarsCmd.AddCommand(starwarsSQLCmd)
	starwarsCmd.AddCommand(starwarsSetupCmd)
	rootCmd.AddCommand(starwarsCmd)
}
