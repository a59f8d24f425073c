package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sqlrunner/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Shell holds the interactive session state
type Shell struct {
	runner      *db.Runner
	history     []string
	historyFile string
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive SQL shell",
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	runner, err := openRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	shell := &Shell{
		runner:      runner,
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
	}
	shell.loadHistory()
	shell.printBanner()
	shell.run(cmd)
	return nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func (sh *Shell) printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("sqlrunner v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   Sandboxed DuckDB Script Runner      ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Printf("Database: %s\n", sh.runner.Path())
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (sh *Shell) run(cmd *cobra.Command) {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		fmt.Print(sh.getPrompt(multiLineBuffer.Len() > 0))

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			sh.saveHistory()
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		if strings.TrimSpace(input) == "" {
			continue
		}

		// Dot commands only apply outside a multi-line statement
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if sh.handleCommand(cmd, input) {
				continue
			}
		}

		// Accumulate until the statement ends with a semicolon
		multiLineBuffer.WriteString(input)
		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString("\n")
			continue
		}
		multiLineBuffer.Reset()

		sh.addToHistory(trimmed)
		sh.execute(cmd, trimmed)
	}
}

func (sh *Shell) execute(cmd *cobra.Command, text string) {
	results, err := sh.runner.ExecuteScript(cmd.Context(), text)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	for _, result := range results {
		if result.Err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, result.Err, ResetColor)
			continue
		}
		result.Display()
	}
}

func (sh *Shell) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%ssqlrunner>%s ", PromptColor, ResetColor)
}

func (sh *Shell) handleCommand(cmd *cobra.Command, input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		sh.saveHistory()
		sh.runner.Close()
		os.Exit(0)

	case ".help", ".h", ".?":
		sh.printHelp()

	case ".tables":
		tables, err := sh.runner.Tables(cmd.Context())
		if err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			return true
		}
		if len(tables) == 0 {
			fmt.Println("No tables")
			return true
		}
		for _, t := range tables {
			fmt.Println("  " + t)
		}

	case ".files":
		dir := "."
		if len(parts) > 1 {
			dir = parts[1]
		}
		scripts, err := sh.runner.Sandbox().FindScripts(dir)
		if err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			return true
		}
		if len(scripts) == 0 {
			fmt.Println("No SQL files found")
			return true
		}
		for _, s := range scripts {
			fmt.Println("  " + s)
		}

	case ".import":
		if len(parts) > 1 {
			sh.importFile(cmd, parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	case ".clean":
		dropped, err := sh.runner.Clean(cmd.Context())
		if err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			return true
		}
		fmt.Printf("%s✓ Dropped %d object(s)%s\n", SuccessColor, dropped, ResetColor)

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		sh.printHistory()

	case ".version":
		fmt.Printf("sqlrunner version %s\n", Version)

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (sh *Shell) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the shell")
	fmt.Println("  .tables          List tables and views")
	fmt.Println("  .files [dir]     List SQL files under a directory")
	fmt.Println("  .import <file>   Execute SQL statements from a file")
	fmt.Println("  .clean           Drop every table and view")
	fmt.Println("  .history         Show command history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL:%s any DuckDB statement, terminated by a semicolon.\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("Multi-line statements are accumulated until the semicolon.")
	fmt.Println()
}

func (sh *Shell) importFile(cmd *cobra.Command, filename string) {
	results, err := sh.runner.ExecuteFile(cmd.Context(), filename)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}

	succeeded, failed := 0, 0
	for i, result := range results {
		if result.Err != nil {
			failed++
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(result.Statement, 50), ResetColor)
			fmt.Printf("      Error: %v\n", result.Err)
		} else {
			succeeded++
			fmt.Printf("%s[%d] ✓ %s (%s)%s\n", SuccessColor, i+1, truncate(result.Statement, 50), result.Summary(), ResetColor)
		}
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, succeeded, failed, ResetColor)
}

func (sh *Shell) addToHistory(entry string) {
	// Don't add duplicates of the last command
	if len(sh.history) > 0 && sh.history[len(sh.history)-1] == entry {
		return
	}
	sh.history = append(sh.history, entry)

	if len(sh.history) > 1000 {
		sh.history = sh.history[len(sh.history)-1000:]
	}
}

func (sh *Shell) printHistory() {
	if len(sh.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(sh.history) > 20 {
		start = len(sh.history) - 20
	}
	for i := start; i < len(sh.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, sh.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlrunner_history")
}

func (sh *Shell) loadHistory() {
	if sh.historyFile == "" {
		return
	}

	file, err := os.Open(sh.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		sh.history = append(sh.history, scanner.Text())
	}
}

func (sh *Shell) saveHistory() {
	if sh.historyFile == "" {
		return
	}

	file, err := os.Create(sh.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(sh.history) > 1000 {
		start = len(sh.history) - 1000
	}
	for i := start; i < len(sh.history); i++ {
		_, _ = file.WriteString(sh.history[i] + "\n")
	}
}
