package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqlrunner/db"
	"sqlrunner/internal/config"
	"sqlrunner/internal/logging"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	dbPath      string
	memory      bool
	configPath  string
	scriptsFile string
	s3AccessKey string
	s3SecretKey string
	s3Region    string
	s3Endpoint  string
	logLevel    string
	logFormat   string
	logFile     string
	logger      *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "sqlrunner",
	Short: "Sandboxed DuckDB SQL script runner",
	Long: `sqlrunner executes SQL scripts and guarded queries against a DuckDB
database. Scripts may come from local files (confined to the working
directory), S3, or HTTP sources. Without a subcommand it starts the
interactive shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			if auto := autoFindConfig(); auto != "" {
				configPath = auto
			}
		}
		if configPath != "" {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, conf)
		}
		if logger == nil {
			lg, cleanup, err := logging.New(logLevel, logFormat, logFile)
			if err != nil {
				return err
			}
			logger = lg
			_ = cleanup
		}
		if s3AccessKey != "" || s3Region != "" || s3Endpoint != "" {
			db.SetS3Config(&db.S3Config{
				AccessKey: s3AccessKey,
				SecretKey: s3SecretKey,
				Region:    s3Region,
				Endpoint:  s3Endpoint,
			})
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/sqlrunner.db", "database file path (working directory or data/ only)")
	rootCmd.PersistentFlags().BoolVar(&memory, "memory", false, "use an in-memory database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (yaml|json|toml)")
	rootCmd.PersistentFlags().StringVar(&scriptsFile, "scripts-file", "", "scripts manifest file for batch runs")
	rootCmd.PersistentFlags().StringVar(&s3AccessKey, "s3-access-key", "", "S3 access key for remote scripts")
	rootCmd.PersistentFlags().StringVar(&s3SecretKey, "s3-secret-key", "", "S3 secret key for remote scripts")
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "", "S3 region for remote scripts")
	rootCmd.PersistentFlags().StringVar(&s3Endpoint, "s3-endpoint", "", "custom S3-compatible endpoint")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format console|json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path, empty for console output")
}

// applyConfig copies config file values into flags that were not set
// explicitly; flags win over the file.
func applyConfig(cmd *cobra.Command, conf *config.Config) {
	if conf == nil {
		return
	}
	if !cmd.Flags().Changed("db") && conf.Database.Path != "" {
		dbPath = conf.Database.Path
	}
	if !cmd.Flags().Changed("s3-access-key") && conf.S3.AccessKey != "" {
		s3AccessKey = conf.S3.AccessKey
	}
	if !cmd.Flags().Changed("s3-secret-key") && conf.S3.SecretKey != "" {
		s3SecretKey = conf.S3.SecretKey
	}
	if !cmd.Flags().Changed("s3-region") && conf.S3.Region != "" {
		s3Region = conf.S3.Region
	}
	if !cmd.Flags().Changed("s3-endpoint") && conf.S3.Endpoint != "" {
		s3Endpoint = conf.S3.Endpoint
	}
	if !cmd.Flags().Changed("log-level") && conf.Logging.Level != "" {
		logLevel = conf.Logging.Level
	}
	if !cmd.Flags().Changed("log-format") && conf.Logging.Format != "" {
		logFormat = conf.Logging.Format
	}
	if !cmd.Flags().Changed("log-file") && conf.Logging.File != "" {
		logFile = conf.Logging.File
	}
}

// autoFindConfig looks for a config file next to the working directory,
// the executable, and under ~/.sqlrunner.
func autoFindConfig() string {
	var cand []string
	if cwd, err := os.Getwd(); err == nil {
		cand = append(cand,
			filepath.Join(cwd, "config.yaml"),
			filepath.Join(cwd, "config.yml"),
			filepath.Join(cwd, "config.json"),
		)
	}
	if exe, err := os.Executable(); err == nil {
		exedir := filepath.Dir(exe)
		cand = append(cand,
			filepath.Join(exedir, "config.yaml"),
			filepath.Join(exedir, "config.yml"),
			filepath.Join(exedir, "config.json"),
		)
	}
	if home, err := os.UserHomeDir(); err == nil {
		cand = append(cand,
			filepath.Join(home, ".sqlrunner", "config.yaml"),
			filepath.Join(home, ".sqlrunner", "config.yml"),
			filepath.Join(home, ".sqlrunner", "config.json"),
		)
	}
	for _, p := range cand {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// openRunner opens the configured database.
func openRunner() (*db.Runner, error) {
	if memory {
		return db.OpenMemory(db.WithLogger(logger))
	}
	return db.Open(dbPath, db.WithLogger(logger))
}
