package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sqlrunner/db"
	"sqlrunner/internal/config"
	"sqlrunner/internal/logging"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	port := flag.Int("port", 9402, "TCP port to listen on")
	dbPath := flag.String("db", "", "database file path (in-memory if empty)")
	configPath := flag.String("config", "", "config file path")
	jwtSecret := flag.String("jwt-secret", "", "JWT secret; enables authentication when set")
	logLevel := flag.String("log-level", "info", "log level debug|info|warn|error")
	logFormat := flag.String("log-format", "console", "log format console|json")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sqlrunner-server v%s\n", Version)
		return
	}

	logger, cleanup, err := logging.New(*logLevel, *logFormat, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	addr := fmt.Sprintf(":%d", *port)

	if *configPath != "" {
		conf, err := config.Load(*configPath)
		if err != nil {
			logger.Fatalw("failed to load config", "path", *configPath, "error", err)
		}
		if *dbPath == "" && conf.Database.Path != "" {
			*dbPath = conf.Database.Path
		}
		if *jwtSecret == "" && conf.Server.JWTSecret != "" {
			*jwtSecret = conf.Server.JWTSecret
		}
		if conf.Server.Address != "" {
			addr = conf.Server.Address
		}
	}

	var runner *db.Runner
	if *dbPath == "" {
		logger.Info("using in-memory database")
		runner, err = db.OpenMemory(db.WithLogger(logger))
	} else {
		logger.Infow("using database file", "path", *dbPath)
		runner, err = db.Open(*dbPath, db.WithLogger(logger))
	}
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	defer runner.Close()

	var authConfig *AuthConfig
	if *jwtSecret != "" {
		authConfig = &AuthConfig{Enabled: true, JWTSecret: *jwtSecret}
		logger.Info("JWT authentication enabled")
	}

	server := NewServer(runner, authConfig, logger)
	if err := server.Start(addr); err != nil {
		logger.Fatalw("failed to start server", "error", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   sqlrunner server v%-17s ║\n", Version)
	fmt.Println("║   Sandboxed DuckDB Script Runner      ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on %s\n", server.Addr())
	fmt.Println("Send SQL (one statement per line), 'quit' to disconnect")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	server.Stop()
	logger.Info("server stopped")
}
