package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/logging"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("docscan-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tesseract:  %s\n", ocr.Version())
			return
		case "--help", "-h", "help":
			fmt.Println("docscan-mcp - MCP server for document scanning")
			fmt.Println()
			fmt.Println("Usage: docscan-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Printf("  %-24s logrus level (default info)\n", config.EnvLogLevel)
			fmt.Printf("  %-24s also log to this rotated file\n", config.EnvLogFile)
			fmt.Printf("  %-24s Tesseract language (default eng)\n", config.EnvOCRLanguage)
			fmt.Printf("  %-24s scanner Canny low threshold (default 75)\n", config.EnvCannyLow)
			fmt.Printf("  %-24s scanner Canny high threshold (default 200)\n", config.EnvCannyHigh)
			fmt.Printf("  %-24s scanner blur radius (default 2)\n", config.EnvBlurRadius)
			fmt.Printf("  %-24s polygon approximation tolerance (default 0.02)\n", config.EnvApproxEpsilon)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan-mcp: %v\n", err)
		os.Exit(1)
	}

	// stdout is for MCP protocol
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan-mcp: %v\n", err)
		os.Exit(1)
	}

	logger.WithFields(logging.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("docscan-mcp starting")

	srv, err := server.New(server.WithConfig(cfg), server.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		logger.WithError(err).Fatal("server error")
	}
}
