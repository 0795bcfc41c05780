package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-editor/internal/config"
	"github.com/ironsheep/pixel-editor/internal/logging"
	"github.com/ironsheep/pixel-editor/internal/server"
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
			fmt.Printf("pixel-editor %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pixel-editor - MCP server for raster image editing")
			fmt.Println()
			fmt.Println("Usage: pixel-editor [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  PIXEL_EDITOR_CONFIG=path.yaml     YAML settings file")
			fmt.Println("  PIXEL_EDITOR_LOG_LEVEL=debug      debug, info, warn or error")
			fmt.Println("  PIXEL_EDITOR_LOG_FILE=path        Also log to a rotating file")
			fmt.Println("  PIXEL_EDITOR_MAX_PIXELS=N         Largest image a session may hold")
			fmt.Println("  PIXEL_EDITOR_JPEG_QUALITY=1-100   JPEG encoder quality")
			fmt.Println("  PIXEL_EDITOR_PREVIEW_SIZE=N       Default image_preview size")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pixel-editor: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pixel-editor: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Debug("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.Int64("max_pixels", cfg.MaxPixels))

	srv := server.New(
		server.WithConfig(cfg),
		server.WithLogger(logger),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
