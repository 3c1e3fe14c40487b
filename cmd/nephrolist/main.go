package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/nephrolist-reader/internal/config"
	"github.com/a3tai/nephrolist-reader/internal/mcp"
	"github.com/a3tai/nephrolist-reader/internal/record"
	"github.com/a3tai/nephrolist-reader/internal/web"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runner is what each mode runs until ctx is canceled.
type runner interface {
	Run(ctx context.Context) error
}

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// stdout carries the MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// runServerMode serves the web page until a signal arrives or the server fails
func runServerMode(ctx context.Context, cancel context.CancelFunc, server runner) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			return 1
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			return 1
		}
	}

	log.Println("Server stopped successfully")
	return 0
}

// runStdioMode serves MCP tools; the parent process controls our lifecycle
func runStdioMode(ctx context.Context, server runner) int {
	if err := server.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

// newRunner builds the web page server or the MCP server for cfg.Mode
func newRunner(cfg *config.Config, source record.RecordSource) (runner, error) {
	if cfg.IsServerMode() {
		server, err := web.NewServer(cfg, source)
		if err != nil {
			return nil, fmt.Errorf("failed to create web server: %w", err)
		}
		return server, nil
	}

	server, err := mcp.NewServer(cfg, source)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server, nil
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	source, err := record.NewSource(cfg.RecordFile)
	if err != nil {
		log.Fatalf("Failed to load record: %v", err)
	}

	server, err := newRunner(cfg, source)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var code int
	if cfg.IsServerMode() {
		code = runServerMode(ctx, cancel, server)
	} else {
		code = runStdioMode(ctx, server)
	}
	cancel()
	os.Exit(code)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("NephroList Reader\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
