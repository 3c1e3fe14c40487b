package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeServer = "server"
	ModeStdio  = "stdio"

	// Default values
	DefaultPort        = 8501
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 200 * 1024 * 1024 // 200MB
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the NephroList reader
type Config struct {
	// Server configuration
	Mode string // "server" (web page) or "stdio" (MCP tools)
	Host string
	Port int

	// PDFDirectory bounds the files MCP tools may be pointed at
	PDFDirectory string

	// RecordFile is an optional YAML fixture replacing the built-in record
	RecordFile string

	// Session configuration
	SessionTTL  time.Duration
	MaxSessions int

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum upload size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeServer,
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: currentDir,
		SessionTTL:   DefaultSessionTTL,
		MaxSessions:  DefaultMaxSessions,
		Version:      "1.0.0",
		ServerName:   "nephrolist-reader",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// ErrVersionRequested is returned by LoadFromFlags when --version is on the
// command line.
var ErrVersionRequested = errors.New("version requested")

// option ties a config key (flag name, and NEPHROLIST_<KEY> in the
// environment) to its flag usage and environment variable description.
type option struct {
	key   string
	usage string
	desc  string
}

var options = []option{
	{"mode", "Run mode: 'server' for the web page, 'stdio' for MCP standard I/O", "Run mode"},
	{"host", "Server host address (server mode only)", "Server host"},
	{"port", "Server port (server mode only)", "Server port"},
	{"dir", "Directory MCP tools may read PDF files from (stdio mode only)", "PDF directory"},
	{"recordfile", "YAML file with the record to show instead of the built-in one", "Record fixture file"},
	{"sessionttl", "Idle time after which a browser session ends", "Session idle timeout"},
	{"maxsessions", "Maximum number of concurrent browser sessions", "Maximum sessions"},
	{"loglevel", "Log level (debug, info, warn, error)", "Log level"},
	{"maxfilesize", "Maximum upload size in bytes", "Maximum upload size"},
}

// LoadFromFlags reads flags and NEPHROLIST_* environment variables over the
// defaults. Flags win over the environment.
func LoadFromFlags() (*Config, error) {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersionRequested
		}
	}

	cfg := DefaultConfig()
	flags := pflag.CommandLine
	registerOptions(flags, cfg)
	flags.Usage = usage(flags)

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.GetViper()
	v.SetEnvPrefix("NEPHROLIST")
	v.AutomaticEnv()
	for _, opt := range options {
		if err := v.BindPFlag(opt.key, flags.Lookup(opt.key)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", opt.key, err)
		}
	}

	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.RecordFile = v.GetString("recordfile")
	cfg.SessionTTL = v.GetDuration("sessionttl")
	cfg.MaxSessions = v.GetInt("maxsessions")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")

	if cfg.PDFDirectory != "" {
		if abs, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// registerOptions defines one flag per option, defaulting to cfg.
func registerOptions(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, usageOf("mode"))
	flags.String("host", cfg.Host, usageOf("host"))
	flags.Int("port", cfg.Port, usageOf("port"))
	flags.String("dir", cfg.PDFDirectory, usageOf("dir"))
	flags.String("recordfile", cfg.RecordFile, usageOf("recordfile"))
	flags.Duration("sessionttl", cfg.SessionTTL, usageOf("sessionttl"))
	flags.Int("maxsessions", cfg.MaxSessions, usageOf("maxsessions"))
	flags.String("loglevel", cfg.LogLevel, usageOf("loglevel"))
	flags.Int64("maxfilesize", cfg.MaxFileSize, usageOf("maxfilesize"))
}

func usageOf(key string) string {
	for _, opt := range options {
		if opt.key == key {
			return opt.usage
		}
	}
	return ""
}

func usage(flags *pflag.FlagSet) func() {
	return func() {
		w := os.Stderr
		prog := os.Args[0]
		fmt.Fprintf(w, "Usage of %s:\n", prog)
		fmt.Fprintf(w, "\nNephroList Reader - upload a clinical PDF, view and download the extracted fields\n\n")
		fmt.Fprintf(w, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  %s                                   # web page on 127.0.0.1:8501 (default)\n", prog)
		fmt.Fprintf(w, "  %s --host=0.0.0.0 --port=8080        # web page on all interfaces\n", prog)
		fmt.Fprintf(w, "  %s --recordfile=paciente.yaml        # show a custom record\n", prog)
		fmt.Fprintf(w, "  %s --mode=stdio --dir=/path/to/pdfs  # MCP tools over stdio\n", prog)
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		for _, opt := range options {
			fmt.Fprintf(w, "  %-24s %s\n", "NEPHROLIST_"+strings.ToUpper(opt.key), opt.desc)
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'server' or 'stdio'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Only stdio mode reads from the directory
	if c.Mode == ModeStdio {
		if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
			if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
		}
	}

	if c.RecordFile != "" {
		info, err := os.Stat(c.RecordFile)
		if err != nil {
			return fmt.Errorf("cannot access record file %s: %w", c.RecordFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("record file is a directory: %s", c.RecordFile)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.MaxSessions <= 0 {
		return errors.New("maximum sessions must be positive")
	}

	if c.SessionTTL < 0 {
		return errors.New("session TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, RecordFile: %s, "+
		"SessionTTL: %s, MaxSessions: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.RecordFile,
		c.SessionTTL, c.MaxSessions, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true when serving the web page
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true when serving MCP tools over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
