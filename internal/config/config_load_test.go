package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	for _, name := range []string{
		"NEPHROLIST_MODE",
		"NEPHROLIST_HOST",
		"NEPHROLIST_PORT",
		"NEPHROLIST_DIR",
		"NEPHROLIST_RECORDFILE",
		"NEPHROLIST_SESSIONTTL",
		"NEPHROLIST_MAXSESSIONS",
		"NEPHROLIST_LOGLEVEL",
		"NEPHROLIST_MAXFILESIZE",
	} {
		os.Unsetenv(name)
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})
	setArgs(args)
	resetFlags()
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	clearEnvVars()
	withArgs(t, "nephrolist")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "server")
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 8501 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8501)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 200*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200*1024*1024)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("LoadFromFlags() SessionTTL = %v, want %v", cfg.SessionTTL, 30*time.Minute)
	}
	if cfg.MaxSessions != 1000 {
		t.Errorf("LoadFromFlags() MaxSessions = %v, want %v", cfg.MaxSessions, 1000)
	}
	if cfg.PDFDirectory == "" {
		t.Error("LoadFromFlags() PDFDirectory should not be empty")
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		wantMode        string
		wantHost        string
		wantPort        int
		wantLogLevel    string
		wantMaxFileSize int64
		wantSessionTTL  time.Duration
	}{
		{
			name:            "custom host and port",
			args:            []string{"--host=0.0.0.0", "--port=9090"},
			wantMode:        "server",
			wantHost:        "0.0.0.0",
			wantPort:        9090,
			wantLogLevel:    "info",
			wantMaxFileSize: 200 * 1024 * 1024,
			wantSessionTTL:  30 * time.Minute,
		},
		{
			name:            "stdio mode",
			args:            []string{"--mode=stdio", "--dir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8501,
			wantLogLevel:    "info",
			wantMaxFileSize: 200 * 1024 * 1024,
			wantSessionTTL:  30 * time.Minute,
		},
		{
			name:            "debug logging",
			args:            []string{"--loglevel=debug"},
			wantMode:        "server",
			wantHost:        "127.0.0.1",
			wantPort:        8501,
			wantLogLevel:    "debug",
			wantMaxFileSize: 200 * 1024 * 1024,
			wantSessionTTL:  30 * time.Minute,
		},
		{
			name:            "custom max file size and session TTL",
			args:            []string{"--maxfilesize=50000000", "--sessionttl=5m"},
			wantMode:        "server",
			wantHost:        "127.0.0.1",
			wantPort:        8501,
			wantLogLevel:    "info",
			wantMaxFileSize: 50000000,
			wantSessionTTL:  5 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			tempDir := t.TempDir()

			args := []string{"nephrolist"}
			for _, arg := range tt.args {
				args = append(args, strings.ReplaceAll(arg, "%s", tempDir))
			}
			withArgs(t, args...)

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.MaxFileSize != tt.wantMaxFileSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxFileSize)
			}
			if cfg.SessionTTL != tt.wantSessionTTL {
				t.Errorf("LoadFromFlags() SessionTTL = %v, want %v", cfg.SessionTTL, tt.wantSessionTTL)
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	clearEnvVars()
	withArgs(t, "nephrolist")

	tempDir := t.TempDir()

	os.Setenv("NEPHROLIST_MODE", "stdio")
	os.Setenv("NEPHROLIST_HOST", "192.168.1.1")
	os.Setenv("NEPHROLIST_PORT", "3000")
	os.Setenv("NEPHROLIST_DIR", tempDir)
	os.Setenv("NEPHROLIST_LOGLEVEL", "warn")
	os.Setenv("NEPHROLIST_MAXFILESIZE", "100000000")
	os.Setenv("NEPHROLIST_MAXSESSIONS", "25")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Host != "192.168.1.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "192.168.1.1")
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.PDFDirectory != tempDir {
		t.Errorf("LoadFromFlags() PDFDirectory = %v, want %v", cfg.PDFDirectory, tempDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 100000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 100000000)
	}
	if cfg.MaxSessions != 25 {
		t.Errorf("LoadFromFlags() MaxSessions = %v, want %v", cfg.MaxSessions, 25)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	clearEnvVars()
	withArgs(t, "nephrolist", "--host=localhost", "--port=8888")

	os.Setenv("NEPHROLIST_HOST", "192.168.1.1")
	os.Setenv("NEPHROLIST_PORT", "3000")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("LoadFromFlags() Host = %v, want %v (should override env)", cfg.Host, "localhost")
	}
	if cfg.Port != 8888 {
		t.Errorf("LoadFromFlags() Port = %v, want %v (should override env)", cfg.Port, 8888)
	}
}

func TestLoadFromFlags_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid mode", args: []string{"--mode=invalid"}},
		{name: "invalid port", args: []string{"--port=70000"}},
		{name: "invalid log level", args: []string{"--loglevel=verbose"}},
		{name: "invalid max file size", args: []string{"--maxfilesize=0"}},
		{name: "missing record file", args: []string{"--recordfile=/non/existent/record.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			withArgs(t, append([]string{"nephrolist"}, tt.args...)...)

			if _, err := LoadFromFlags(); err == nil {
				t.Error("LoadFromFlags() expected error but got none")
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	clearEnvVars()
	withArgs(t, "nephrolist", "--version")

	_, err := LoadFromFlags()
	if err == nil || !strings.Contains(err.Error(), "version requested") {
		t.Errorf("LoadFromFlags() error = %v, want version requested", err)
	}
}
