// Package logging configures the process logger. All output goes to stderr
// or a caller-supplied writer; stdout carries the MCP stdio transport.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	DefaultLevel = "warn"
	// LevelEnv is honored for compatibility with existing deployments.
	LevelEnv = "FASTMCP_LOG_LEVEL"
)

// ResolveLevel picks the first non-empty level from the given candidates,
// then the environment, then DefaultLevel.
func ResolveLevel(candidates ...string) string {
	for _, candidate := range candidates {
		if level := strings.TrimSpace(candidate); level != "" {
			return strings.ToLower(level)
		}
	}
	if level := strings.TrimSpace(os.Getenv(LevelEnv)); level != "" {
		return strings.ToLower(level)
	}
	return DefaultLevel
}

func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal", "critical":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

func New(out io.Writer, level string) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "fismcp",
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// Discard returns a logger that drops everything. Tests and library callers
// that did not supply a logger use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
