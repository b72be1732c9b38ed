package mcp

import (
	"context"

	"github.com/charmbracelet/log"

	awsclient "fismcp/internal/aws"
	"fismcp/internal/audit"
	"fismcp/internal/cache"
	"fismcp/internal/config"
	"fismcp/internal/metrics"
	"fismcp/internal/policy"
	"fismcp/internal/redact"
)

type ToolSafety string

const (
	SafetyReadOnly    ToolSafety = "read_only"
	SafetyWrite       ToolSafety = "write"
	SafetyDestructive ToolSafety = "destructive"
)

type ToolHandler func(ctx context.Context, req ToolRequest) (ToolResult, error)

type ToolSpec struct {
	Name        string
	Title       string
	Description string
	ToolsetID   string
	InputSchema map[string]any
	Safety      ToolSafety
	// Idempotent marks write tools that are safe to repeat with the same
	// arguments, such as template updates.
	Idempotent bool
	Handler    ToolHandler
}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolRequest struct {
	Arguments map[string]any
	// Logger is the caller-visible log channel for this invocation.
	Logger  Logger
	Context ToolContext
}

// Log returns the request logger, never nil.
func (r ToolRequest) Log() Logger {
	if r.Logger == nil {
		return nopLogger{}
	}
	return r.Logger
}

type ToolResult struct {
	Data     any
	Metadata ToolMetadata
}

type ToolMetadata struct {
	Region    string   `json:"region,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

type ToolContext struct {
	Config   *config.Config
	AWS      *awsclient.Registry
	Guard    *policy.Guard
	Redactor *redact.Redactor
	Audit    *audit.Logger
	Cache    *cache.Store
	Metrics  *metrics.Recorder
	Logger   *log.Logger
	Invoker  *ToolInvoker
	Registry Registry
}

type ToolsetContext = ToolContext

// ResourceSpec is a static MCP resource contributed by a toolset.
type ResourceSpec struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Read        func(ctx context.Context) (string, error)
}
