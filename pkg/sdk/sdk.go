// Package sdk exposes the toolset plumbing so other programs can embed the
// FIS tools or contribute toolsets of their own.
package sdk

import (
	"context"

	"fismcp/internal/mcp"
	"fismcp/internal/paginate"
	"fismcp/internal/policy"
	"fismcp/internal/redact"
	"fismcp/internal/render"
	"fismcp/pkg/server"

	_ "fismcp/toolsets/aws"
)

// Core toolset interfaces and types.
type Toolset = mcp.Toolset

type ToolsetContext = mcp.ToolsetContext

type ToolSpec = mcp.ToolSpec

type ToolHandler = mcp.ToolHandler

type ToolSafety = mcp.ToolSafety

type ToolRequest = mcp.ToolRequest

type ToolResult = mcp.ToolResult

type ToolMetadata = mcp.ToolMetadata

type ResourceSpec = mcp.ResourceSpec

type Registry = mcp.Registry

type Logger = mcp.Logger

const (
	SafetyReadOnly    = mcp.SafetyReadOnly
	SafetyWrite       = mcp.SafetyWrite
	SafetyDestructive = mcp.SafetyDestructive
)

// Toolset registration for plugin discovery.
func RegisterToolset(id string, factory mcp.ToolsetFactory) error {
	return mcp.RegisterToolset(id, factory)
}

func MustRegisterToolset(id string, factory mcp.ToolsetFactory) {
	mcp.MustRegisterToolset(id, factory)
}

func RegisteredToolsets() []string {
	return mcp.RegisteredToolsets()
}

type ToolInvoker = mcp.ToolInvoker

type Options = server.Options

// Embedded is a tool catalog built in-process, without an MCP transport.
type Embedded struct {
	invoker   *ToolInvoker
	resources []ResourceSpec
}

// Embed loads configuration and AWS clients the way the server does and
// returns the resulting catalog.
func Embed(ctx context.Context, opts Options) (*Embedded, error) {
	invoker, resources, err := server.Embed(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Embedded{invoker: invoker, resources: resources}, nil
}

// Call runs one tool. A nil logger discards caller-visible messages.
func (e *Embedded) Call(ctx context.Context, tool string, args map[string]any, logger Logger) (ToolResult, error) {
	return e.invoker.Call(ctx, tool, args, logger)
}

func (e *Embedded) Resources() []ResourceSpec {
	return e.resources
}

// Helpers for toolset authors.
type Guard = policy.Guard

type WriteDisabledError = policy.WriteDisabledError

var ErrWriteDisabled = policy.ErrWriteDisabled

type Redactor = redact.Redactor

type KeyStyle = render.KeyStyle

const (
	LowerCamel = render.LowerCamel
	Pascal     = render.Pascal
)

// RenderMap converts an AWS SDK output struct into a JSON-ready map.
func RenderMap(v any, style KeyStyle) map[string]any {
	return render.Map(v, style)
}

// CollectPages drains a paginated call up to maxPages pages.
func CollectPages[T any](ctx context.Context, maxPages int, fetch paginate.FetchFunc[T]) ([]T, error) {
	return paginate.Collect(ctx, maxPages, fetch)
}
