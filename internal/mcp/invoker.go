package mcp

import (
	"context"
	"fmt"
)

// ToolInvoker calls registered tools without an MCP session, for embedding
// and tests.
type ToolInvoker struct {
	reg *ToolRegistry
	ctx ToolContext
}

func NewToolInvoker(reg *ToolRegistry, ctx ToolContext) *ToolInvoker {
	return &ToolInvoker{reg: reg, ctx: ctx}
}

// Call runs toolName with args. A nil logger mirrors tool messages to the
// process logger only.
func (i *ToolInvoker) Call(ctx context.Context, toolName string, args map[string]any, logger Logger) (ToolResult, error) {
	if i == nil || i.reg == nil {
		return ToolResult{}, fmt.Errorf("tool registry not available")
	}
	spec, ok := i.reg.Get(toolName)
	if !ok {
		return ToolResult{}, fmt.Errorf("tool not found: %s", toolName)
	}
	return invoke(ctx, spec, i.ctx, args, logger)
}
