package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func RegisterSDKTools(server *sdkmcp.Server, reg *ToolRegistry, ctx ToolContext) ([]string, error) {
	if server == nil || reg == nil {
		return nil, fmt.Errorf("server and registry are required")
	}
	toolNames := reg.Names()
	for _, spec := range reg.Specs() {
		schema := spec.InputSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		tool := &sdkmcp.Tool{
			Name:        spec.Name,
			Title:       spec.Title,
			Description: spec.Description,
			InputSchema: schema,
			Annotations: annotationsFor(spec),
		}
		server.AddTool(tool, toolHandler(spec, ctx))
	}
	return toolNames, nil
}

func RegisterSDKResources(server *sdkmcp.Server, resources []ResourceSpec) error {
	if server == nil {
		return fmt.Errorf("server is required")
	}
	for _, res := range resources {
		if res.URI == "" || res.Read == nil {
			return fmt.Errorf("resource %q: uri and reader are required", res.Name)
		}
		res := res
		server.AddResource(&sdkmcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			text, err := res.Read(ctx)
			if err != nil {
				return nil, err
			}
			return &sdkmcp.ReadResourceResult{Contents: []*sdkmcp.ResourceContents{{
				URI:      res.URI,
				MIMEType: res.MIMEType,
				Text:     text,
			}}}, nil
		})
	}
	return nil
}

func annotationsFor(spec ToolSpec) *sdkmcp.ToolAnnotations {
	openWorld := true
	annotations := &sdkmcp.ToolAnnotations{Title: spec.Title, OpenWorldHint: &openWorld}
	switch spec.Safety {
	case SafetyReadOnly, "":
		annotations.ReadOnlyHint = true
	case SafetyWrite:
		destructive := false
		annotations.DestructiveHint = &destructive
		annotations.IdempotentHint = spec.Idempotent
	case SafetyDestructive:
		destructive := true
		annotations.DestructiveHint = &destructive
	}
	return annotations
}

func toolHandler(spec ToolSpec, ctx ToolContext) sdkmcp.ToolHandler {
	return func(callCtx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		args := map[string]any{}
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, &sdkjsonrpc.Error{Code: sdkjsonrpc.CodeInvalidParams, Message: fmt.Sprintf("invalid arguments: %v", err)}
			}
		}
		var session *sdkmcp.ServerSession
		if req != nil {
			session = req.Session
		}
		logger := NewSessionLogger(session, ctx.Logger, spec.Name)
		result, toolErr := invoke(callCtx, spec, ctx, args, logger)
		return buildCallToolResult(result, toolErr), nil
	}
}

func buildCallToolResult(result ToolResult, toolErr error) *sdkmcp.CallToolResult {
	res := &sdkmcp.CallToolResult{}
	if result.Metadata.Region != "" || len(result.Metadata.Resources) > 0 {
		res.Meta = sdkmcp.Meta{}
		if result.Metadata.Region != "" {
			res.Meta["region"] = result.Metadata.Region
		}
		if len(result.Metadata.Resources) > 0 {
			res.Meta["resources"] = result.Metadata.Resources
		}
	}
	if toolErr != nil {
		res.IsError = true
		res.StructuredContent = BuildErrorEnvelope(toolErr, result.Data)
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: toolErr.Error()}}
		return res
	}

	if result.Data == nil {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: "{}"}}
		return res
	}
	// Structured content must be a JSON object; sequences are sent as text.
	if obj, ok := result.Data.(map[string]any); ok {
		res.StructuredContent = obj
	}
	dataJSON, err := json.Marshal(result.Data)
	if err != nil {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf("%v", result.Data)}}
	} else {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: string(dataJSON)}}
	}
	return res
}
