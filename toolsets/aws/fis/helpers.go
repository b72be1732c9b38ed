package awsfis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fismcp/internal/mcp"
)

// fail reports err on the request log channel and returns it unchanged.
func fail(ctx context.Context, req mcp.ToolRequest, doing string, err error) (mcp.ToolResult, error) {
	req.Log().Error(ctx, doing+": "+err.Error())
	return errorResult(err), err
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}

func requireString(args map[string]any, key string) (string, error) {
	value := strings.TrimSpace(toString(args[key]))
	if value == "" {
		return "", errors.New(key + " is required")
	}
	return value, nil
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func toStringMap(value any) (map[string]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("value for %q must be a string", key)
			}
			out[key] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an object of strings, got %T", value)
	}
}

func stringMapToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, value := range values {
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
