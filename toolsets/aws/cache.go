package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fismcp/internal/mcp"
)

// wrapListCache memoizes read-only List* tools when list_ttl_seconds is set.
// Keys include the active region; the server clears the store on reload.
func (t *Toolset) wrapListCache(spec mcp.ToolSpec) mcp.ToolSpec {
	if t.ctx.Cache == nil || t.ctx.Config == nil {
		return spec
	}
	if spec.Safety != mcp.SafetyReadOnly || !strings.HasPrefix(spec.Name, "List") {
		return spec
	}
	ttlSeconds := t.ctx.Config.Cache.ListTTLSeconds
	if ttlSeconds <= 0 {
		return spec
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	handler := spec.Handler
	spec.Handler = func(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
		key := listCacheKey(spec.Name, t.region(), req.Arguments)
		if cached, ok := t.ctx.Cache.Get(key); ok {
			if result, ok := cached.(mcp.ToolResult); ok {
				return result, nil
			}
		}
		result, err := handler(ctx, req)
		if err == nil && result.Data != nil {
			t.ctx.Cache.Set(key, result, ttl)
		}
		return result, err
	}
	return spec
}

func (t *Toolset) region() string {
	if clients := t.ctx.AWS.Current(); clients != nil {
		return clients.Region
	}
	return ""
}

func listCacheKey(toolName, region string, args map[string]any) string {
	return fmt.Sprintf("list:%s:%s:%s", toolName, region, stableValue(args))
}

func stableValue(value any) string {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, stableValue(typed[key])))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, stableValue(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case string:
		return strings.TrimSpace(typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
