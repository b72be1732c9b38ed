package mcp

import (
	"context"
	"time"

	"fismcp/internal/audit"
	"fismcp/internal/config"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// invoke runs one tool handler under its configured timeout and records the
// audit event and metrics for it. SDK calls and programmatic calls both go
// through here.
func invoke(ctx context.Context, spec ToolSpec, toolCtx ToolContext, args map[string]any, logger Logger) (ToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	if logger == nil {
		logger = NewSessionLogger(nil, toolCtx.Logger, spec.Name)
	}
	start := time.Now()
	execCtx, cancel := withToolTimeout(ctx, toolCtx.Config, spec.Name)
	result, toolErr := spec.Handler(execCtx, ToolRequest{Arguments: args, Logger: logger, Context: toolCtx})
	cancel()
	elapsed := time.Since(start)

	outcome := outcomeSuccess
	if toolErr != nil {
		outcome = outcomeError
	}
	region := result.Metadata.Region
	if region == "" && toolCtx.AWS != nil {
		if clients := toolCtx.AWS.Current(); clients != nil {
			region = clients.Region
		}
	}
	logAudit(toolCtx, spec, region, outcome, toolErr, elapsed)
	toolCtx.Metrics.RecordToolCall(ctx, spec.Name, spec.ToolsetID, outcome, elapsed)
	return result, toolErr
}

func withToolTimeout(ctx context.Context, cfg *config.Config, toolName string) (context.Context, context.CancelFunc) {
	timeout := toolTimeout(cfg, toolName)
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// toolTimeout resolves the per-tool override, then the default, clamped to
// the configured maximum. Zero means no deadline.
func toolTimeout(cfg *config.Config, toolName string) time.Duration {
	if cfg == nil {
		return 0
	}
	seconds := cfg.Timeouts.DefaultSeconds
	if override := cfg.Timeouts.PerTool[toolName]; override > 0 {
		seconds = override
	}
	if max := cfg.Timeouts.MaxSeconds; max > 0 && (seconds <= 0 || seconds > max) {
		seconds = max
	}
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func logAudit(ctx ToolContext, spec ToolSpec, region, outcome string, err error, elapsed time.Duration) {
	if ctx.Audit == nil {
		return
	}
	event := audit.Event{
		Timestamp:  time.Now().UTC(),
		RequestID:  audit.NewRequestID(),
		Tool:       spec.Name,
		Toolset:    spec.ToolsetID,
		Region:     region,
		Outcome:    outcome,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		event.Error = err.Error()
		if ctx.Redactor != nil {
			event.Error = ctx.Redactor.RedactString(event.Error)
		}
	}
	ctx.Audit.Log(event)
}
