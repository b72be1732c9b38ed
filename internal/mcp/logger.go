package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const loggerName = "fismcp"

// Logger is the caller-visible log channel handed to every tool call.
type Logger interface {
	Info(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string)  {}
func (nopLogger) Error(context.Context, string) {}

// sessionLogger sends MCP log notifications to the calling client and
// mirrors every message to the process logger.
type sessionLogger struct {
	session *sdkmcp.ServerSession
	base    *log.Logger
	tool    string
}

func NewSessionLogger(session *sdkmcp.ServerSession, base *log.Logger, tool string) Logger {
	return &sessionLogger{session: session, base: base, tool: tool}
}

func (l *sessionLogger) Info(ctx context.Context, msg string) {
	if l.base != nil {
		l.base.Info(msg, "tool", l.tool)
	}
	l.notify(ctx, "info", msg)
}

func (l *sessionLogger) Error(ctx context.Context, msg string) {
	if l.base != nil {
		l.base.Error(msg, "tool", l.tool)
	}
	l.notify(ctx, "error", msg)
}

func (l *sessionLogger) notify(ctx context.Context, level sdkmcp.LoggingLevel, msg string) {
	if l.session == nil {
		return
	}
	// Delivery failures must not fail the tool call.
	_ = l.session.Log(ctx, &sdkmcp.LoggingMessageParams{
		Level:  level,
		Logger: loggerName,
		Data:   msg,
	})
}
