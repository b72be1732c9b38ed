package policy

import (
	"context"
	"errors"
	"fmt"
)

// Capabilities named in write-disabled messages.
const (
	CapabilityCreateView      = "Resource Explorer view creation"
	CapabilityCreateTemplate  = "template creation"
	CapabilityUpdateTemplate  = "template updates"
	CapabilityStartExperiment = "destructive operations like starting FIS experiments"
)

var ErrWriteDisabled = errors.New("write operations are disabled")

type WriteDisabledError struct {
	Capability string
}

func (e *WriteDisabledError) Error() string {
	return fmt.Sprintf("Write operations are disabled. Use --allow-writes flag to enable %s.", e.Capability)
}

func (e *WriteDisabledError) Is(target error) bool {
	return target == ErrWriteDisabled
}

// ErrorLogger receives the rejection message. The per-call tool logger
// satisfies it.
type ErrorLogger interface {
	Error(ctx context.Context, msg string)
}

// Guard gates every mutating tool. It is built once from configuration and
// never changes while a server runs.
type Guard struct {
	allowWrites bool
}

func NewGuard(allowWrites bool) *Guard {
	return &Guard{allowWrites: allowWrites}
}

func (g *Guard) WritesAllowed() bool {
	return g != nil && g.allowWrites
}

// Check returns a WriteDisabledError, after logging it once, when writes are
// disabled. It performs no other work.
func (g *Guard) Check(ctx context.Context, logger ErrorLogger, capability string) error {
	if g.WritesAllowed() {
		return nil
	}
	err := &WriteDisabledError{Capability: capability}
	if logger != nil {
		logger.Error(ctx, err.Error())
	}
	return err
}
