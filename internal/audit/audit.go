package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one tool invocation. Error text is expected to be redacted by
// the caller.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"requestId"`
	Tool       string    `json:"tool"`
	Toolset    string    `json:"toolset"`
	Region     string    `json:"region,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"durationMs"`
}

var jsonMarshal = json.Marshal

type Logger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out}
}

func NewRequestID() string {
	return uuid.NewString()
}

func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = NewRequestID()
	}
	data, err := jsonMarshal(event)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(data, '\n'))
}
