package tools

import (
	"context"
	"encoding/json"
	"time"
)

type HealthTool struct {
	startTime time.Time
	count     func() int
}

// NewHealthTool reports uptime and the number of tools count returns.
func NewHealthTool(count func() int) *HealthTool {
	return &HealthTool{
		startTime: time.Now(),
		count:     count,
	}
}

func (t *HealthTool) Name() string {
	return "health"
}

func (t *HealthTool) Description() string {
	return "Check server health status"
}

func (t *HealthTool) Title() string {
	return "Health"
}

func (t *HealthTool) Annotations() map[string]bool {
	return ReadOnlyAnnotations()
}

func (t *HealthTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *HealthTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	tools := 0
	if t.count != nil {
		tools = t.count()
	}
	return map[string]interface{}{
		"status":         "healthy",
		"tools":          tools,
		"uptime_seconds": int64(time.Since(t.startTime).Seconds()),
	}, nil
}
