package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name string
	err  error
	wait bool
}

func (t *echoTool) Name() string            { return t.name }
func (t *echoTool) Description() string     { return "echo" }
func (t *echoTool) Schema() json.RawMessage { return json.RawMessage(`{}`) }

func (t *echoTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if t.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if t.err != nil {
		return nil, t.err
	}
	return string(input), nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&echoTool{name: "b"}))
	require.NoError(t, r.Register(&echoTool{name: "a"}))

	assert.Error(t, r.Register(&echoTool{name: "a"}))
	assert.Error(t, r.Register(&echoTool{name: ""}))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name())

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("zzz")
	assert.False(t, ok)
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&echoTool{name: "echo"}))
	require.NoError(t, r.Register(&echoTool{name: "bad", err: ErrInvalidInput}))
	require.NoError(t, r.Register(&echoTool{name: "boom", err: errors.New("boom")}))

	result, err := r.Execute(context.Background(), "echo", json.RawMessage(`{"x":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, result)

	var toolErr *ToolError

	_, err = r.Execute(context.Background(), "missing", nil)
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeMethodNotFound, toolErr.Code)

	_, err = r.Execute(context.Background(), "bad", nil)
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeInvalidParams, toolErr.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Execute(context.Background(), "boom", nil)
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeInternalError, toolErr.Code)
	assert.Contains(t, toolErr.Error(), "boom")
}

func TestRegistryExecuteWithTimeout(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&echoTool{name: "slow", wait: true}))

	_, err := r.ExecuteWithTimeout(context.Background(), "slow", nil, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHealthTool(t *testing.T) {
	tool := NewHealthTool(func() int { return 5 })
	assert.Equal(t, "health", tool.Name())
	assert.True(t, json.Valid(tool.Schema()))

	result, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	status := result.(map[string]interface{})
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, 5, status["tools"])
}
