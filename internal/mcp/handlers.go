package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/alucardeht/textproc/internal/tools"
	"github.com/alucardeht/textproc/pkg/version"
)

type Handler struct {
	registry    *tools.Registry
	serverName  string
	toolTimeout time.Duration
	log         *slog.Logger

	mu          sync.Mutex
	initialized bool
	clientInfo  ClientInfo
}

func NewHandler(registry *tools.Registry, opts Options) *Handler {
	return &Handler{
		registry:    registry,
		serverName:  opts.Name,
		toolTimeout: opts.ToolTimeout,
		log:         opts.Logger,
	}
}

// Handle has the signature jsonrpc2.HandlerWithError expects.
func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	h.log.Debug("request", "method", req.Method, "notification", req.Notif)

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "ping":
		return map[string]interface{}{}, nil
	case "tools/list":
		return h.handleListTools(), nil
	case "tools/call":
		return h.handleCallTool(ctx, req)
	case "notifications/initialized":
		h.mu.Lock()
		h.initialized = true
		h.mu.Unlock()
		return nil, nil
	}

	return nil, &jsonrpc2.Error{
		Code:    jsonrpc2.CodeMethodNotFound,
		Message: fmt.Sprintf("Method not found: %s", req.Method),
	}
}

func (h *Handler) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initialized
}

func (h *Handler) ClientInfo() ClientInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clientInfo
}

func decodeParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return nil
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: fmt.Sprintf("failed to parse %s params: %v", req.Method, err),
		}
	}
	return nil
}

func (h *Handler) handleInitialize(req *jsonrpc2.Request) (interface{}, error) {
	var initReq InitializeRequest
	if err := decodeParams(req, &initReq); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.clientInfo = initReq.ClientInfo
	h.mu.Unlock()

	h.log.Info("client connected", "client", initReq.ClientInfo.Name, "client_version", initReq.ClientInfo.Version)

	return InitializeResponse{
		ProtocolVersion: negotiateProtocolVersion(initReq.ProtocolVersion),
		Capabilities: map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		ServerInfo: ClientInfo{
			Name:    h.serverName,
			Version: version.Version,
		},
	}, nil
}

func negotiateProtocolVersion(clientVersion string) string {
	for _, v := range version.SupportedProtocolVersions {
		if clientVersion == v {
			return v
		}
	}

	return version.ProtocolVersion
}

func (h *Handler) handleListTools() ListToolsResponse {
	toolsList := h.registry.List()
	defs := make([]ToolDefinition, len(toolsList))

	for i, t := range toolsList {
		def := ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		}

		if annotated, ok := t.(tools.AnnotatedTool); ok {
			def.Title = annotated.Title()
			def.Annotations = annotated.Annotations()
		}

		defs[i] = def
	}

	return ListToolsResponse{Tools: defs}
}

func (h *Handler) handleCallTool(ctx context.Context, req *jsonrpc2.Request) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInternalError,
				Message: fmt.Sprintf("tool execution panicked: %v", r),
			}
			h.log.Error("tool panic recovered",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	var callReq CallToolRequest
	if err := decodeParams(req, &callReq); err != nil {
		return nil, err
	}

	if callReq.Name == "" {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "tool name is required"}
	}

	out, err := h.registry.ExecuteWithTimeout(ctx, callReq.Name, callReq.Arguments, h.toolTimeout)
	if err != nil {
		h.log.Warn("tool failed", "tool", callReq.Name, "error", err)
		return nil, toRPCError(err)
	}

	resultJSON, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return CallToolResponse{
		Content: []Content{{Type: "text", Text: string(resultJSON)}},
	}, nil
}

func toRPCError(err error) *jsonrpc2.Error {
	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		return &jsonrpc2.Error{Code: int64(toolErr.Code), Message: toolErr.Message}
	}
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
}
