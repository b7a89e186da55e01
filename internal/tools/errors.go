package tools

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

type ToolError struct {
	Code    int
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func NewToolNotFoundError(name string) *ToolError {
	return &ToolError{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("Tool not found: %s", name),
	}
}

func NewToolExecutionError(name string, err error) *ToolError {
	code := CodeInternalError
	if errors.Is(err, ErrInvalidInput) {
		code = CodeInvalidParams
	}
	return &ToolError{
		Code:    code,
		Message: fmt.Sprintf("Error executing tool %s: %v", name, err),
		Err:     err,
	}
}

// ErrInvalidInput marks argument problems so they map to invalid params.
var ErrInvalidInput = errors.New("invalid input")
