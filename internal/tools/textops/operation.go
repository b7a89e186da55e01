package textops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/registry"
	"github.com/alucardeht/textproc/internal/text"
	"github.com/alucardeht/textproc/internal/textproc"
	"github.com/alucardeht/textproc/internal/tools"
)

type TextRequest struct {
	Text           string `json:"text"`
	Implementation string `json:"implementation,omitempty"`
}

type TextResponse struct {
	Result         string `json:"result"`
	Implementation string `json:"implementation"`
	Length         int    `json:"length"`
	Removed        int    `json:"removed,omitempty"`
}

type FrequencyResponse struct {
	Frequencies    text.Frequencies `json:"frequencies"`
	Distinct       int              `json:"distinct"`
	Total          int              `json:"total"`
	Implementation string           `json:"implementation"`
}

// OperationTool exposes one text operation.
type OperationTool struct {
	op          ops.Operation
	title       string
	description string
	processor   *textproc.Processor
}

func NewReverseTool(p *textproc.Processor) *OperationTool {
	return &OperationTool{
		op:          ops.Reverse,
		title:       "Reverse Text",
		description: "Reverse text by Unicode code point",
		processor:   p,
	}
}

func NewCharacterFrequencyTool(p *textproc.Processor) *OperationTool {
	return &OperationTool{
		op:          ops.CharacterFrequency,
		title:       "Character Frequency",
		description: "Count occurrences of each distinct character, in first-occurrence order",
		processor:   p,
	}
}

func NewCleanTextTool(p *textproc.Processor) *OperationTool {
	return &OperationTool{
		op:          ops.CleanText,
		title:       "Clean Text",
		description: "Remove ASCII punctuation and lowercase ASCII letters",
		processor:   p,
	}
}

func (t *OperationTool) Name() string {
	return t.op.String()
}

func (t *OperationTool) Description() string {
	return t.description
}

func (t *OperationTool) Title() string {
	return t.title
}

func (t *OperationTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *OperationTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {
				"type": "string",
				"description": "Input text"
			},
			"implementation": {
				"type": "string",
				"description": "Force a named implementation (e.g. reference); default is the selected one"
			}
		},
		"required": ["text"]
	}`)
}

func (t *OperationTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req TextRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", tools.ErrInvalidInput, err)
	}

	impl := req.Implementation
	if impl == "" {
		impl, _ = t.processor.Registry().Selected(t.op)
	}

	out, err := t.processor.Run(t.op, req.Implementation, req.Text)
	if err != nil {
		if errors.Is(err, registry.ErrImplementationNotFound) || errors.Is(err, registry.ErrImplementationUnavailable) {
			return nil, fmt.Errorf("%w: %v", tools.ErrInvalidInput, err)
		}
		return nil, err
	}

	switch result := out.(type) {
	case string:
		resp := TextResponse{
			Result:         result,
			Implementation: impl,
			Length:         utf8.RuneCountInString(result),
		}
		if t.op == ops.CleanText {
			resp.Removed = utf8.RuneCountInString(req.Text) - resp.Length
		}
		return resp, nil

	case text.Frequencies:
		return FrequencyResponse{
			Frequencies:    result,
			Distinct:       result.Len(),
			Total:          result.Total(),
			Implementation: impl,
		}, nil
	}

	return nil, fmt.Errorf("%s returned %T", t.op, out)
}
