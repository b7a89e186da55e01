package textops

import (
	"context"
	"encoding/json"

	"github.com/alucardeht/textproc/internal/registry"
	"github.com/alucardeht/textproc/internal/textproc"
	"github.com/alucardeht/textproc/internal/tools"
)

func GetTools(p *textproc.Processor) []tools.Tool {
	return []tools.Tool{
		NewReverseTool(p),
		NewCharacterFrequencyTool(p),
		NewCleanTextTool(p),
		&StrategiesTool{processor: p},
	}
}

type StrategiesResponse struct {
	Strategies []registry.Strategy       `json:"strategies"`
	Providers  []registry.ProviderStatus `json:"providers"`
}

type StrategiesTool struct {
	processor *textproc.Processor
}

func (t *StrategiesTool) Name() string {
	return "strategies"
}

func (t *StrategiesTool) Description() string {
	return "List registered implementations per operation and which one is selected"
}

func (t *StrategiesTool) Title() string {
	return "Strategies"
}

func (t *StrategiesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *StrategiesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *StrategiesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	reg := t.processor.Registry()
	return StrategiesResponse{
		Strategies: reg.Describe(),
		Providers:  reg.Providers(),
	}, nil
}
