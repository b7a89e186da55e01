// Package textproc is the public face of the three text operations. Each call
// delegates to a registry built once at startup.
package textproc

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/alucardeht/textproc/internal/accel"
	"github.com/alucardeht/textproc/internal/config"
	"github.com/alucardeht/textproc/internal/logger"
	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/reference"
	"github.com/alucardeht/textproc/internal/registry"
	"github.com/alucardeht/textproc/internal/text"
)

// Build probes the accelerated provider (when enabled) and registers the
// reference implementations as the fallback for every operation.
func Build(cfg config.AccelConfig, log *slog.Logger) (*registry.Registry, error) {
	b := registry.NewBuilder(log)

	if err := b.AddProvider(accel.NewProvider(cfg.Enabled)); err != nil {
		return nil, err
	}
	if err := reference.Register(b); err != nil {
		return nil, err
	}

	return b.Build()
}

type Processor struct {
	registry *registry.Registry
}

func New(reg *registry.Registry) *Processor {
	return &Processor{registry: reg}
}

func (p *Processor) Registry() *registry.Registry {
	return p.registry
}

func (p *Processor) Reverse(s string) (string, error) {
	return p.text(ops.Reverse, "", s)
}

func (p *Processor) CharacterFrequency(s string) (text.Frequencies, error) {
	return p.frequencies("", s)
}

func (p *Processor) CleanText(s string) (string, error) {
	return p.text(ops.CleanText, "", s)
}

// Run dispatches op by value. impl selects a named implementation; empty
// means the registry's selection.
func (p *Processor) Run(op ops.Operation, impl string, s string) (any, error) {
	if impl == "" {
		return p.registry.Invoke(op, s)
	}
	return p.registry.InvokeWith(op, impl, s)
}

func (p *Processor) text(op ops.Operation, impl string, s string) (string, error) {
	out, err := p.Run(op, impl, s)
	if err != nil {
		return "", err
	}
	result, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T", op, out)
	}
	return result, nil
}

func (p *Processor) frequencies(impl string, s string) (text.Frequencies, error) {
	out, err := p.Run(ops.CharacterFrequency, impl, s)
	if err != nil {
		return text.Frequencies{}, err
	}
	result, ok := out.(text.Frequencies)
	if !ok {
		return text.Frequencies{}, fmt.Errorf("%s returned %T", ops.CharacterFrequency, out)
	}
	return result, nil
}

// Using pins every call to the named implementation.
func (p *Processor) Using(impl string) *Pinned {
	return &Pinned{processor: p, impl: impl}
}

type Pinned struct {
	processor *Processor
	impl      string
}

func (p *Pinned) Reverse(s string) (string, error) {
	return p.processor.text(ops.Reverse, p.impl, s)
}

func (p *Pinned) CharacterFrequency(s string) (text.Frequencies, error) {
	return p.processor.frequencies(p.impl, s)
}

func (p *Pinned) CleanText(s string) (string, error) {
	return p.processor.text(ops.CleanText, p.impl, s)
}

var (
	defaultOnce      sync.Once
	defaultProcessor *Processor
)

// Default returns the process-wide processor. Configuration is read and the
// accelerated provider probed on first use only; later calls reuse the
// result for the life of the process.
func Default() *Processor {
	defaultOnce.Do(func() {
		log := logger.ForComponent("textproc")

		cfg, err := config.Load("")
		if err != nil {
			log.Warn("config unavailable, using defaults", "error", err)
			cfg = config.Default()
		}

		reg, err := Build(cfg.Accel, log)
		if err != nil {
			panic(fmt.Sprintf("textproc: building registry: %v", err))
		}
		defaultProcessor = New(reg)
	})
	return defaultProcessor
}

// Reverse, CharacterFrequency and CleanText use Default. They panic only if
// the registry lost an operation, which is a construction bug.

func Reverse(s string) string {
	return must(Default().Reverse(s))
}

func CharacterFrequency(s string) text.Frequencies {
	return must(Default().CharacterFrequency(s))
}

func CleanText(s string) string {
	return must(Default().CleanText(s))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("textproc: %v", err))
	}
	return v
}
