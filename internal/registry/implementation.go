package registry

import (
	"fmt"

	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/text"
)

const (
	PriorityReference   = 0
	PriorityAccelerated = 100
)

// TextFunc implements Reverse and CleanText.
type TextFunc func(string) string

// FrequencyFunc implements CharacterFrequency.
type FrequencyFunc func(string) text.Frequencies

// Implementation is one candidate for an operation. Func must be a TextFunc
// or FrequencyFunc (or the equivalent unnamed func type) matching the
// operation. Probe, when set, runs once during Build; an error marks the
// implementation unavailable for the life of the registry.
type Implementation struct {
	Name      string
	Priority  int
	Reference bool
	Func      any
	Probe     func() error
}

// Entry pairs an implementation with the operation it satisfies.
type Entry struct {
	Operation      ops.Operation
	Implementation Implementation
}

type candidate struct {
	Implementation
	call      func(string) any
	available bool
	probeErr  error
}

func bind(op ops.Operation, impl Implementation) (func(string) any, error) {
	switch op {
	case ops.Reverse, ops.CleanText:
		var fn TextFunc
		switch f := impl.Func.(type) {
		case TextFunc:
			fn = f
		case func(string) string:
			fn = f
		}
		if fn == nil {
			return nil, fmt.Errorf("%w: %s for %s must be func(string) string, got %T", ErrInvalidImplementation, impl.Name, op, impl.Func)
		}
		return func(s string) any { return fn(s) }, nil

	case ops.CharacterFrequency:
		var fn FrequencyFunc
		switch f := impl.Func.(type) {
		case FrequencyFunc:
			fn = f
		case func(string) text.Frequencies:
			fn = f
		}
		if fn == nil {
			return nil, fmt.Errorf("%w: %s for %s must be func(string) text.Frequencies, got %T", ErrInvalidImplementation, impl.Name, op, impl.Func)
		}
		return func(s string) any { return fn(s) }, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
}
