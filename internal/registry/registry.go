// Package registry selects, once at startup, which implementation serves each
// text operation. A Builder collects candidates during initialization; Build
// probes them, orders them by priority and returns a read-only Registry that
// is safe for concurrent use without locking.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alucardeht/textproc/internal/logger"
	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/text"
)

// Provider supplies accelerated implementations. Probe is called exactly once
// by AddProvider; a failure leaves the provider unregistered for good.
type Provider interface {
	Name() string
	Probe() error
	Implementations() []Entry
}

type ProviderStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type Builder struct {
	log        *slog.Logger
	candidates map[ops.Operation][]*candidate
	providers  []ProviderStatus
	built      bool
}

func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = logger.ForComponent("registry")
	}
	return &Builder{
		log:        log,
		candidates: make(map[ops.Operation][]*candidate),
	}
}

func (b *Builder) Register(op ops.Operation, impl Implementation) error {
	if b.built {
		return ErrFrozen
	}
	if !op.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
	if impl.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidImplementation)
	}
	for _, existing := range b.candidates[op] {
		if existing.Name == impl.Name {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateImplementation, op, impl.Name)
		}
	}

	call, err := bind(op, impl)
	if err != nil {
		return err
	}

	b.candidates[op] = append(b.candidates[op], &candidate{
		Implementation: impl,
		call:           call,
	})
	b.log.Debug("registered implementation", "operation", op, "implementation", impl.Name, "priority", impl.Priority, "reference", impl.Reference)
	return nil
}

// RegisterFallback registers the always-available implementation of last
// resort for op.
func (b *Builder) RegisterFallback(op ops.Operation, name string, fn any) error {
	return b.Register(op, Implementation{
		Name:      name,
		Priority:  PriorityReference,
		Reference: true,
		Func:      fn,
	})
}

func (b *Builder) AddProvider(p Provider) error {
	if b.built {
		return ErrFrozen
	}

	if err := p.Probe(); err != nil {
		b.log.Warn("accelerated provider unavailable, falling back", "provider", p.Name(), "error", err)
		b.providers = append(b.providers, ProviderStatus{Name: p.Name(), Error: err.Error()})
		return nil
	}

	for _, entry := range p.Implementations() {
		if err := b.Register(entry.Operation, entry.Implementation); err != nil {
			return fmt.Errorf("provider %s: %w", p.Name(), err)
		}
	}
	b.providers = append(b.providers, ProviderStatus{Name: p.Name(), Available: true})
	b.log.Info("accelerated provider enabled", "provider", p.Name())
	return nil
}

func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, ErrFrozen
	}

	r := &Registry{
		candidates: make(map[ops.Operation][]candidate, len(b.candidates)),
		selected:   make(map[ops.Operation]candidate, len(b.candidates)),
		providers:  append([]ProviderStatus(nil), b.providers...),
	}

	// Frozen even on failure: probes have run and must not run again.
	b.built = true

	for _, op := range ops.All() {
		list, ok := b.candidates[op]
		if !ok {
			continue
		}
		for _, c := range list {
			c.available = true
			if c.Probe == nil {
				continue
			}
			if err := c.Probe(); err != nil {
				c.available = false
				c.probeErr = err
				b.log.Warn("implementation unavailable", "operation", op, "implementation", c.Name, "error", err)
			}
		}

		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Reference != list[j].Reference {
				return !list[i].Reference
			}
			return list[i].Priority > list[j].Priority
		})

		last := list[len(list)-1]
		if !last.Reference || !last.available {
			return nil, fmt.Errorf("%w: %s", ErrMissingFallback, op)
		}

		ordered := make([]candidate, len(list))
		for i, c := range list {
			ordered[i] = *c
		}
		r.candidates[op] = ordered

		for _, c := range ordered {
			if c.available {
				r.selected[op] = c
				b.log.Info("strategy selected", "operation", op, "implementation", c.Name, "priority", c.Priority)
				break
			}
		}
	}

	return r, nil
}

// Registry is immutable once returned by Build.
type Registry struct {
	candidates map[ops.Operation][]candidate
	selected   map[ops.Operation]candidate
	providers  []ProviderStatus
}

// Invoke runs the selected implementation for op on input. Implementations
// only ever see valid UTF-8: invalid byte runs are replaced with U+FFFD
// first, so every candidate agrees on the same input.
func (r *Registry) Invoke(op ops.Operation, input string) (any, error) {
	c, ok := r.selected[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
	return c.call(text.Valid(input)), nil
}

// InvokeWith runs a specific implementation by name, bypassing selection.
// Input is normalized the same way as Invoke.
func (r *Registry) InvokeWith(op ops.Operation, name string, input string) (any, error) {
	list, ok := r.candidates[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
	for _, c := range list {
		if c.Name != name {
			continue
		}
		if !c.available {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrImplementationUnavailable, op, name, c.probeErr)
		}
		return c.call(text.Valid(input)), nil
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrImplementationNotFound, op, name)
}

// Selected returns the name of the implementation Invoke uses for op.
func (r *Registry) Selected(op ops.Operation) (string, bool) {
	c, ok := r.selected[op]
	if !ok {
		return "", false
	}
	return c.Name, true
}

type Candidate struct {
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Reference bool   `json:"reference"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type Strategy struct {
	Operation  ops.Operation `json:"operation"`
	Selected   string        `json:"selected"`
	Candidates []Candidate   `json:"candidates"`
}

// Describe lists every registered operation with its ordered candidates.
func (r *Registry) Describe() []Strategy {
	out := make([]Strategy, 0, len(r.candidates))
	for _, op := range ops.All() {
		list, ok := r.candidates[op]
		if !ok {
			continue
		}

		s := Strategy{Operation: op, Candidates: make([]Candidate, 0, len(list))}
		s.Selected, _ = r.Selected(op)
		for _, c := range list {
			cand := Candidate{
				Name:      c.Name,
				Priority:  c.Priority,
				Reference: c.Reference,
				Available: c.available,
			}
			if c.probeErr != nil {
				cand.Error = c.probeErr.Error()
			}
			s.Candidates = append(s.Candidates, cand)
		}
		out = append(out, s)
	}
	return out
}

func (r *Registry) Providers() []ProviderStatus {
	return append([]ProviderStatus(nil), r.providers...)
}
