package accel

import (
	"strings"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alucardeht/textproc/internal/logger"
	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/reference"
	"github.com/alucardeht/textproc/internal/registry"
	"github.com/alucardeht/textproc/internal/text"
)

func TestConcreteCases(t *testing.T) {
	assert.Equal(t, "olleh", Reverse("hello"))
	assert.Equal(t, "", Reverse(""))
	assert.Equal(t, "éfac", Reverse("café"))
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, CharacterFrequency("aab").Map())
	assert.Equal(t, "hello world", CleanText("Hello, World!"))
	assert.Equal(t, "alreadyclean", CleanText("ALREADY-Clean."))
}

func TestMatchesReferenceOnSamples(t *testing.T) {
	for _, s := range samples {
		s = text.Valid(s)
		assert.Equal(t, reference.Reverse(s), Reverse(s), s)
		assert.Equal(t, reference.CleanText(s), CleanText(s), s)

		got, want := CharacterFrequency(s), reference.CharacterFrequency(s)
		assert.True(t, want.Equal(got), s)
		assert.Equal(t, want.Runes(), got.Runes(), "first-occurrence order for %q", s)
	}
}

func TestMatchesReferenceOnRandomInput(t *testing.T) {
	require.NoError(t, quick.CheckEqual(Reverse, reference.Reverse, nil))
	require.NoError(t, quick.CheckEqual(CleanText, reference.CleanText, nil))
	require.NoError(t, quick.Check(func(s string) bool {
		return CharacterFrequency(s).Equal(reference.CharacterFrequency(s))
	}, nil))
}

func TestLongMixedInput(t *testing.T) {
	s := strings.Repeat("Ab, ç! 日本 🎉 ", 500)
	assert.Equal(t, reference.Reverse(s), Reverse(s))
	assert.Equal(t, reference.CleanText(s), CleanText(s))
	want, got := reference.CharacterFrequency(s), CharacterFrequency(s)
	if diff := cmp.Diff(want.Map(), got.Map()); diff != "" {
		t.Errorf("frequency mismatch (-reference +accelerated):\n%s", diff)
	}
	if diff := cmp.Diff(want.Runes(), got.Runes()); diff != "" {
		t.Errorf("first-occurrence order mismatch (-reference +accelerated):\n%s", diff)
	}
}

func TestProbe(t *testing.T) {
	if !Compiled {
		assert.ErrorIs(t, NewProvider(true).Probe(), ErrNotCompiled)
		return
	}

	assert.NoError(t, NewProvider(true).Probe())
	assert.ErrorIs(t, NewProvider(false).Probe(), ErrDisabled)

	notCompiled := NewProvider(true)
	notCompiled.compiled = false
	assert.ErrorIs(t, notCompiled.Probe(), ErrNotCompiled)
}

func TestProbeRejectsWrongFastPath(t *testing.T) {
	p := NewProvider(true)
	p.compiled = true
	p.clean = strings.ToLower

	err := p.Probe()
	require.ErrorIs(t, err, ErrSelfCheck)
	assert.Contains(t, err.Error(), ops.CleanText.String())

	p = NewProvider(true)
	p.compiled = true
	p.freq = func(string) text.Frequencies { return text.Frequencies{} }
	assert.ErrorIs(t, p.Probe(), ErrSelfCheck)
}

func TestProviderSelectedOverReference(t *testing.T) {
	p := NewProvider(true)
	p.compiled = true

	b := registry.NewBuilder(logger.Discard())
	require.NoError(t, b.AddProvider(p))
	require.NoError(t, reference.Register(b))
	reg, err := b.Build()
	require.NoError(t, err)

	for _, op := range ops.All() {
		name, ok := reg.Selected(op)
		require.True(t, ok)
		assert.Equal(t, Name, name, op.String())
	}
	assert.Equal(t, []registry.ProviderStatus{{Name: Name, Available: true}}, reg.Providers())
}

func TestInvalidUTF8AgreesWithReference(t *testing.T) {
	build := func(p registry.Provider) *registry.Registry {
		b := registry.NewBuilder(logger.Discard())
		require.NoError(t, b.AddProvider(p))
		require.NoError(t, reference.Register(b))
		reg, err := b.Build()
		require.NoError(t, err)
		return reg
	}

	fast := NewProvider(true)
	fast.compiled = true
	accelerated := build(fast)
	fallback := build(NewProvider(false))

	name, _ := accelerated.Selected(ops.Reverse)
	require.Equal(t, Name, name)

	in := "A\xff,\xfeb"
	for _, op := range ops.All() {
		got, err := accelerated.Invoke(op, in)
		require.NoError(t, err)
		want, err := fallback.Invoke(op, in)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-reference +accelerated):\n%s", op, diff)
		}
	}

	out, err := accelerated.Invoke(ops.Reverse, in)
	require.NoError(t, err)
	assert.Equal(t, "b\uFFFD,\uFFFDA", out)

	out, err = fallback.Invoke(ops.CleanText, in)
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFD\uFFFDb", out)

	back, err := fallback.Invoke(ops.Reverse, out.(string))
	require.NoError(t, err)
	again, err := fallback.Invoke(ops.Reverse, back.(string))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestFailedProbeDegradesToReference(t *testing.T) {
	b := registry.NewBuilder(logger.Discard())
	require.NoError(t, b.AddProvider(NewProvider(false)))
	require.NoError(t, reference.Register(b))
	reg, err := b.Build()
	require.NoError(t, err)

	for _, op := range ops.All() {
		name, _ := reg.Selected(op)
		assert.Equal(t, reference.Name, name)
	}

	out, err := reg.Invoke(ops.CleanText, "Hello, World!")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	_, err = reg.InvokeWith(ops.CleanText, Name, "x")
	assert.ErrorIs(t, err, registry.ErrImplementationNotFound)

	providers := reg.Providers()
	require.Len(t, providers, 1)
	assert.False(t, providers[0].Available)
	assert.NotEmpty(t, providers[0].Error)
}
