// Package reference holds the baseline implementations of every operation.
// They work on code points, depend on nothing, and are always registered as
// the implementation of last resort.
package reference

import (
	"fmt"
	"strings"

	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/registry"
	"github.com/alucardeht/textproc/internal/text"
)

const Name = "reference"

// Reverse returns s with its code points in reverse order.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// CharacterFrequency counts each distinct code point, in first-occurrence order.
func CharacterFrequency(s string) text.Frequencies {
	var f text.Frequencies
	for _, r := range s {
		f.Add(r)
	}
	return f
}

// CleanText drops ASCII punctuation, then lowercases the remaining ASCII
// letters. Everything outside ASCII passes through untouched.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsASCIIPunct(r) {
			continue
		}
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Punctuation is the ASCII punctuation set removed by CleanText.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func IsASCIIPunct(r rune) bool {
	switch {
	case '!' <= r && r <= '/':
		return true
	case ':' <= r && r <= '@':
		return true
	case '[' <= r && r <= '`':
		return true
	case '{' <= r && r <= '~':
		return true
	}
	return false
}

// Register adds all three reference implementations as fallbacks.
func Register(b *registry.Builder) error {
	fallbacks := []struct {
		op ops.Operation
		fn any
	}{
		{ops.Reverse, registry.TextFunc(Reverse)},
		{ops.CharacterFrequency, registry.FrequencyFunc(CharacterFrequency)},
		{ops.CleanText, registry.TextFunc(CleanText)},
	}

	for _, f := range fallbacks {
		if err := b.RegisterFallback(f.op, Name, f.fn); err != nil {
			return fmt.Errorf("reference %s: %w", f.op, err)
		}
	}
	return nil
}
