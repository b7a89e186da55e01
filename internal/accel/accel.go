// Package accel provides byte-level fast paths for the text operations.
//
// They walk the UTF-8 encoding directly instead of converting to []rune. This
// is safe for CleanText because every ASCII byte is below 0x80 while every
// byte of a multi-byte sequence is at or above it, so punctuation and ASCII
// letters can be recognised without decoding. Input must be valid UTF-8; the
// registry normalizes it before dispatch.
package accel

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/reference"
	"github.com/alucardeht/textproc/internal/registry"
	"github.com/alucardeht/textproc/internal/text"
)

const Name = "accelerated"

var (
	ErrNotCompiled = errors.New("accelerated implementations not compiled in")
	ErrDisabled    = errors.New("accelerated implementations disabled by configuration")
	ErrSelfCheck   = errors.New("accelerated self-check failed")
)

func Reverse(s string) string {
	n := len(s)
	if n < 2 {
		return s
	}

	buf := make([]byte, n)
	if isASCII(s) {
		for i := 0; i < n; i++ {
			buf[n-1-i] = s[i]
		}
		return string(buf)
	}

	w := 0
	for i := n; i > 0; {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		w += copy(buf[w:], s[i-size:i])
		i -= size
	}
	return string(buf)
}

func CharacterFrequency(s string) text.Frequencies {
	var ascii [utf8.RuneSelf]int
	var other map[rune]int
	order := make([]rune, 0, 32)

	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if ascii[b] == 0 {
				order = append(order, rune(b))
			}
			ascii[b]++
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if other == nil {
			other = make(map[rune]int)
		}
		if other[r] == 0 {
			order = append(order, r)
		}
		other[r]++
		i += size
	}

	f := text.NewFrequencies(len(order))
	for _, r := range order {
		if r < utf8.RuneSelf {
			f.AddN(r, ascii[r])
		} else {
			f.AddN(r, other[r])
		}
	}
	return f
}

const (
	keep byte = iota
	drop
	lower
)

var cleanClass = func() [256]byte {
	var table [256]byte
	for _, r := range reference.Punctuation {
		table[r] = drop
	}
	for c := 'A'; c <= 'Z'; c++ {
		table[c] = lower
	}
	return table
}()

func CleanText(s string) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch cleanClass[c] {
		case drop:
			continue
		case lower:
			c += 'a' - 'A'
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Provider registers the fast paths once its probe passes.
type Provider struct {
	enabled  bool
	compiled bool
	reverse  registry.TextFunc
	freq     registry.FrequencyFunc
	clean    registry.TextFunc
}

func NewProvider(enabled bool) *Provider {
	return &Provider{
		enabled:  enabled,
		compiled: Compiled,
		reverse:  Reverse,
		freq:     CharacterFrequency,
		clean:    CleanText,
	}
}

func (p *Provider) Name() string {
	return Name
}

// Probe checks the build flag, the configuration switch, and finally runs
// every fast path against the reference on a fixed sample set.
func (p *Provider) Probe() error {
	if !p.compiled {
		return ErrNotCompiled
	}
	if !p.enabled {
		return ErrDisabled
	}
	return p.selfCheck()
}

func (p *Provider) Implementations() []registry.Entry {
	return []registry.Entry{
		{Operation: ops.Reverse, Implementation: registry.Implementation{Name: Name, Priority: registry.PriorityAccelerated, Func: p.reverse}},
		{Operation: ops.CharacterFrequency, Implementation: registry.Implementation{Name: Name, Priority: registry.PriorityAccelerated, Func: p.freq}},
		{Operation: ops.CleanText, Implementation: registry.Implementation{Name: Name, Priority: registry.PriorityAccelerated, Func: p.clean}},
	}
}

var samples = []string{
	"",
	"x",
	"hello",
	"Hello, World!",
	"ALREADY-Clean.",
	"naïve café: Ünïcödé!",
	"日本語のテキスト、です。",
	"emoji 🎉🚀 and (parens) [brackets] {braces}",
	"\x00\t\n\r mixed ~`^_|\\",
	reference.Punctuation,
	"A\xff,\xfeb \xe6\x97 trailing\xc3",
}

func (p *Provider) selfCheck() error {
	for _, s := range samples {
		s = text.Valid(s)
		if got, want := p.reverse(s), reference.Reverse(s); got != want {
			return fmt.Errorf("%w: %s on %q: got %q, want %q", ErrSelfCheck, ops.Reverse, s, got, want)
		}
		if got, want := p.freq(s), reference.CharacterFrequency(s); !got.Equal(want) {
			return fmt.Errorf("%w: %s on %q", ErrSelfCheck, ops.CharacterFrequency, s)
		}
		if got, want := p.clean(s), reference.CleanText(s); got != want {
			return fmt.Errorf("%w: %s on %q: got %q, want %q", ErrSelfCheck, ops.CleanText, s, got, want)
		}
	}
	return nil
}
