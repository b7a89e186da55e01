package text

import (
	"bytes"
	"encoding/json"
)

// Frequencies maps code points to occurrence counts. Iteration follows the
// order in which each code point was first added.
type Frequencies struct {
	order  []rune
	counts map[rune]int
}

func NewFrequencies(capacity int) Frequencies {
	return Frequencies{
		order:  make([]rune, 0, capacity),
		counts: make(map[rune]int, capacity),
	}
}

func (f *Frequencies) Add(r rune) {
	f.AddN(r, 1)
}

func (f *Frequencies) AddN(r rune, n int) {
	if n <= 0 {
		return
	}
	if f.counts == nil {
		f.counts = make(map[rune]int)
	}
	if _, seen := f.counts[r]; !seen {
		f.order = append(f.order, r)
	}
	f.counts[r] += n
}

func (f Frequencies) Get(r rune) int {
	return f.counts[r]
}

// Len is the number of distinct code points.
func (f Frequencies) Len() int {
	return len(f.order)
}

// Total is the sum of all counts, equal to the input length in code points.
func (f Frequencies) Total() int {
	total := 0
	for _, n := range f.counts {
		total += n
	}
	return total
}

func (f Frequencies) Runes() []rune {
	out := make([]rune, len(f.order))
	copy(out, f.order)
	return out
}

func (f Frequencies) Each(fn func(r rune, count int)) {
	for _, r := range f.order {
		fn(r, f.counts[r])
	}
}

func (f Frequencies) Map() map[string]int {
	out := make(map[string]int, len(f.order))
	for _, r := range f.order {
		out[string(r)] = f.counts[r]
	}
	return out
}

// Equal reports whether both hold the same counts. Order is ignored.
func (f Frequencies) Equal(other Frequencies) bool {
	if len(f.order) != len(other.order) {
		return false
	}
	for r, n := range f.counts {
		if other.counts[r] != n {
			return false
		}
	}
	return true
}

// MarshalJSON writes an object whose keys keep first-occurrence order.
func (f Frequencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range f.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(r))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.counts[r])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
