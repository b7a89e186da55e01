// Package ops names the fixed set of text operations the registry dispatches.
package ops

import (
	"fmt"
	"strings"
)

type Operation int

const (
	Reverse Operation = iota + 1
	CharacterFrequency
	CleanText
)

var names = map[Operation]string{
	Reverse:            "reverse",
	CharacterFrequency: "character_frequency",
	CleanText:          "clean_text",
}

var aliases = map[string]Operation{
	"reverse":             Reverse,
	"character_frequency": CharacterFrequency,
	"char_count":          CharacterFrequency,
	"freq":                CharacterFrequency,
	"clean_text":          CleanText,
	"clean":               CleanText,
}

// All returns every operation in declaration order.
func All() []Operation {
	return []Operation{Reverse, CharacterFrequency, CleanText}
}

func (o Operation) String() string {
	if name, ok := names[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

func (o Operation) Valid() bool {
	_, ok := names[o]
	return ok
}

// Parse accepts canonical names and the short aliases used by the CLI.
func Parse(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if op, ok := aliases[key]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown operation: %q", name)
}

func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid operation: %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Operation) UnmarshalText(data []byte) error {
	op, err := Parse(string(data))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
