package markdown

import (
	"fmt"
	"iter"

	"github.com/gosuda/brainstorm/internal/domain"
)

// Properties is an insertion-ordered string map for segment tag attributes.
// Keys are unique; re-adding an existing key replaces the value in place so
// that a loaded document re-serializes with its attributes in the original
// order. Not safe for concurrent use.
type Properties struct {
	entries []property
}

type property struct {
	key   string
	value string
}

// NewProperties builds a Properties from alternating key/value pairs.
// It panics when given an odd number of arguments; it is intended for
// literal construction in conversion helpers and tests.
func NewProperties(pairs ...string) *Properties {
	if len(pairs)%2 != 0 {
		panic("markdown.NewProperties: odd number of arguments")
	}
	p := &Properties{}
	for i := 0; i < len(pairs); i += 2 {
		p.Add(pairs[i], pairs[i+1])
	}
	return p
}

// Add inserts a key/value pair, or replaces the value in place when the key
// already exists.
func (p *Properties) Add(key, value string) {
	for i := range p.entries {
		if p.entries[i].key == key {
			p.entries[i].value = value
			return
		}
	}
	p.entries = append(p.entries, property{key: key, value: value})
}

// Get returns the value for key and whether it was present.
func (p *Properties) Get(key string) (string, bool) {
	for _, e := range p.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// MustGet returns the value for key, or ErrBadFormat when the key is absent.
func (p *Properties) MustGet(key string) (string, error) {
	v, ok := p.Get(key)
	if !ok {
		return "", fmt.Errorf("markdown: key %q not found: %w", key, domain.ErrBadFormat)
	}
	return v, nil
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Len returns the number of stored pairs.
func (p *Properties) Len() int {
	return len(p.entries)
}

// Keys yields the keys in first-insertion order.
func (p *Properties) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range p.entries {
			if !yield(e.key) {
				return
			}
		}
	}
}

// All yields key/value pairs in first-insertion order.
func (p *Properties) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range p.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}
