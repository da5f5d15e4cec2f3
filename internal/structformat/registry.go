// Package structformat implements the extensible parser registry of
// spec §4.1: an ordered list of Parsers, each able to attempt a
// structured-text decode, with an optional post-parse normalization
// step. It ships JSON, YAML, CSV/TSV, and XML built-ins.
//
// The registry is mutable only at process startup (Register). After the
// first call to ParseInput it should be treated as frozen and read
// concurrently from many goroutines — the same "construct once, read
// many" discipline the teacher applies to its TierMatcher and Tokenizer.
package structformat

import (
	"errors"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// ErrNotStructured is returned by ParseInput when no registered parser
// recognizes the text (spec §7, NotStructured).
var ErrNotStructured = errors.New("input did not match any registered structured format")

// TryParseFunc attempts to parse text as this parser's format. It
// returns the parsed Value and true on success, or the zero Value and
// false when the text is not in this format.
type TryParseFunc func(text string) (value.Value, bool)

// NormalizeFunc is an optional post-parse transform, e.g. CSV's
// string-cell-to-scalar coercion.
type NormalizeFunc func(value.Value) value.Value

// Parser is one pluggable entry in the Registry.
type Parser struct {
	// Name is used as the format hint and in Value's returned format name.
	Name      string
	TryParse  TryParseFunc
	Normalize NormalizeFunc
}

// Registry is an ordered list of Parsers, tried in order by ParseInput.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a Registry preloaded with the built-in parsers in
// priority order: JSON, YAML, CSV/TSV, XML (spec §4.1).
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(jsonParser())
	r.Register(yamlParser())
	r.Register(csvParser())
	r.Register(xmlParser())
	return r
}

// Register appends a parser to the end of the registry (lowest
// priority). Use RegisterAt to insert at a specific position.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// RegisterAt inserts a parser at the given priority position (0 = tried
// first).
func (r *Registry) RegisterAt(p Parser, priority int) {
	if priority < 0 {
		priority = 0
	}
	if priority >= len(r.parsers) {
		r.parsers = append(r.parsers, p)
		return
	}
	r.parsers = append(r.parsers, Parser{})
	copy(r.parsers[priority+1:], r.parsers[priority:])
	r.parsers[priority] = p
}

// Names returns the registered parser names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.parsers))
	for i, p := range r.parsers {
		names[i] = p.Name
	}
	return names
}

// ParseInput tries to parse text, returning the Value and the name of
// the parser that succeeded. When hint names a registered parser, that
// parser is tried first; if it fails (or the hint is unknown), the full
// registry is scanned in order, skipping the already-tried hinted
// parser. Returns ErrNotStructured if no parser matches.
func (r *Registry) ParseInput(text string, hint string) (value.Value, string, error) {
	hint = strings.TrimSpace(hint)

	if hint != "" {
		for _, p := range r.parsers {
			if p.Name != hint {
				continue
			}
			if v, ok := p.TryParse(text); ok {
				return applyNormalize(p, v), p.Name, nil
			}
			break // hint matched a registered parser but it failed -- fall through
		}
	}

	for _, p := range r.parsers {
		if hint != "" && p.Name == hint {
			continue // already tried above
		}
		if v, ok := p.TryParse(text); ok {
			return applyNormalize(p, v), p.Name, nil
		}
	}

	return value.Value{}, "", ErrNotStructured
}

func applyNormalize(p Parser, v value.Value) value.Value {
	if p.Normalize != nil {
		return p.Normalize(v)
	}
	return v
}
