package heuristics

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
)

// Profile is one named heuristic preset as it appears in a profiles
// TOML document. Every field is a pointer so applyProfile's merge can
// distinguish "not set, inherit from Extends/defaults" from an
// explicit override (including an explicit false/zero).
type Profile struct {
	Extends            *string  `toml:"extends"`
	ElideAllZero       *bool    `toml:"elide_all_zero"`
	ElideAllNull       *bool    `toml:"elide_all_null"`
	ElideTimestamps    *bool    `toml:"elide_timestamps"`
	ElideConstants     *bool    `toml:"elide_constants"`
	GroupTuples        *bool    `toml:"group_tuples"`
	MaxTupleSize       *int     `toml:"max_tuple_size"`
	MaxTableColumns    *int     `toml:"max_table_columns"`
	ElideMostlyZeroPct *float64 `toml:"elide_mostly_zero_pct"`
	PivotKeyValue      *bool    `toml:"pivot_key_value"`
	WideTableThreshold *int     `toml:"wide_table_threshold"`
	WideTableFormat    *string  `toml:"wide_table_format"`
}

// ProfileSet is a loaded profiles document: name -> Profile.
type ProfileSet map[string]*Profile

// LoadProfiles decodes a TOML document of named profiles.
func LoadProfiles(data []byte) (ProfileSet, error) {
	var set ProfileSet
	if _, err := toml.Decode(string(data), &set); err != nil {
		return nil, cerrors.Wrap(cerrors.BadConfig, "malformed heuristic profiles document", err)
	}
	return set, nil
}

// Names returns the set's profile names.
func (s ProfileSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	return names
}

// Resolve walks name's Extends chain (base first) and merges each
// profile on top of the last, then merges the result onto Defaults(),
// returning a fully-resolved Heuristics. A cycle in Extends is a
// BadConfig error.
func (s ProfileSet) Resolve(name string) (Heuristics, error) {
	chain, err := s.extendsChain(name, map[string]bool{})
	if err != nil {
		return Heuristics{}, err
	}

	h := Defaults()
	for _, p := range chain {
		applyProfile(&h, p)
	}
	return h, nil
}

// extendsChain returns the profile chain for name in base-to-derived
// order (name last).
func (s ProfileSet) extendsChain(name string, visiting map[string]bool) ([]*Profile, error) {
	p, ok := s[name]
	if !ok {
		return nil, cerrors.New(cerrors.BadConfig, fmt.Sprintf("unknown heuristic profile %q", name))
	}
	if visiting[name] {
		return nil, cerrors.New(cerrors.BadConfig, fmt.Sprintf("heuristic profile %q has a circular extends chain", name))
	}
	visiting[name] = true

	var chain []*Profile
	if p.Extends != nil && *p.Extends != "" {
		base, err := s.extendsChain(*p.Extends, visiting)
		if err != nil {
			return nil, err
		}
		chain = append(chain, base...)
	}
	return append(chain, p), nil
}

// applyProfile merges the set fields of p onto h in place.
func applyProfile(h *Heuristics, p *Profile) {
	if p.ElideAllZero != nil {
		h.ElideAllZero = *p.ElideAllZero
	}
	if p.ElideAllNull != nil {
		h.ElideAllNull = *p.ElideAllNull
	}
	if p.ElideTimestamps != nil {
		h.ElideTimestamps = *p.ElideTimestamps
	}
	if p.ElideConstants != nil {
		h.ElideConstants = *p.ElideConstants
	}
	if p.GroupTuples != nil {
		h.GroupTuples = *p.GroupTuples
	}
	if p.MaxTupleSize != nil {
		h.MaxTupleSize = *p.MaxTupleSize
	}
	if p.MaxTableColumns != nil {
		h.MaxTableColumns = *p.MaxTableColumns
	}
	if p.ElideMostlyZeroPct != nil {
		h.ElideMostlyZeroPct = *p.ElideMostlyZeroPct
	}
	if p.PivotKeyValue != nil {
		h.PivotKeyValue = *p.PivotKeyValue
	}
	if p.WideTableThreshold != nil {
		h.WideTableThreshold = *p.WideTableThreshold
	}
	if p.WideTableFormat != nil {
		h.WideTableFormat = *p.WideTableFormat
	}
}
