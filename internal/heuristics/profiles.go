package heuristics

import _ "embed"

//go:embed profiles.toml
var embeddedProfilesDoc []byte

// DefaultProfiles returns the built-in named heuristic presets shipped
// with the binary ("default", "aggressive", "conservative", "minimal"),
// the set `mcp-condenser profiles list|show` inspects. No other profiles
// document is loaded.
func DefaultProfiles() ProfileSet {
	set, err := LoadProfiles(embeddedProfilesDoc)
	if err != nil {
		panic("heuristics: embedded profiles.toml is malformed: " + err.Error())
	}
	return set
}
