package config

import "encoding/json"

// ToolSelector is a server's "tools" field: either an explicit list of
// tool names/glob patterns, or the literal string "*" meaning every
// tool (spec.md §6: `"tools": ["tool",...] | "*"`).
type ToolSelector []string

// UnmarshalJSON accepts either a JSON array of strings or the bare
// string "*".
func (ts *ToolSelector) UnmarshalJSON(data []byte) error {
	var wildcard string
	if err := json.Unmarshal(data, &wildcard); err == nil {
		*ts = ToolSelector{wildcard}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*ts = ToolSelector(list)
	return nil
}

// MatchesAll reports whether the selector selects every tool.
func (ts ToolSelector) MatchesAll() bool {
	return len(ts) == 0 || (len(ts) == 1 && ts[0] == "*")
}

// GlobalConfig holds the proxy-wide settings of spec.md §6's multi-upstream
// config file schema.
type GlobalConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	PrefixTools    bool   `json:"prefix_tools"`
	MetricsEnabled bool   `json:"metrics_enabled"`
	MetricsPort    int    `json:"metrics_port"`
}

// ServerConfig holds one upstream's connection and condensing policy.
// Tools nil or containing the single entry "*" means "all tools" (spec.md
// §6: `"tools": ["tool",...] | "*"`).
type ServerConfig struct {
	URL               string                    `json:"url"`
	Tools             ToolSelector              `json:"tools,omitempty"`
	Headers           map[string]string         `json:"headers,omitempty"`
	ForwardHeaders    map[string]string         `json:"forward_headers,omitempty"`
	Condense          bool                      `json:"condense"`
	TOONOnlyTools     []string                  `json:"toon_only_tools,omitempty"`
	TOONFallback      bool                      `json:"toon_fallback"`
	MinTokenThreshold int                       `json:"min_token_threshold"`
	RevertIfLarger    bool                      `json:"revert_if_larger"`
	MaxTokenLimit     int                       `json:"max_token_limit"`
	ToolTokenLimits   map[string]int            `json:"tool_token_limits,omitempty"`
	Heuristics        map[string]any            `json:"heuristics,omitempty"`
	ToolHeuristics    map[string]map[string]any `json:"tool_heuristics,omitempty"`
	Profile           string                    `json:"profile,omitempty"`
	FormatHint        string                    `json:"format_hint,omitempty"`
	ToolFormatHints   map[string]string         `json:"tool_format_hints,omitempty"`
}

// ProxyConfig is the fully-decoded multi-upstream configuration file.
type ProxyConfig struct {
	Global  GlobalConfig            `json:"global"`
	Servers map[string]*ServerConfig `json:"servers"`
}

