package config

import (
	"github.com/teriyakichild/mcp-condenser/internal/governor"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
)

// EffectiveHeuristics resolves sc's heuristics for toolName, applying
// the override precedence of spec §3: the named profile (if any) over
// Defaults(), then sc.Heuristics, then sc.ToolHeuristics[toolName].
func EffectiveHeuristics(sc *ServerConfig, toolName string, profiles heuristics.ProfileSet) (heuristics.Heuristics, error) {
	h := heuristics.Defaults()
	if sc.Profile != "" {
		resolved, err := profiles.Resolve(sc.Profile)
		if err != nil {
			return heuristics.Heuristics{}, err
		}
		h = resolved
	}

	if len(sc.Heuristics) > 0 {
		overridden, err := heuristics.Override(h, sc.Heuristics)
		if err != nil {
			return heuristics.Heuristics{}, err
		}
		h = overridden
	}

	if perTool, ok := sc.ToolHeuristics[toolName]; ok {
		overridden, err := heuristics.Override(h, perTool)
		if err != nil {
			return heuristics.Heuristics{}, err
		}
		h = overridden
	}

	return h, nil
}

// FormatHintFor resolves sc's format hint for toolName: a per-tool hint
// overrides the server-wide one.
func FormatHintFor(sc *ServerConfig, toolName string) string {
	if hint, ok := sc.ToolFormatHints[toolName]; ok {
		return hint
	}
	return sc.FormatHint
}

// TokenLimitFor resolves sc's max_token_limit for toolName: a per-tool
// limit overrides the server-wide one; 0 means unbounded.
func TokenLimitFor(sc *ServerConfig, toolName string) int {
	if limit, ok := sc.ToolTokenLimits[toolName]; ok {
		return limit
	}
	return sc.MaxTokenLimit
}

// PolicyFor builds the governor.Policy for a single tool invocation on
// sc, resolving tool membership, TOON-only/fallback flags, and
// heuristics together (spec §4.7's inputs).
func PolicyFor(sc *ServerConfig, toolName string, profiles heuristics.ProfileSet) (governor.Policy, error) {
	h, err := EffectiveHeuristics(sc, toolName, profiles)
	if err != nil {
		return governor.Policy{}, err
	}

	return governor.Policy{
		InTOONOnlyTools:   MatchesTool(sc.TOONOnlyTools, toolName),
		ToolsUnset:        sc.Tools.MatchesAll(),
		InTools:           MatchesTool(sc.Tools, toolName),
		TOONFallback:      sc.TOONFallback,
		MinTokenThreshold: sc.MinTokenThreshold,
		RevertIfLarger:    sc.RevertIfLarger,
		FormatHint:        FormatHintFor(sc, toolName),
		Heuristics:        h,
	}, nil
}

// ShouldProcess reports whether toolName should be routed through the
// governor at all on sc: the server-wide master switch (spec §6
// `condense` field), independent of which mode the governor ultimately
// picks. Grounded on proxy.py's _should_process.
func ShouldProcess(sc *ServerConfig, toolName string) bool {
	if !sc.Condense {
		return false
	}
	if MatchesTool(sc.TOONOnlyTools, toolName) {
		return true
	}
	if sc.Tools.MatchesAll() || MatchesTool(sc.Tools, toolName) {
		return true
	}
	return sc.TOONFallback
}
