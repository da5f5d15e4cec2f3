package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Environment variable names for single-upstream mode (spec §6: "if no
// config file is given, a single upstream is configured from
// CONDENSER_* environment variables").
const (
	EnvUpstreamURL       = "CONDENSER_UPSTREAM_URL"
	EnvHost              = "CONDENSER_HOST"
	EnvPort              = "CONDENSER_PORT"
	EnvPrefixTools       = "CONDENSER_PREFIX_TOOLS"
	EnvMetricsEnabled    = "CONDENSER_METRICS_ENABLED"
	EnvMetricsPort       = "CONDENSER_METRICS_PORT"
	EnvCondense          = "CONDENSER_CONDENSE"
	EnvCondenseTools     = "CONDENSER_CONDENSE_TOOLS"
	EnvTOONOnlyTools     = "CONDENSER_TOON_ONLY_TOOLS"
	EnvTOONFallback      = "CONDENSER_TOON_FALLBACK"
	EnvMinTokenThreshold = "CONDENSER_MIN_TOKEN_THRESHOLD"
	EnvRevertIfLarger    = "CONDENSER_REVERT_IF_LARGER"
	EnvMaxTokenLimit     = "CONDENSER_MAX_TOKEN_LIMIT"
	EnvToolTokenLimits   = "CONDENSER_TOOL_TOKEN_LIMITS"
	EnvHeuristics        = "CONDENSER_HEURISTICS"
	EnvProfile           = "CONDENSER_PROFILE"
	EnvFormatHint        = "CONDENSER_FORMAT_HINT"
	EnvUpstreamHeaders   = "CONDENSER_UPSTREAM_HEADERS"
)

// buildEnvMap reads CONDENSER_* environment variables and returns a flat
// map suitable for use with a koanf confmap provider. Only non-empty env
// vars that parse successfully are included; an invalid numeric/boolean
// value is silently skipped rather than failing single-upstream startup.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvUpstreamURL); v != "" {
		m["url"] = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		m["host"] = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["port"] = n
		}
	}
	if v := os.Getenv(EnvPrefixTools); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["prefix_tools"] = b
		}
	}
	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["metrics_enabled"] = b
		}
	}
	if v := os.Getenv(EnvMetricsPort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["metrics_port"] = n
		}
	}
	if v := os.Getenv(EnvCondense); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["condense"] = b
		}
	}
	if v := os.Getenv(EnvCondenseTools); v != "" && v != "*" {
		m["tools"] = splitCSV(v)
	}
	if v := os.Getenv(EnvTOONOnlyTools); v != "" {
		m["toon_only_tools"] = splitCSV(v)
	}
	if v := os.Getenv(EnvTOONFallback); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["toon_fallback"] = b
		}
	}
	if v := os.Getenv(EnvMinTokenThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["min_token_threshold"] = n
		}
	}
	if v := os.Getenv(EnvRevertIfLarger); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["revert_if_larger"] = b
		}
	}
	if v := os.Getenv(EnvMaxTokenLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["max_token_limit"] = n
		}
	}
	if v := os.Getenv(EnvToolTokenLimits); v != "" {
		if limits := parseIntPairs(v); len(limits) > 0 {
			m["tool_token_limits"] = limits
		}
	}
	if v := os.Getenv(EnvHeuristics); v != "" {
		if h := parseHeuristicPairs(v); len(h) > 0 {
			m["heuristics"] = h
		}
	}
	if v := os.Getenv(EnvProfile); v != "" {
		m["profile"] = v
	}
	if v := os.Getenv(EnvFormatHint); v != "" {
		m["format_hint"] = v
	}
	if v := os.Getenv(EnvUpstreamHeaders); v != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(v), &headers); err == nil {
			m["headers"] = headers
		}
	}

	return m
}

// splitCSV splits a comma-separated env var into trimmed, non-empty
// entries (config.py's CONDENSE_TOOLS/TOON_ONLY_TOOLS format).
func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseIntPairs parses comma-separated "name:limit" pairs into a map,
// skipping malformed entries (config.py's TOOL_TOKEN_LIMITS format).
func parseIntPairs(v string) map[string]int {
	out := make(map[string]int)
	for _, pair := range strings.Split(v, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		out[strings.TrimSpace(name)] = n
	}
	return out
}

// parseHeuristicPairs parses comma-separated "name:value" pairs into a
// map, decoding each value as an int, then a bool, falling back to the
// raw string (config.py's CONDENSER_HEURISTICS format).
func parseHeuristicPairs(v string) map[string]any {
	out := make(map[string]any)
	for _, pair := range strings.Split(v, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		name, val = strings.TrimSpace(name), strings.TrimSpace(val)
		if n, err := strconv.Atoi(val); err == nil {
			out[name] = n
		} else if b, err := strconv.ParseBool(val); err == nil {
			out[name] = b
		} else {
			out[name] = val
		}
	}
	return out
}
