package config

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
)

// proxyConfigSchema is the JSON Schema for the multi-upstream config file
// (spec.md §6). It is built as a *jsonschema.Schema literal rather than
// generated (magicschema's generator in the examples builds schemas FROM
// yaml/go-struct tags, which this config does not use) so the schema can
// state the exact shape spec.md §6 documents.
var proxyConfigSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"servers"},
	Properties: map[string]*jsonschema.Schema{
		"global": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"host":            {Type: "string"},
				"port":            {Type: "integer"},
				"prefix_tools":    {Type: "boolean"},
				"metrics_enabled": {Type: "boolean"},
				"metrics_port":    {Type: "integer"},
			},
		},
		"servers": {
			Type: "object",
			AdditionalProperties: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"url"},
				Properties: map[string]*jsonschema.Schema{
					"url":                 {Type: "string"},
					"tools":               {Types: []string{"array", "string"}},
					"headers":             {Type: "object"},
					"forward_headers":     {Type: "object"},
					"condense":            {Type: "boolean"},
					"toon_only_tools":     {Type: "array"},
					"toon_fallback":       {Type: "boolean"},
					"min_token_threshold": {Type: "integer"},
					"revert_if_larger":    {Type: "boolean"},
					"max_token_limit":     {Type: "integer"},
					"tool_token_limits":   {Type: "object"},
					"heuristics":          {Type: "object"},
					"tool_heuristics":     {Type: "object"},
					"profile":             {Type: "string"},
					"format_hint":         {Type: "string"},
					"tool_format_hints":   {Type: "object"},
				},
			},
		},
	},
}

var resolvedProxyConfigSchema *jsonschema.Resolved

func init() {
	r, err := proxyConfigSchema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("config: invalid embedded proxy config schema: %v", err))
	}
	resolvedProxyConfigSchema = r
}

// ValidateProxyConfigJSON validates raw JSON config bytes against the
// proxy config schema before it is decoded into a typed ProxyConfig,
// returning a cerrors.BadConfig error naming every violation.
func ValidateProxyConfigJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return cerrors.New(cerrors.BadConfig, fmt.Sprintf("malformed config JSON: %v", err))
	}

	if err := resolvedProxyConfigSchema.Validate(doc); err != nil {
		return cerrors.New(cerrors.BadConfig, fmt.Sprintf("config schema validation failed: %v", err))
	}

	servers, _ := doc.(map[string]any)["servers"].(map[string]any)
	if len(servers) == 0 {
		return cerrors.New(cerrors.BadConfig, "config must declare at least one server")
	}

	return nil
}
