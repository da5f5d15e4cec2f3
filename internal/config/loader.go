package config

import (
	"encoding/json"
	"fmt"
	"os"

	koanf "github.com/knadh/koanf/v2"
	"github.com/knadh/koanf/providers/confmap"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
)

// unmarshalConf tags struct fields with "json" rather than koanf's
// default "koanf" tag, so ServerConfig/GlobalConfig need no duplicate
// struct tags for the two decode paths (JSON file vs. env-var map).
var unmarshalConf = koanf.UnmarshalConf{Tag: "json"}

// Load resolves the proxy configuration. If path is non-empty, it reads
// and validates a multi-upstream JSON config file (spec §6). If path is
// empty, it builds a single-upstream config named "default" from
// CONDENSER_* environment variables.
func Load(path string) (*ProxyConfig, error) {
	if path == "" {
		return loadFromEnv()
	}
	return loadFromFile(path)
}

func loadFromFile(path string) (*ProxyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.BadConfig, fmt.Sprintf("read config %s", path), err)
	}

	if err := ValidateProxyConfigJSON(data); err != nil {
		return nil, err
	}

	// Schema validation above already confirmed the document's shape.
	// Servers decode one at a time, each into a ServerConfig pre-seeded
	// with spec defaults (condense/toon_fallback default true,
	// config.py:26-27), so json.Unmarshal only overwrites the fields the
	// document actually sets and an omitted key keeps its default.
	var raw rawProxyConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, cerrors.Wrap(cerrors.BadConfig, fmt.Sprintf("decode config %s", path), err)
	}

	servers := make(map[string]*ServerConfig, len(raw.Servers))
	for name, msg := range raw.Servers {
		sc := ServerConfig{Condense: true, TOONFallback: true}
		if err := json.Unmarshal(msg, &sc); err != nil {
			return nil, cerrors.Wrap(cerrors.BadConfig, fmt.Sprintf("decode config %s: server %q", path, name), err)
		}
		servers[name] = &sc
	}

	cfg := &ProxyConfig{Global: raw.Global, Servers: servers}
	if err := validateServers(cfg.Servers); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rawProxyConfig defers each server's decode so per-server defaults can
// be seeded before it runs.
type rawProxyConfig struct {
	Global  GlobalConfig               `json:"global"`
	Servers map[string]json.RawMessage `json:"servers"`
}

// loadFromEnv builds a single-upstream ProxyConfig with one server
// named "default" from CONDENSER_* environment variables.
func loadFromEnv() (*ProxyConfig, error) {
	envMap := buildEnvMap()
	if envMap["url"] == nil || envMap["url"] == "" {
		return nil, cerrors.New(cerrors.BadConfig,
			fmt.Sprintf("%s is required in single-upstream mode", EnvUpstreamURL))
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
		return nil, cerrors.Wrap(cerrors.BadConfig, "load environment config", err)
	}

	// condense/toon_fallback default true (config.py:26-27, spec §6);
	// pre-seeding the struct before UnmarshalWithConf lets an absent env
	// var keep the default, mirroring global's Host/Port seeding below.
	sc := ServerConfig{Condense: true, TOONFallback: true}
	if err := k.UnmarshalWithConf("", &sc, unmarshalConf); err != nil {
		return nil, cerrors.Wrap(cerrors.BadConfig, "decode environment config", err)
	}

	global := GlobalConfig{Host: "0.0.0.0", Port: 8080}
	if err := k.UnmarshalWithConf("", &global, unmarshalConf); err != nil {
		return nil, cerrors.Wrap(cerrors.BadConfig, "decode environment config", err)
	}

	return &ProxyConfig{
		Global:  global,
		Servers: map[string]*ServerConfig{"default": &sc},
	}, nil
}

// validateServers enforces the fatal-at-startup checks spec §6/§7
// assign to config loading: every server needs a URL.
func validateServers(servers map[string]*ServerConfig) error {
	for name, sc := range servers {
		if sc.URL == "" {
			return cerrors.New(cerrors.BadConfig, fmt.Sprintf("server %q is missing a url", name))
		}
	}
	return nil
}
