// Package config loads archlens' runtime configuration from environment
// variables (the ARCHLENS_* surface named by the external interfaces) with
// viper, layered over a TOML defaults file when present.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every tunable of the analysis pipeline and server.
type Config struct {
	MCPPort               int     `mapstructure:"mcp_port"`
	TimeoutMs             int     `mapstructure:"timeout_ms"`
	CacheTTLMs            int     `mapstructure:"cache_ttl_ms"`
	CacheMaxEntries       int     `mapstructure:"cache_max_entries"`
	CacheMaxBytes         int64   `mapstructure:"cache_max_bytes"`
	ThComplexityAvg       float64 `mapstructure:"th_complexity_avg"`
	ThCouplingIndex       float64 `mapstructure:"th_coupling_index"`
	ThCohesionIndex       float64 `mapstructure:"th_cohesion_index"`
	ThLayerImbalancePct   int     `mapstructure:"th_layer_imbalance_pct"`
	ThHighSevCats         int     `mapstructure:"th_high_sev_cats"`
	TestDelayMs           int     `mapstructure:"test_delay_ms"`
	Workers               int     `mapstructure:"workers"`
}

// EnvOverride records that a config field's value came from the
// environment rather than a default or config file.
type EnvOverride struct {
	EnvVar string
	Path   string
	Value  string
}

// LoadResult is the outcome of Load: the resolved config plus a record of
// which fields were overridden by environment variables.
type LoadResult struct {
	Config       Config
	EnvOverrides []EnvOverride
	UsedDefaults bool
}

var defaults = Config{
	MCPPort:             5178,
	TimeoutMs:           60000,
	CacheTTLMs:          120000,
	CacheMaxEntries:     0,
	CacheMaxBytes:       0,
	ThComplexityAvg:     8.0,
	ThCouplingIndex:     0.7,
	ThCohesionIndex:     0.3,
	ThLayerImbalancePct: 60,
	ThHighSevCats:       2,
	TestDelayMs:         0,
	Workers:             0,
}

var envVars = map[string]string{
	"mcp_port":               "ARCHLENS_MCP_PORT",
	"timeout_ms":             "ARCHLENS_TIMEOUT_MS",
	"cache_ttl_ms":           "ARCHLENS_CACHE_TTL_MS",
	"cache_max_entries":      "ARCHLENS_CACHE_MAX_ENTRIES",
	"cache_max_bytes":        "ARCHLENS_CACHE_MAX_BYTES",
	"th_complexity_avg":      "ARCHLENS_TH_COMPLEXITY_AVG",
	"th_coupling_index":      "ARCHLENS_TH_COUPLING_INDEX",
	"th_cohesion_index":      "ARCHLENS_TH_COHESION_INDEX",
	"th_layer_imbalance_pct": "ARCHLENS_TH_LAYER_IMBALANCE_PCT",
	"th_high_sev_cats":       "ARCHLENS_TH_HIGH_SEV_CATS",
	"test_delay_ms":          "ARCHLENS_TEST_DELAY_MS",
	"workers":                "ARCHLENS_WORKERS",
}

// Load reads archlens configuration from environment variables, optionally
// layered over a TOML file at configPath ("" skips the file). Every field
// read from its ARCHLENS_* environment variable is recorded as an override.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("toml")

	for field, val := range structToMap(defaults) {
		v.SetDefault(field, val)
	}

	usedDefaults := true
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err == nil {
			usedDefaults = false
		}
	}

	var overrides []EnvOverride
	for field, envVar := range envVars {
		v.BindEnv(field, envVar)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	for field, envVar := range envVars {
		raw, ok := lookupEnv(envVar)
		if !ok {
			continue
		}
		overrides = append(overrides, EnvOverride{EnvVar: envVar, Path: field, Value: raw})
	}

	return &LoadResult{Config: cfg, EnvOverrides: overrides, UsedDefaults: usedDefaults}, nil
}

func structToMap(c Config) map[string]interface{} {
	return map[string]interface{}{
		"mcp_port":               c.MCPPort,
		"timeout_ms":             c.TimeoutMs,
		"cache_ttl_ms":           c.CacheTTLMs,
		"cache_max_entries":      c.CacheMaxEntries,
		"cache_max_bytes":        c.CacheMaxBytes,
		"th_complexity_avg":      c.ThComplexityAvg,
		"th_coupling_index":      c.ThCouplingIndex,
		"th_cohesion_index":      c.ThCohesionIndex,
		"th_layer_imbalance_pct": c.ThLayerImbalancePct,
		"th_high_sev_cats":       c.ThHighSevCats,
		"test_delay_ms":          c.TestDelayMs,
		"workers":                c.Workers,
	}
}

// Default returns the built-in defaults, useful for tests that need a
// Config without touching the environment.
func Default() Config {
	return defaults
}

// lookupEnv is split out so tests can exercise override detection without
// needing a real process environment.
func lookupEnv(name string) (string, bool) {
	return osLookupEnv(name)
}
