package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	old := osLookupEnv
	osLookupEnv = func(string) (string, bool) { return "", false }
	defer func() { osLookupEnv = old }()

	result, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.Config.MCPPort != 5178 {
		t.Fatalf("expected default port 5178, got %d", result.Config.MCPPort)
	}
	if len(result.EnvOverrides) != 0 {
		t.Fatalf("expected no overrides, got %+v", result.EnvOverrides)
	}
}

func TestLoadRecordsEnvOverride(t *testing.T) {
	old := osLookupEnv
	osLookupEnv = func(name string) (string, bool) {
		if name == "ARCHLENS_MCP_PORT" {
			return "9000", true
		}
		return "", false
	}
	defer func() { osLookupEnv = old }()

	result, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	found := false
	for _, ov := range result.EnvOverrides {
		if ov.EnvVar == "ARCHLENS_MCP_PORT" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ARCHLENS_MCP_PORT override recorded, got %+v", result.EnvOverrides)
	}
}
