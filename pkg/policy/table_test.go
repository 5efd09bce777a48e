package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTable(t, "csp.json",
		`{"prod": "default-src 'self';", "default": "default-src 'none';"}`)

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := table["prod"]; got != "default-src 'self';" {
		t.Errorf("prod policy = %q, want %q", got, "default-src 'self';")
	}
	if got := table["default"]; got != "default-src 'none';" {
		t.Errorf("default policy = %q, want %q", got, "default-src 'none';")
	}
}

func TestLoadYAML(t *testing.T) {
	for _, ext := range []string{"csp.yaml", "csp.yml"} {
		t.Run(ext, func(t *testing.T) {
			path := writeTable(t, ext,
				"prod: \"default-src 'self';\"\ndefault: \"default-src 'none';\"\n")

			table, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got := table["prod"]; got != "default-src 'self';" {
				t.Errorf("prod policy = %q, want %q", got, "default-src 'self';")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrConfigRead) {
		t.Errorf("Load() error = %v, want ErrConfigRead", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{"truncated JSON", "csp.json", `{"prod": "default-src`},
		{"non-string values", "csp.json", `{"prod": 42}`},
		{"JSON array", "csp.json", `["default-src 'self';"]`},
		{"nested mapping", "csp.yaml", "prod:\n  nested: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTable(t, tt.file, tt.contents))
			if !errors.Is(err, ErrConfigParse) {
				t.Errorf("Load() error = %v, want ErrConfigParse", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	table := Table{
		"prod":    "default-src 'self';",
		"dev":     "default-src *;",
		"default": "default-src 'none';",
	}

	tests := []struct {
		name        string
		environment string
		want        string
	}{
		{"exact key", "prod", "default-src 'self';"},
		{"another exact key", "dev", "default-src *;"},
		{"unknown key falls back", "staging", "default-src 'none';"},
		{"empty key falls back", "", "default-src 'none';"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Resolve(tt.environment)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.environment, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.environment, got, tt.want)
			}
		})
	}
}

func TestResolveNoFallback(t *testing.T) {
	table := Table{"prod": "default-src 'self';"}

	_, err := table.Resolve("dev")
	if !errors.Is(err, ErrPolicyResolution) {
		t.Errorf("Resolve() error = %v, want ErrPolicyResolution", err)
	}
}
