// Package policy loads, resolves, and assembles Content Security Policy
// tables for the cspinject tool.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/constants"
)

var (
	// ErrConfigRead indicates the policy table file is missing or unreadable.
	ErrConfigRead = errors.New("policy table unreadable")

	// ErrConfigParse indicates the policy table contents are not a flat
	// string-to-string mapping.
	ErrConfigParse = errors.New("policy table malformed")

	// ErrPolicyResolution indicates neither the active environment nor the
	// fallback key exists in the table.
	ErrPolicyResolution = errors.New("no policy for environment")
)

// Table maps environment names to CSP directive strings. Keys are
// unconstrained; by convention the table carries a "default" fallback entry.
type Table map[string]string

// Load reads a policy table from path. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. The table is immutable for the
// rest of the run.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
	}

	var table Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
		}
	default:
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
		}
	}
	return table, nil
}

// Resolve returns the policy string for environment, falling back to the
// "default" entry. A table carrying neither key is a configuration error,
// never a silent empty policy.
func (t Table) Resolve(environment string) (string, error) {
	if p, ok := t[environment]; ok {
		return p, nil
	}
	if p, ok := t[constants.FallbackKey]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (no %q fallback either)",
		ErrPolicyResolution, environment, constants.FallbackKey)
}
