package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/constants"
)

// Directive renders a single CSP directive with its allowed sources.
// Valueless directives like upgrade-insecure-requests take no sources.
func Directive(name string, sources ...string) string {
	if len(sources) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(sources, " "))
}

// Build joins directives into a single policy string.
func Build(directives ...string) string {
	return strings.Join(directives, "; ")
}

// basePolicy returns the directives shared by every environment.
func basePolicy() []string {
	var directives []string

	directives = append(directives, Directive("default-src", "'self'"))

	// Font and image sources commonly served from CDNs or inlined as data URIs
	directives = append(directives,
		Directive("img-src", "'self'", "data:"),
		Directive("font-src", "'self'", "https://fonts.gstatic.com", "data:"),
	)

	directives = append(directives,
		Directive("object-src", "'none'"),
		Directive("base-uri", "'self'"),
		Directive("form-action", "'self'"),
	)
	return directives
}

// DefaultTable returns a starter policy table suitable for scaffolding a new
// project configuration. The prod entry doubles as the fallback.
func DefaultTable() Table {
	prod := basePolicy()
	prod = append(prod,
		Directive("script-src", "'self'"),
		Directive("style-src", "'self'", "https://fonts.googleapis.com"),
		Directive("connect-src", "'self'"),
		Directive("upgrade-insecure-requests"),
	)

	staging := basePolicy()
	staging = append(staging,
		Directive("script-src", "'self'"),
		Directive("style-src", "'self'", "https://fonts.googleapis.com"),
		Directive("connect-src", "'self'"),
	)

	// Dev bundlers need eval for source maps and a websocket for hot reload
	dev := basePolicy()
	dev = append(dev,
		Directive("script-src", "'self'", "'unsafe-eval'"),
		Directive("style-src", "'self'", "'unsafe-inline'", "https://fonts.googleapis.com"),
		Directive("connect-src", "'self'", "ws:"),
	)

	prodPolicy := Build(prod...)
	return Table{
		"prod":                prodPolicy,
		"staging":             Build(staging...),
		"dev":                 Build(dev...),
		constants.FallbackKey: prodPolicy,
	}
}

// WriteStarter materializes DefaultTable at path as indented JSON. It refuses
// to clobber an existing table.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("policy table already exists: %s", path)
	}

	data, err := json.MarshalIndent(DefaultTable(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding starter policy table: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing starter policy table %s: %w", path, err)
	}
	return nil
}
