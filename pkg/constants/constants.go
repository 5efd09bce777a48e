// Package constants defines shared defaults for the cspinject tool.
package constants

// EnvVar names the process-wide variable that selects the active environment.
const EnvVar = "CSP_ENV"

// DefaultEnvironment is assumed when EnvVar is unset or empty.
const DefaultEnvironment = "prod"

// FallbackKey is the conventional fallback entry in a policy table.
const FallbackKey = "default"

// Marker is the substring whose presence in an artifact means a policy meta
// tag was already injected. Matched literally, never parsed.
const Marker = "Content-Security-Policy"

// DefaultConfigPath is the policy table location relative to the build root.
const DefaultConfigPath = "csp.json"

// DefaultArtifactPath is the conventional bundler output file.
const DefaultArtifactPath = "dist/index.html"
