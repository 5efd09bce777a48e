package injector

import "time"

// Option configures an Injector.
type Option func(*OptionHolder)

// WithConfigPath sets the policy table location.
func WithConfigPath(path string) Option {
	return func(o *OptionHolder) {
		o.configPath = path
	}
}

// WithArtifactPath sets the built HTML file to mutate.
func WithArtifactPath(path string) Option {
	return func(o *OptionHolder) {
		o.artifactPath = path
	}
}

// WithEnvironment sets the active environment used for policy lookup.
func WithEnvironment(environment string) Option {
	return func(o *OptionHolder) {
		o.environment = environment
	}
}

// WithEscape enables HTML attribute escaping of the policy before it is
// embedded. Off by default: the policy is embedded verbatim.
func WithEscape(enabled bool) Option {
	return func(o *OptionHolder) {
		o.escape = enabled
	}
}

// WithDryRun reports what would be injected without touching the artifact.
func WithDryRun(enabled bool) Option {
	return func(o *OptionHolder) {
		o.dryRun = enabled
	}
}

// WithArtifactWait waits up to timeout for the build to produce the
// artifact, retrying the read with backoff. Zero disables waiting.
func WithArtifactWait(timeout time.Duration) Option {
	return func(o *OptionHolder) {
		o.artifactWait = timeout
	}
}

// OptionHolder holds configuration options.
type OptionHolder struct {
	configPath   string
	artifactPath string
	environment  string
	artifactWait time.Duration
	escape       bool
	dryRun       bool
}

// Status values reported by Inject.
const (
	StatusInjected       = "injected"
	StatusAlreadyPresent = "already-present"
	StatusDryRun         = "dry-run"
)

// Result reports the outcome of a single injection run. Environment and
// Policy are set unless the artifact already carried a policy.
type Result struct {
	Status      string `json:"status"`
	Environment string `json:"environment,omitempty"`
	Policy      string `json:"policy,omitempty"`
}
