// Package injector inserts a Content-Security-Policy meta tag into a built
// HTML artifact as a post-build step. The artifact is treated as opaque
// text: the injector anchors on the literal opening head tag and never
// parses markup.
package injector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/constants"
	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/policy"
)

// headTag is the literal insertion anchor. A head tag carrying attributes
// will not match; the bundler outputs this tool targets do not emit one.
const headTag = "<head>"

// attrEscaper covers the characters that can break out of a double-quoted
// HTML attribute. Applied only when escaping is enabled.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// Injector mutates one build artifact per invocation.
type Injector struct {
	logger       *slog.Logger
	configPath   string
	artifactPath string
	environment  string
	artifactWait time.Duration
	escape       bool
	dryRun       bool
}

// New creates an Injector with the default logger.
func New(opts ...Option) *Injector {
	return NewWithLogger(slog.Default(), opts...)
}

// NewWithLogger creates an Injector with the given logger and options.
func NewWithLogger(logger *slog.Logger, opts ...Option) *Injector {
	optHolder := &OptionHolder{
		configPath:   constants.DefaultConfigPath,
		artifactPath: constants.DefaultArtifactPath,
		environment:  constants.DefaultEnvironment,
	}
	for _, opt := range opts {
		opt(optHolder)
	}

	return &Injector{
		logger:       logger,
		configPath:   optHolder.configPath,
		artifactPath: optHolder.artifactPath,
		environment:  optHolder.environment,
		artifactWait: optHolder.artifactWait,
		escape:       optHolder.escape,
		dryRun:       optHolder.dryRun,
	}
}

// Inject runs the full sequence: load the policy table, resolve the policy
// for the active environment, read the artifact, and insert the meta tag
// after the opening head tag unless one is already present. The artifact is
// written back in place. Inject is idempotent: a second run reports
// already-present and leaves the file untouched.
func (inj *Injector) Inject(ctx context.Context) (*Result, error) {
	table, err := policy.Load(inj.configPath)
	if err != nil {
		return nil, err
	}

	pol, err := table.Resolve(inj.environment)
	if err != nil {
		return nil, err
	}
	inj.logger.Debug("resolved policy", "environment", inj.environment, "policy", pol)

	html, err := inj.readArtifact(ctx)
	if err != nil {
		return nil, err
	}

	if strings.Contains(html, constants.Marker) {
		inj.logger.Debug("artifact already carries a policy", "artifact", inj.artifactPath)
		return &Result{Status: StatusAlreadyPresent}, nil
	}

	if !strings.Contains(html, headTag) {
		return nil, fmt.Errorf("%w: %s", ErrHeadMissing, inj.artifactPath)
	}

	tag := inj.metaTag(pol)
	mutated := strings.Replace(html, headTag, headTag+"\n  "+tag+"\n  ", 1)

	if inj.dryRun {
		inj.logger.Debug("dry run, artifact untouched", "artifact", inj.artifactPath)
		return &Result{Status: StatusDryRun, Environment: inj.environment, Policy: pol}, nil
	}

	if err := os.WriteFile(inj.artifactPath, []byte(mutated), 0o644); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactWrite, inj.artifactPath, err)
	}
	inj.logger.Debug("injected policy", "artifact", inj.artifactPath, "bytes", len(mutated))

	return &Result{Status: StatusInjected, Environment: inj.environment, Policy: pol}, nil
}

// metaTag renders the meta element embedding the policy. Without escaping
// the policy goes in verbatim, so a policy containing a double quote breaks
// the generated tag.
func (inj *Injector) metaTag(pol string) string {
	if inj.escape {
		pol = attrEscaper.Replace(pol)
	}
	return fmt.Sprintf(`<meta http-equiv="Content-Security-Policy" content="%s">`, pol)
}

// readArtifact reads the built HTML file. With a wait budget configured the
// read is retried with exponential backoff until the build produces the file
// or the budget is spent.
func (inj *Injector) readArtifact(ctx context.Context) (string, error) {
	if inj.artifactWait <= 0 {
		data, err := os.ReadFile(inj.artifactPath)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrArtifactRead, inj.artifactPath, err)
		}
		return string(data), nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, inj.artifactWait)
	defer cancel()

	var data []byte
	err := retry.Do(
		func() error {
			var err error
			data, err = os.ReadFile(inj.artifactPath)
			return err
		},
		retry.Context(waitCtx),
		retry.Attempts(0), // bounded by the wait budget, not a count
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			inj.logger.Debug("waiting for build artifact",
				"attempt", n+1,
				"artifact", inj.artifactPath,
				"error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrArtifactRead, inj.artifactPath, err)
	}
	return string(data), nil
}
