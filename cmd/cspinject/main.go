// Package main implements the cspinject CLI, a post-build step that injects
// a Content-Security-Policy meta tag into a built HTML artifact.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/constants"
	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/injector"
	"github.com/sameert-iprogrammer/ipro-csp-demo/pkg/policy"
)

var (
	configPath   = flag.String("config", constants.DefaultConfigPath, "Policy table path, JSON or YAML")
	artifactPath = flag.String("artifact", constants.DefaultArtifactPath, "Built HTML file to mutate in place")
	environment  = flag.String("env", "", "Active environment (or set CSP_ENV; defaults to prod)")
	escape       = flag.Bool("escape", false, "HTML-escape the policy before embedding it")
	dryRun       = flag.Bool("dry-run", false, "Report what would be injected without writing")
	waitArtifact = flag.Duration("wait-artifact", 0, "Wait up to this long for the build to produce the artifact (0 disables)")
	printPolicy  = flag.Bool("print-policy", false, "Print the resolved policy and exit")
	initTable    = flag.Bool("init", false, "Write a starter policy table to -config and exit")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("cspinject v1.0.0")
		return
	}

	// Configure logging
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	// Resolve the environment once here; the injector never reads globals
	if *environment == "" {
		*environment = os.Getenv(constants.EnvVar)
	}
	if *environment == "" {
		*environment = constants.DefaultEnvironment
	}

	if *initTable {
		if err := policy.WriteStarter(*configPath); err != nil {
			fail(logger, err)
		}
		fmt.Printf("%s wrote starter policy table to %s\n", color.GreenString("✓"), *configPath)
		return
	}

	if *printPolicy {
		table, err := policy.Load(*configPath)
		if err != nil {
			fail(logger, err)
		}
		pol, err := table.Resolve(*environment)
		if err != nil {
			fail(logger, err)
		}
		fmt.Println(pol)
		return
	}

	inj := injector.NewWithLogger(logger,
		injector.WithConfigPath(*configPath),
		injector.WithArtifactPath(*artifactPath),
		injector.WithEnvironment(*environment),
		injector.WithEscape(*escape),
		injector.WithDryRun(*dryRun),
		injector.WithArtifactWait(*waitArtifact),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *waitArtifact+time.Minute)
	defer cancel()

	result, err := inj.Inject(ctx)
	if err != nil {
		fail(logger, err)
	}

	printResult(result, *artifactPath)
}

func fail(logger *slog.Logger, err error) {
	logger.Error("injection failed", "error", err)
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("✗"), err)
	os.Exit(1)
}

func printResult(result *injector.Result, artifact string) {
	switch result.Status {
	case injector.StatusInjected:
		fmt.Printf("%s injected %s policy into %s\n",
			color.GreenString("✓"), result.Environment, artifact)
	case injector.StatusAlreadyPresent:
		fmt.Printf("%s %s already carries a Content-Security-Policy meta tag\n",
			color.YellowString("•"), artifact)
	case injector.StatusDryRun:
		fmt.Printf("%s dry run: would inject %s policy into %s\n",
			color.CyanString("○"), result.Environment, artifact)
		fmt.Printf("  %s\n", result.Policy)
	}
}
