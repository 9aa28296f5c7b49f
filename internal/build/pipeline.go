// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/featgen/featgen/internal/config"
	"github.com/featgen/featgen/internal/discovery"
	"github.com/featgen/featgen/internal/emit"
	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/internal/hook"
	"github.com/featgen/featgen/internal/validate"

	"github.com/spf13/afero"
)

type (
	// Settings are the project-level inputs of a pass.
	Settings struct {
		// FeatureRoot is the feature root relative to the project directory.
		FeatureRoot string
		// ModulePath overrides the host module path read from go.mod.
		ModulePath string
		// RegistryPath and AggregatorPath are artifact paths relative to the project directory.
		RegistryPath   string
		AggregatorPath string
		// RegistryPackage and AggregatorPackage are the artifact package clauses.
		RegistryPackage   string
		AggregatorPackage string
		// OnSuccess and OnFailure are shell snippets run after a pass.
		OnSuccess string
		OnFailure string
	}

	// Report describes a finished pass, successful or not.
	Report struct {
		// Generation is the pass number, starting at 1.
		Generation uint64
		Features   []feature.Descriptor
		// Navigation is nil unless the pass validated cleanly.
		Navigation  feature.Navigation
		Diagnostics []feature.Diagnostic
		// Written lists artifacts rewritten by this pass; Unchanged lists
		// artifacts whose bytes already matched.
		Written   []string
		Unchanged []string
		Duration  time.Duration

		started time.Time
	}

	// Pipeline runs passes for one project. Passes may be started from
	// several goroutines; the newest pass always wins and writes are serialized.
	Pipeline struct {
		projectDir string
		settings   Settings
		fs         afero.Fs
		discoverer *discovery.Discoverer
		observer   Observer
		hooks      *hook.Runner

		generation atomic.Uint64
		writeMu    sync.Mutex

		stateMu sync.Mutex
		state   State
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)
)

// WithFs sets the filesystem used for discovery and artifact writes.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithObserver registers an observer for state transitions.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithHookRunner sets the runner for the on_success and on_failure hooks.
// Without one, hooks are not run.
func WithHookRunner(r *hook.Runner) Option {
	return func(p *Pipeline) { p.hooks = r }
}

// New creates a Pipeline for the project at projectDir.
func New(projectDir string, settings Settings, opts ...Option) *Pipeline {
	if settings.FeatureRoot == "" {
		settings.FeatureRoot = config.DefaultFeatureRoot
	}
	if settings.RegistryPath == "" {
		settings.RegistryPath = config.DefaultRegistryPath
	}
	if settings.AggregatorPath == "" {
		settings.AggregatorPath = config.DefaultAggregatorPath
	}

	p := &Pipeline{
		projectDir: filepath.Clean(projectDir),
		settings:   settings,
		fs:         afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.discoverer = discovery.New(p.projectDir,
		discovery.WithFs(p.fs),
		discovery.WithFeatureRoot(settings.FeatureRoot),
		discovery.WithModulePath(settings.ModulePath),
	)
	return p
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.state
}

// Settings returns the pipeline's effective settings.
func (p *Pipeline) Settings() Settings { return p.settings }

// ArtifactPaths returns the registry and aggregator paths relative to the project directory.
func (p *Pipeline) ArtifactPaths() []string {
	return []string{filepath.ToSlash(p.settings.RegistryPath), filepath.ToSlash(p.settings.AggregatorPath)}
}

func (p *Pipeline) transition(to State) {
	p.stateMu.Lock()
	from := p.state
	p.state = to
	p.stateMu.Unlock()

	slog.Debug("pipeline transition", "from", from, "to", to)
	if p.observer != nil {
		p.observer.OnTransition(from, to)
	}
}

// fail moves through Failed back to Idle.
func (p *Pipeline) fail() {
	p.transition(StateFailed)
	p.transition(StateIdle)
}

// Run performs a full pass and writes the artifacts on success. It returns
// *Error when diagnostics contain errors, ErrSuperseded when a newer pass
// started meanwhile, or an infrastructure error. The report is returned
// alongside *Error so callers can render the diagnostics.
//
// After the pass, the on_success hook runs when artifacts were written or
// confirmed, and the on_failure hook runs when diagnostics failed the pass.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report, artifacts, err := p.evaluate(ctx)
	if err != nil {
		p.runFailureHook(ctx, report, err)
		return report, err
	}

	p.transition(StateEmitting)
	if err := p.write(report, artifacts); err != nil {
		if errors.Is(err, ErrSuperseded) {
			slog.Debug("discarding superseded pass", "generation", report.Generation)
			p.transition(StateIdle)
		} else {
			p.fail()
		}
		return report, err
	}
	p.transition(StateIdle)

	report.Duration = time.Since(report.started)
	slog.Info("featgen pass succeeded",
		"features", len(report.Features),
		"written", len(report.Written),
		"unchanged", len(report.Unchanged))

	if p.hooks != nil && p.settings.OnSuccess != "" {
		if err := p.hooks.Run(ctx, hook.EventSuccess, p.settings.OnSuccess, outcome(report, 0)); err != nil {
			return report, fmt.Errorf("after successful pass: %w", err)
		}
	}
	return report, nil
}

// Validate runs discovery and validation without emitting anything.
func (p *Pipeline) Validate(ctx context.Context) (*Report, error) {
	report, _, err := p.evaluate(ctx)
	if err == nil {
		p.transition(StateIdle)
	}
	return report, err
}

// Check runs a pass in memory and compares its output with the artifacts on
// disk. Stale or missing artifacts are reported as *DriftError.
func (p *Pipeline) Check(ctx context.Context) (*Report, error) {
	report, artifacts, err := p.evaluate(ctx)
	if err != nil {
		return report, err
	}
	p.transition(StateIdle)

	var stale []string
	for _, a := range p.artifactFiles(artifacts) {
		current, readErr := afero.ReadFile(p.fs, a.abs)
		if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
			return report, fmt.Errorf("reading %s: %w", a.rel, readErr)
		}
		if readErr != nil || !bytes.Equal(current, a.data) {
			stale = append(stale, a.rel)
		}
	}
	if len(stale) > 0 {
		return report, &DriftError{Paths: stale}
	}
	report.Unchanged = p.ArtifactPaths()
	return report, nil
}

// evaluate runs discovery, validation and rendering. On success the
// pipeline is left in Validating; on failure it has returned to Idle.
func (p *Pipeline) evaluate(ctx context.Context) (*Report, *emit.Artifacts, error) {
	gen := p.generation.Add(1)
	start := time.Now()
	report := &Report{Generation: gen, started: start}

	p.transition(StateDiscovering)
	if err := p.checkArtifactPaths(); err != nil {
		p.fail()
		return report, nil, err
	}
	disc, err := p.discoverer.Discover(ctx)
	if err != nil {
		p.fail()
		return report, nil, err
	}
	report.Features = disc.Features
	report.Diagnostics = disc.Diagnostics

	p.transition(StateValidating)
	// Broken units abort the pass before cross-feature rules run: validating
	// a partial set would report misleading duplicates or omissions.
	if feature.HasErrors(disc.Diagnostics) {
		p.fail()
		report.Duration = time.Since(start)
		return report, nil, &Error{Diagnostics: report.Diagnostics}
	}

	vr := validate.Validate(disc.Features)
	report.Diagnostics = append(report.Diagnostics, vr.Diagnostics...)
	if feature.HasErrors(report.Diagnostics) {
		p.fail()
		report.Duration = time.Since(start)
		return report, nil, &Error{Diagnostics: report.Diagnostics}
	}
	report.Navigation = vr.Navigation

	artifacts, err := emit.Emit(disc.Features, vr.Navigation, emit.Options{
		RegistryPackage:   p.settings.RegistryPackage,
		AggregatorPackage: p.settings.AggregatorPackage,
		FeatureRoot:       filepath.ToSlash(p.settings.FeatureRoot),
	})
	if err != nil {
		p.fail()
		return report, nil, err
	}

	report.Duration = time.Since(start)
	return report, artifacts, nil
}

func (p *Pipeline) runFailureHook(ctx context.Context, report *Report, passErr error) {
	var buildErr *Error
	if p.hooks == nil || p.settings.OnFailure == "" || !errors.As(passErr, &buildErr) {
		return
	}
	if err := p.hooks.Run(ctx, hook.EventFailure, p.settings.OnFailure, outcome(report, len(buildErr.Errors()))); err != nil {
		slog.Warn("on_failure hook failed", "error", err)
	}
}

func outcome(report *Report, errCount int) hook.Outcome {
	return hook.Outcome{
		Features: len(report.Features),
		Changed:  report.Written,
		Errors:   errCount,
	}
}
