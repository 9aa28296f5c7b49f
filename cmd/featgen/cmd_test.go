// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/featgen/featgen/internal/build"
	"github.com/featgen/featgen/internal/feature"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.RunMain(m, map[string]func() int{
		"featgen": Main,
	})
}

// TestScripts runs the CLI scripts in testdata/script against an in-process featgen.
func TestScripts(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: mutates package-level Version/Commit/BuildDate.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-02T03:04:05Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-02T03:04:05Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("2 error(s) in 3 feature(s)")
	err := error(&ExitError{Code: 1, Err: cause})
	if !errors.Is(err, cause) || err.Error() != cause.Error() {
		t.Errorf("ExitError does not expose its cause: %v", err)
	}
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRenderDiagnostics_ErrorsBeforeWarnings(t *testing.T) {
	t.Parallel()

	diags := []feature.Diagnostic{
		feature.NewWarning(feature.CodeDuplicateNavLabel, "b", `nav label "Home" is also used by a`).WithField("nav.label"),
		feature.NewError(feature.CodeDuplicateID, "shop", "declared twice").WithFile("internal/features/x/feature.cue").WithField("id"),
	}

	var sb strings.Builder
	renderDiagnostics(&sb, diags)
	out := sb.String()

	errAt := strings.Index(out, "duplicate_id shop")
	warnAt := strings.Index(out, "duplicate_nav_label b")
	if errAt < 0 || warnAt < 0 || errAt > warnAt {
		t.Fatalf("unexpected order or content:\n%s", out)
	}
	for _, want := range []string{
		"internal/features/x/feature.cue: id: declared twice",
		"featgen explain duplicate_id",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPassSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report build.Report
		want   string
	}{
		{
			name:   "written",
			report: build.Report{Features: make([]feature.Descriptor, 2), Written: []string{"internal/featureregistry/registry_gen.go"}},
			want:   "2 features, wrote registry_gen.go",
		},
		{
			name:   "unchanged",
			report: build.Report{Features: make([]feature.Descriptor, 1), Unchanged: []string{"a.go", "b.go"}},
			want:   "1 feature, artifacts up to date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out, errOut strings.Builder
			renderPassSummary(&out, &errOut, &tt.report)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("summary = %q, want it to contain %q", out.String(), tt.want)
			}
		})
	}
}
