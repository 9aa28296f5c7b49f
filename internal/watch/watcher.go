// SPDX-License-Identifier: MPL-2.0

// Package watch triggers featgen passes from filesystem changes.
//
// A Watcher monitors a project directory, filters events through doublestar
// glob patterns and invokes a callback after a debounce period. Events within
// the debounce window are coalesced so the callback fires once with the full
// set of changed paths, and a callback never overlaps a previous one that is
// still running.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the callback after the last
// filesystem event. Editors that write then rename a temp file produce
// several events per save.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are always excluded. They mirror the directories discovery
// never descends into, plus editor and OS noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/testdata/**",
	"**/vendor/**",
	"**/.*",
	"**/.*/**",
	"**/_*/**",
	"**/*_test.go",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
}

// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are doublestar globs relative to BaseDir that select which
		// files trigger callbacks. An empty slice matches every non-ignored file.
		Patterns []string

		// Ignore are additional doublestar globs for paths that never trigger
		// callbacks, typically the generated artifacts. Merged with the
		// built-in ignores.
		Ignore []string

		// Scope is a directory relative to BaseDir under which removals and
		// renames always trigger, whether or not they match Patterns. A
		// removed directory carries no file name to match on.
		Scope string

		// Debounce is the quiet period after the last event. Zero or negative
		// values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each callback.
		ClearScreen bool

		// BaseDir is the root directory to watch. Empty means the working directory.
		BaseDir string

		// OnChange receives the deduplicated, sorted changed paths relative to
		// BaseDir. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer
	}

	// InvalidConfigError collects every invalid Config field.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors a directory tree and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		stdout   io.Writer
		debounce time.Duration
		baseDir  string
		scope    string
		started  atomic.Bool
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s (%d errors): %s", ErrInvalidConfig, len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks every pattern and the base directory. It returns
// *InvalidConfigError listing all problems, or nil.
func (c Config) Validate() error {
	var errs []error
	errs = append(errs, validatePatterns(c.Patterns, "watch")...)
	errs = append(errs, validatePatterns(c.Ignore, "ignore")...)
	if c.BaseDir != "" && strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, errors.New("base directory must not be blank"))
	}
	if c.Scope != "" && (filepath.IsAbs(c.Scope) || strings.HasPrefix(path.Clean(filepath.ToSlash(c.Scope)), "..")) {
		errs = append(errs, fmt.Errorf("scope %q must be relative to the base directory", c.Scope))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// New creates a Watcher and registers every non-ignored directory under
// BaseDir with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	scope := ""
	if cfg.Scope != "" {
		scope = path.Clean(filepath.ToSlash(cfg.Scope))
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		stdout:   stdout,
		debounce: debounce,
		baseDir:  absBase,
		scope:    scope,
	}

	if err := w.addDirectories(absBase); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes OnChange. A fire that finds a
	// callback still running re-arms the timer instead, so passes never
	// overlap and no change is lost.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			slog.Debug("watch: previous pass still running, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				slog.Debug("watch: callback returned error", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			slog.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			rel := w.rel(evt.Name)
			if !w.relevant(rel, evt.Op) {
				continue
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			slog.Debug("watch: change", "path", rel, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if watcherBroken(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			slog.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// watcherBroken reports whether err is one of the platform errnos after
// which fsnotify delivers no further events.
func watcherBroken(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return slices.Contains(brokenErrnos, errno)
}

// relevant reports whether an event on rel should schedule a callback.
func (w *Watcher) relevant(rel string, op fsnotify.Op) bool {
	if w.isIgnored(rel) {
		return false
	}
	if w.matchesPatterns(rel) {
		return true
	}
	if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
		return w.inScope(rel)
	}
	// A created directory may already contain feature files moved in with it.
	if op.Has(fsnotify.Create) && w.inScope(rel) {
		return w.isDir(rel)
	}
	return false
}

func (w *Watcher) inScope(rel string) bool {
	if w.scope == "" || w.scope == "." {
		return true
	}
	return rel == w.scope || strings.HasPrefix(rel, w.scope+"/")
}

func (w *Watcher) isDir(rel string) bool {
	info, err := os.Stat(filepath.Join(w.baseDir, filepath.FromSlash(rel)))
	return err == nil && info.IsDir()
}

// rel returns p relative to the base directory, slash separated.
func (w *Watcher) rel(p string) string {
	r, err := filepath.Rel(w.baseDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(r)
}

// addDirectories registers root and every non-ignored directory below it.
// Inaccessible directories are skipped, not fatal.
func (w *Watcher) addDirectories(root string) error {
	walkErr := filepath.WalkDir(root, func(p string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			slog.Warn("watch: skipping inaccessible path", "path", p, "error", walkDirErr)
			return nil //nolint:nilerr // inaccessible paths are skipped
		}
		if !d.IsDir() {
			return nil
		}

		rel := w.rel(p)
		if rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(p); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", p, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup,
// including any directories nested inside it.
func (w *Watcher) maybeAddDir(p string) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return
	}
	rel := w.rel(p)
	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}
	if err := w.addDirectories(p); err != nil {
		slog.Warn("watch: add new directory", "path", p, "error", err)
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	return matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// FeaturePatterns returns the watch patterns for a feature root relative to
// the base directory: every metadata file and module.go below it.
func FeaturePatterns(featureRoot string, metadataFiles []string) []string {
	root := path.Clean(filepath.ToSlash(featureRoot))
	prefix := root + "/**/"
	if root == "." {
		prefix = "**/"
	}
	patterns := make([]string, 0, len(metadataFiles)+1)
	for _, name := range metadataFiles {
		patterns = append(patterns, prefix+name)
	}
	return append(patterns, prefix+"module.go")
}

// validatePatterns checks that every pattern is a non-empty doublestar glob.
func validatePatterns(patterns []string, label string) []error {
	var errs []error
	for _, pat := range patterns {
		if strings.TrimSpace(pat) == "" {
			errs = append(errs, fmt.Errorf("empty %s pattern", label))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid %s pattern %q", label, pat))
		}
	}
	return errs
}
