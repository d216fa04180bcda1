// Package exclude decides whether a filesystem path is kept out of the
// index. It combines four rule sources: absolute path prefixes, path
// component names, doublestar glob patterns, and an optional
// .launchdexignore file (gitignore syntax) at each scope root.
package exclude

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Rules determines whether a path should be excluded from indexing.
// Thread-safe: Reload acquires a write lock, Excluded a read lock.
type Rules struct {
	mu       sync.RWMutex
	scopes   []string
	prefixes []string
	names    map[string]struct{}
	patterns []string
	ignores  map[string]gitignore.GitIgnore // scope root -> parsed ignore file
}

// Options configures the exclusion rules.
type Options struct {
	Scopes        []string // search scope roots, used to locate ignore files
	ExcludedPaths []string // absolute path prefixes to drop
	ExcludedNames []string // path component names to drop anywhere in the tree
	Patterns      []string // doublestar globs matched against scope-relative paths
}

// IgnoreFileName is looked up at each scope root and parsed with gitignore
// semantics.
const IgnoreFileName = ".launchdexignore"

// NewRules builds the rule set. Built-in excluded names (DefaultExcludedNames)
// are always active in addition to the configured ones.
func NewRules(options Options) *Rules {
	r := &Rules{
		scopes:   normalizePaths(options.Scopes),
		prefixes: normalizePaths(options.ExcludedPaths),
		patterns: options.Patterns,
		names:    make(map[string]struct{}),
	}
	for _, n := range DefaultExcludedNames {
		r.names[strings.ToLower(n)] = struct{}{}
	}
	for _, n := range options.ExcludedNames {
		r.names[strings.ToLower(n)] = struct{}{}
	}
	r.ignores = loadIgnoreFiles(r.scopes)
	return r
}

// Excluded returns true if path must not appear in any published generation.
// path should be absolute.
func (r *Rules) Excluded(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path = filepath.Clean(path)

	for _, prefix := range r.prefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if _, banned := r.names[strings.ToLower(part)]; banned {
			return true
		}
	}

	scope, rel := r.relativeToScope(path)
	if rel == "" {
		return false
	}

	for _, pattern := range r.patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && ok {
			return true
		}
	}

	if gi := r.ignores[scope]; gi != nil {
		isDir := false
		if info, err := os.Stat(path); err == nil {
			isDir = info.IsDir()
		}
		if m := gi.Relative(rel, isDir); m != nil && m.Ignore() {
			return true
		}
	}

	return false
}

// Reload re-reads the per-scope ignore files from disk. Called before a
// forced reindex so edits take effect without a restart.
func (r *Rules) Reload() {
	fresh := loadIgnoreFiles(r.scopes)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignores = fresh
}

// relativeToScope finds the scope containing path and returns the scope and
// the forward-slash relative path. Returns "" when path is outside every scope.
func (r *Rules) relativeToScope(path string) (scope, rel string) {
	for _, s := range r.scopes {
		if hasPathPrefix(path, s) {
			relPath, err := filepath.Rel(s, path)
			if err != nil || relPath == "." {
				continue
			}
			return s, filepath.ToSlash(relPath)
		}
	}
	return "", ""
}

// hasPathPrefix reports whether path is prefix itself or lies underneath it.
// A plain strings.HasPrefix would wrongly match /foo against /foobar.
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// loadIgnoreFiles parses the ignore file at each scope root, skipping scopes
// without one.
func loadIgnoreFiles(scopes []string) map[string]gitignore.GitIgnore {
	ignores := make(map[string]gitignore.GitIgnore, len(scopes))
	for _, scope := range scopes {
		f, err := os.Open(filepath.Join(scope, IgnoreFileName))
		if err != nil {
			continue
		}
		ignores[scope] = gitignore.New(f, scope, nil)
		f.Close()
	}
	return ignores
}
