package index

import (
	"path/filepath"

	radix "github.com/armon/go-radix"
	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultExcludeDirs is the built-in noise-directory prefix set.
var defaultExcludeDirs = []string{
	"node_modules", ".git", ".svn", ".hg",
	"target", "build", "dist", "__pycache__",
	".idea", ".vscode",
	"$RECYCLE.BIN", "System Volume Information",
}

// excludeMatcher answers "should this path be skipped" using a radix
// tree of absolute directory prefixes (O(k) lookup via WalkPath) plus
// an optional gitignore-style glob matcher for host-supplied patterns.
// It is built once per pass before any worker starts and never
// mutated afterward, so concurrent reads need no additional locking.
type excludeMatcher struct {
	prefixes *radix.Tree
	globs    gitignore.IgnoreParser
}

func newExcludeMatcher(root string, extraDirs []string, globPatterns []string) *excludeMatcher {
	tree := radix.New()
	for _, name := range defaultExcludeDirs {
		tree.Insert(filepath.Join(root, name), true)
	}
	for _, dir := range extraDirs {
		if dir == "" {
			continue
		}
		tree.Insert(dir, true)
	}
	// The tree only holds the defaults as direct children of root; a
	// nested node_modules anywhere under root is caught by
	// matchesNoiseBase in shouldSkip instead.
	var globs gitignore.IgnoreParser
	if len(globPatterns) > 0 {
		globs = gitignore.CompileIgnoreLines(globPatterns...)
	}
	return &excludeMatcher{prefixes: tree, globs: globs}
}

// shouldSkip reports whether path (an absolute directory or file path) falls under a
// registered exclude prefix or matches a glob pattern, or whether its
// base name is one of the built-in noise directories regardless of
// where it appears in the tree.
func (m *excludeMatcher) shouldSkip(path string) bool {
	if m == nil {
		return false
	}
	if matchesNoiseBase(path) {
		return true
	}
	skip := false
	m.prefixes.WalkPath(path, func(key string, _ interface{}) bool {
		skip = true
		return true // stop at first matching prefix
	})
	if skip {
		return true
	}
	if m.globs != nil && m.globs.MatchesPath(path) {
		return true
	}
	return false
}

func matchesNoiseBase(path string) bool {
	base := filepath.Base(path)
	for _, name := range defaultExcludeDirs {
		if base == name {
			return true
		}
	}
	return false
}
