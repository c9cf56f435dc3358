// Package scope decides whether a rule document applies to a resolution
// target. Patterns use glob semantics via [github.com/bmatcuk/doublestar/v4]:
// `*` matches within a path segment, `**` matches across separators, literal
// segments match exactly. Matching is case-sensitive.
package scope

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate checks every pattern for glob syntax errors. Called at document
// load time so that matching never has to handle bad patterns.
func Validate(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(Normalize(p)) {
			return fmt.Errorf("invalid scope pattern %q", p)
		}
	}

	return nil
}

// Matches reports whether at least one pattern matches targetPath. An empty
// pattern set matches everything.
func Matches(patterns []string, targetPath string) bool {
	if len(patterns) == 0 {
		return true
	}

	target := Normalize(targetPath)
	for _, p := range patterns {
		// Patterns are validated at load time, so a match error here can only
		// mean a programming error upstream; treat it as a non-match.
		if ok, err := doublestar.Match(Normalize(p), target); err == nil && ok {
			return true
		}
	}

	return false
}

// ToolApplies reports whether a document with the given tool targets is
// relevant to toolID. An empty target set applies to all tools.
func ToolApplies(toolTargets []string, toolID string) bool {
	if len(toolTargets) == 0 {
		return true
	}

	for _, t := range toolTargets {
		if t == toolID {
			return true
		}
	}

	return false
}

// Applies combines tool and path matching: a document is applicable iff its
// tool targets admit toolID and its scope patterns admit targetPath.
func Applies(patterns, toolTargets []string, targetPath, toolID string) bool {
	return ToolApplies(toolTargets, toolID) && Matches(patterns, targetPath)
}

// Normalize converts a path or pattern to slash-separated form without a
// leading "./" so matching behaves identically across platforms.
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")

	return path.Clean(p)
}
