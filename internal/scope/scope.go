// Package scope decides which paths the engine may mutate. Paths inside a
// configured inbox root are managed; everything else is protected and must
// be left alone by the duplicate-removal flow.
package scope

import (
	"path/filepath"
	"strings"
)

// Scope classifies a path's mutation eligibility.
type Scope string

const (
	// Managed paths lie inside an inbox root and may be moved or deleted.
	Managed Scope = "managed"
	// Protected paths lie outside every inbox root; mutation is forbidden.
	Protected Scope = "protected"
)

// WithinRoot reports whether path equals root or lies beneath it. A match
// requires the root as a proper prefix followed by a path separator, so
// "/inbox-old" never matches root "/inbox".
func WithinRoot(path, root string) bool {
	root = strings.TrimSpace(root)
	if root == "" {
		return false
	}
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// WithinAny reports whether path lies under any of the given roots.
func WithinAny(path string, roots []string) bool {
	for _, root := range roots {
		if WithinRoot(path, root) {
			return true
		}
	}
	return false
}

// Classify returns Managed when path lies inside any managed root and
// Protected otherwise.
func Classify(path string, managedRoots []string) Scope {
	if WithinAny(path, managedRoots) {
		return Managed
	}
	return Protected
}

// Filter couples the managed roots with the global restriction switch.
type Filter struct {
	managedRoots []string
	restrict     bool
}

// NewFilter builds a Filter. When restrict is false the filter allows
// mutation anywhere; callers must treat that as an explicit opt-in.
func NewFilter(managedRoots []string, restrict bool) *Filter {
	roots := make([]string, 0, len(managedRoots))
	for _, root := range managedRoots {
		if trimmed := strings.TrimSpace(root); trimmed != "" {
			roots = append(roots, filepath.Clean(trimmed))
		}
	}
	return &Filter{managedRoots: roots, restrict: restrict}
}

// Classify reports the scope of path against the filter's managed roots.
func (f *Filter) Classify(path string) Scope {
	return Classify(path, f.managedRoots)
}

// Allows reports whether the duplicate flow may mutate path. With the
// restriction switch off every path is allowed.
func (f *Filter) Allows(path string) bool {
	if !f.restrict {
		return true
	}
	return f.Classify(path) == Managed
}

// Restricted reports whether the protection switch is active.
func (f *Filter) Restricted() bool {
	return f.restrict
}
