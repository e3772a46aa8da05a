package mover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxNameAttempts bounds collision suffixing. Exhausting it flags the one
// file for review; it never fails the run.
const maxNameAttempts = 10000

// Namer hands out collision-free destination paths for one run. It checks
// both the filesystem and the paths already promised this run, so two plans
// can never share a destination even before anything is moved.
type Namer struct {
	claimed map[string]struct{}
}

// NewNamer returns an empty namer. Use one per run.
func NewNamer() *Namer {
	return &Namer{claimed: make(map[string]struct{})}
}

// Reserve returns path if it is free, otherwise the first free variant with
// a numeric suffix before the extension (name-1.ext, name-2.ext, ...). The
// returned path is claimed for the rest of the run. ok is false when every
// suffix up to the cap is taken.
func (n *Namer) Reserve(path string) (string, bool) {
	if n.free(path) {
		n.claimed[path] = struct{}{}
		return path, true
	}
	prefix, ext := splitSuffixPoint(path)
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%d%s", prefix, attempt, ext)
		if n.free(candidate) {
			n.claimed[candidate] = struct{}{}
			return candidate, true
		}
	}
	return "", false
}

// Claimed reports whether the namer already promised path this run.
func (n *Namer) Claimed(path string) bool {
	_, ok := n.claimed[path]
	return ok
}

func (n *Namer) free(path string) bool {
	if _, taken := n.claimed[path]; taken {
		return false
	}
	if _, err := os.Lstat(path); err != nil {
		return errors.Is(err, os.ErrNotExist)
	}
	return false
}

// splitSuffixPoint splits path where a numeric suffix belongs: before the
// extension for files, at the end for extensionless names and directories.
func splitSuffixPoint(path string) (prefix, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	// A bare dot name like ".config" has no real extension to preserve.
	if ext == base || strings.TrimPrefix(ext, ".") == "" {
		ext = ""
	}
	return strings.TrimSuffix(path, ext), ext
}
