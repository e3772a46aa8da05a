// Package classify produces classification records for inbox items. Records
// may come from the configured LLM or from the built-in rule engine; either
// way they pass through Normalize so downstream planning only ever sees the
// canonical shape.
package classify

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solosoyfranco/LibrAIry/internal/services"
)

// BundleType distinguishes a lone file from a folder treated as one unit.
type BundleType string

const (
	Single BundleType = "single"
	Bundle BundleType = "bundle"
)

// FileEntry describes one file inside a classified item.
type FileEntry struct {
	OriginalName string `json:"original_name"`
	Category     string `json:"category,omitempty"`
	RenameTo     string `json:"rename_to,omitempty"`
}

// SubfolderPlan asks the planner to spread a bundle's files across
// per-category subfolders. Mapping keys are categories, values subfolder
// names; categories absent from the map fall back to the default bucket.
type SubfolderPlan struct {
	Enabled bool              `json:"enabled"`
	Mapping map[string]string `json:"mapping,omitempty"`
}

// Record is the canonical classification result. Upstream payloads in any of
// their historical spellings are adapted into this one shape before anything
// else looks at them.
type Record struct {
	SourcePath      string        `json:"source_path"`
	BundleType      BundleType    `json:"bundle_type"`
	SuggestedName   string        `json:"suggested_name"`
	RecommendedPath string        `json:"recommended_path"`
	Subfolder       SubfolderPlan `json:"subfolder_plan"`
	Files           []FileEntry   `json:"files"`
	Confidence      float64       `json:"confidence"`
}

// Source describes the inbox item being classified.
type Source struct {
	Path  string
	IsDir bool
	Files []string
}

// ScanSource builds a Source from the filesystem. Directory listings skip
// hidden entries and mark nested directories with a trailing slash so the
// classifier can tell them apart from files.
func ScanSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, services.Wrap(services.ErrNotFound, "organize", "scan source", "item not found", err)
	}
	src := Source{Path: path, IsDir: info.IsDir()}
	if !src.IsDir {
		src.Files = []string{filepath.Base(path)}
		return src, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return Source{}, services.Wrap(services.ErrValidation, "organize", "scan source", "list bundle contents", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		src.Files = append(src.Files, name)
	}
	sort.Strings(src.Files)
	return src, nil
}

// Normalize repairs a record in place against its source: clamps confidence,
// settles the bundle type against what is on disk, cleans the recommended
// path of traversal, and reduces a single file's list to the one real entry.
// A record that survives Normalize is safe to plan from, though it may still
// earn review if the confidence is low.
func (r *Record) Normalize(src Source) {
	r.SourcePath = src.Path
	r.SuggestedName = strings.TrimSpace(r.SuggestedName)
	r.RecommendedPath = cleanRelPath(r.RecommendedPath)

	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}

	// The filesystem decides the bundle type; the payload's claim is kept
	// only as a hint and never trusted over what is actually on disk.
	if src.IsDir {
		r.BundleType = Bundle
	} else {
		r.BundleType = Single
	}

	files := r.Files[:0]
	for _, f := range r.Files {
		f.OriginalName = strings.TrimSpace(f.OriginalName)
		if f.OriginalName == "" {
			continue
		}
		f.Category = strings.ToLower(strings.TrimSpace(f.Category))
		f.RenameTo = strings.TrimSpace(f.RenameTo)
		files = append(files, f)
	}
	r.Files = files

	if r.BundleType == Single {
		base := filepath.Base(src.Path)
		if len(r.Files) == 0 {
			r.Files = []FileEntry{{OriginalName: base}}
		} else {
			// A single file has exactly one entry; keep the one naming the
			// real file if the payload listed several.
			kept := r.Files[0]
			for _, f := range r.Files {
				if f.OriginalName == base {
					kept = f
					break
				}
			}
			kept.OriginalName = base
			r.Files = []FileEntry{kept}
		}
	}

	if len(r.Subfolder.Mapping) > 0 {
		mapping := make(map[string]string, len(r.Subfolder.Mapping))
		for category, dir := range r.Subfolder.Mapping {
			category = strings.ToLower(strings.TrimSpace(category))
			dir = strings.TrimSpace(dir)
			if category == "" || dir == "" {
				continue
			}
			mapping[category] = dir
		}
		r.Subfolder.Mapping = mapping
	}
	if !r.Subfolder.Enabled {
		r.Subfolder.Mapping = nil
	}
}

// cleanRelPath reduces a recommended path to a safe slash-separated path.
// Traversal segments are dropped rather than rejected; a leading slash is
// preserved so the planner can tell "absolute path inside the library" apart
// from a relative category path. An empty result means the planner falls
// back to its default bucket.
func cleanRelPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	abs := strings.HasPrefix(p, "/")
	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		switch seg {
		case "", ".", "..":
			continue
		}
		kept = append(kept, seg)
	}
	out := strings.Join(kept, "/")
	if abs && out != "" {
		out = "/" + out
	}
	return out
}
