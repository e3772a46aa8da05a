package classify

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"

	"github.com/solosoyfranco/LibrAIry/internal/textutil"
)

// sniffLen is how many leading bytes filetype needs to identify a header.
const sniffLen = 262

// maxLibraryFolders caps the folder list fed to prompts and the ruleset so a
// sprawling library cannot blow up request sizes.
const maxLibraryFolders = 200

// Buckets are the coarse categories the rule engine can assign by content
// type alone.
const (
	BucketImages    = "images"
	BucketVideos    = "videos"
	BucketAudio     = "audio"
	BucketDocuments = "documents"
	BucketArchives  = "archives"
	BucketFonts     = "fonts"
	BucketCode      = "code"
)

var extBuckets = map[string]string{
	".txt": BucketDocuments, ".md": BucketDocuments, ".rtf": BucketDocuments,
	".odt": BucketDocuments, ".doc": BucketDocuments, ".docx": BucketDocuments,
	".pdf": BucketDocuments, ".csv": BucketDocuments, ".xls": BucketDocuments,
	".xlsx": BucketDocuments, ".ppt": BucketDocuments, ".pptx": BucketDocuments,
	".epub": BucketDocuments,

	".go": BucketCode, ".py": BucketCode, ".js": BucketCode, ".ts": BucketCode,
	".c": BucketCode, ".h": BucketCode, ".cpp": BucketCode, ".rs": BucketCode,
	".java": BucketCode, ".sh": BucketCode, ".rb": BucketCode, ".php": BucketCode,
	".sql": BucketCode, ".html": BucketCode, ".css": BucketCode, ".json": BucketCode,
	".yaml": BucketCode, ".yml": BucketCode, ".toml": BucketCode, ".xml": BucketCode,

	".jpg": BucketImages, ".jpeg": BucketImages, ".png": BucketImages,
	".gif": BucketImages, ".webp": BucketImages, ".bmp": BucketImages,
	".svg": BucketImages, ".heic": BucketImages,

	".mp4": BucketVideos, ".mkv": BucketVideos, ".avi": BucketVideos,
	".mov": BucketVideos, ".webm": BucketVideos,

	".mp3": BucketAudio, ".flac": BucketAudio, ".wav": BucketAudio,
	".m4a": BucketAudio, ".ogg": BucketAudio, ".aac": BucketAudio,

	".zip": BucketArchives, ".tar": BucketArchives, ".gz": BucketArchives,
	".rar": BucketArchives, ".7z": BucketArchives, ".bz2": BucketArchives,
	".xz": BucketArchives, ".iso": BucketArchives, ".dmg": BucketArchives,
}

// Ruleset classifies items without an LLM: content sniffing for the coarse
// bucket, name similarity against existing library folders for placement.
// Its records carry deliberately modest confidence so ambiguous items end up
// in review rather than silently misfiled.
type Ruleset struct {
	defaultBucket string
	folders       []scoredFolder
	idf           map[string]float64
}

type scoredFolder struct {
	rel string
	fp  *textutil.Fingerprint
}

// NewRuleset builds a rule engine over the given library folder paths
// (relative, slash-separated). The default bucket catches items nothing else
// claims.
func NewRuleset(defaultBucket string, libraryFolders []string) *Ruleset {
	rs := &Ruleset{defaultBucket: strings.TrimSpace(defaultBucket)}
	if rs.defaultBucket == "" {
		rs.defaultBucket = "other"
	}

	corpus := textutil.NewCorpus()
	raw := make([]scoredFolder, 0, len(libraryFolders))
	for _, rel := range libraryFolders {
		rel = strings.Trim(strings.TrimSpace(rel), "/")
		if rel == "" {
			continue
		}
		fp := textutil.NewFingerprint(strings.ReplaceAll(rel, "/", " "))
		if fp == nil {
			continue
		}
		corpus.Add(fp)
		raw = append(raw, scoredFolder{rel: rel, fp: fp})
	}
	idf := corpus.IDF()
	for _, folder := range raw {
		if weighted := folder.fp.WithIDF(idf); weighted != nil {
			rs.folders = append(rs.folders, scoredFolder{rel: folder.rel, fp: weighted})
		}
	}
	rs.idf = idf
	return rs
}

// folderMatch weights the item name with the same IDF table as the folder
// fingerprints and returns the closest folder with its cosine score.
func (r *Ruleset) folderMatch(name string) (string, float64) {
	fp := textutil.NewFingerprint(name).WithIDF(r.idf)
	if fp == nil {
		return "", 0
	}
	var bestRel string
	var bestScore float64
	for _, folder := range r.folders {
		if score := textutil.CosineSimilarity(fp, folder.fp); score > bestScore {
			bestRel, bestScore = folder.rel, score
		}
	}
	return bestRel, bestScore
}

// Classify produces a record for the source using sniffing and folder
// matching only. It never fails; an unidentifiable item comes back pointed
// at the default bucket with review-level confidence.
func (r *Ruleset) Classify(src Source) Record {
	rec := Record{SourcePath: src.Path}

	if src.IsDir {
		rec.BundleType = Bundle
		rec.SuggestedName = filepath.Base(src.Path)
		counts := map[string]int{}
		for _, name := range src.Files {
			if strings.HasSuffix(name, "/") {
				continue
			}
			bucket := r.bucketFor(filepath.Join(src.Path, name))
			rec.Files = append(rec.Files, FileEntry{OriginalName: name, Category: bucket})
			counts[bucket]++
		}
		rec.RecommendedPath, rec.Confidence = r.placeBundle(rec.SuggestedName, counts)
		rec.Normalize(src)
		return rec
	}

	base := filepath.Base(src.Path)
	stem, _ := textutil.SplitExt(base)
	rec.BundleType = Single
	rec.SuggestedName = stem
	bucket := r.bucketFor(src.Path)
	rec.Files = []FileEntry{{OriginalName: base, Category: bucket}}
	rec.RecommendedPath, rec.Confidence = r.place(stem, bucket)
	rec.Normalize(src)
	return rec
}

func (r *Ruleset) place(name, bucket string) (string, float64) {
	if rel, score := r.folderMatch(name); score >= 0.30 {
		confidence := 0.5 + 0.25*score
		if confidence > 0.75 {
			confidence = 0.75
		}
		return rel, confidence
	}
	if bucket == "" {
		return r.defaultBucket, 0.3
	}
	return bucket, 0.5
}

func (r *Ruleset) placeBundle(name string, counts map[string]int) (string, float64) {
	if rel, score := r.folderMatch(name); score >= 0.30 {
		confidence := 0.5 + 0.25*score
		if confidence > 0.75 {
			confidence = 0.75
		}
		return rel, confidence
	}
	bucket, total, best := "", 0, 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		total += counts[k]
		if k != "" && counts[k] > best {
			bucket, best = k, counts[k]
		}
	}
	// A bundle dominated by one kind files under that kind's bucket.
	if total > 0 && bucket != "" && best*2 >= total {
		return bucket, 0.5
	}
	return r.defaultBucket, 0.3
}

// bucketFor sniffs the file header and falls back to the extension table.
// Any read problem just means "unknown"; classification must not fail on an
// unreadable file.
func (r *Ruleset) bucketFor(path string) string {
	if bucket := sniffBucket(path); bucket != "" {
		return bucket
	}
	return extBuckets[strings.ToLower(filepath.Ext(path))]
}

func sniffBucket(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && n == 0 {
		return ""
	}
	head = head[:n]

	switch {
	case filetype.IsImage(head):
		return BucketImages
	case filetype.IsVideo(head):
		return BucketVideos
	case filetype.IsAudio(head):
		return BucketAudio
	case filetype.IsFont(head):
		return BucketFonts
	case filetype.IsDocument(head):
		return BucketDocuments
	case filetype.IsArchive(head):
		// filetype files PDF under archives; readers disagree.
		if kind, err := filetype.Match(head); err == nil && kind.Extension == "pdf" {
			return BucketDocuments
		}
		return BucketArchives
	default:
		return ""
	}
}

// LibraryFolders walks the library roots two levels deep and returns the
// relative folder paths, sorted, capped at maxLibraryFolders. Both the LLM
// prompt and the ruleset consume this list.
func LibraryFolders(roots []string) []string {
	seen := map[string]struct{}{}
	var rels []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			top := entry.Name()
			if _, dup := seen[top]; !dup {
				seen[top] = struct{}{}
				rels = append(rels, top)
			}
			subEntries, err := os.ReadDir(filepath.Join(root, top))
			if err != nil {
				continue
			}
			for _, sub := range subEntries {
				if !sub.IsDir() || strings.HasPrefix(sub.Name(), ".") {
					continue
				}
				rel := top + "/" + sub.Name()
				if _, dup := seen[rel]; !dup {
					seen[rel] = struct{}{}
					rels = append(rels, rel)
				}
			}
		}
	}
	sort.Strings(rels)
	if len(rels) > maxLibraryFolders {
		rels = rels[:maxLibraryFolders]
	}
	return rels
}
