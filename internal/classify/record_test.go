package classify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/services"
)

func TestNormalizeClampsConfidence(t *testing.T) {
	src := Source{Path: "/inbox/a.txt", Files: []string{"a.txt"}}

	high := Record{Confidence: 3.5}
	high.Normalize(src)
	if high.Confidence != 1 {
		t.Fatalf("confidence = %v, want 1", high.Confidence)
	}

	low := Record{Confidence: -0.2}
	low.Normalize(src)
	if low.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", low.Confidence)
	}
}

func TestNormalizeBundleType(t *testing.T) {
	cases := []struct {
		name    string
		claimed string
		isDir   bool
		want    BundleType
	}{
		{"folder synonym", "folder", true, Bundle},
		{"file synonym", "file", false, Single},
		{"empty defaults to source kind", "", true, Bundle},
		{"filesystem wins over claim", "bundle", false, Single},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Record{BundleType: BundleType(tc.claimed)}
			rec.Normalize(Source{Path: "/inbox/item", IsDir: tc.isDir, Files: []string{"item"}})
			if rec.BundleType != tc.want {
				t.Fatalf("bundle type = %q, want %q", rec.BundleType, tc.want)
			}
		})
	}
}

func TestNormalizeSingleFileEntries(t *testing.T) {
	src := Source{Path: "/inbox/report.pdf", Files: []string{"report.pdf"}}

	empty := Record{}
	empty.Normalize(src)
	if len(empty.Files) != 1 || empty.Files[0].OriginalName != "report.pdf" {
		t.Fatalf("expected synthesized entry for source file, got %+v", empty.Files)
	}

	several := Record{Files: []FileEntry{
		{OriginalName: "other.pdf", Category: "Documents"},
		{OriginalName: "report.pdf", Category: "Reports", RenameTo: "Q3 Report.pdf"},
	}}
	several.Normalize(src)
	if len(several.Files) != 1 {
		t.Fatalf("expected single entry, got %d", len(several.Files))
	}
	if several.Files[0].OriginalName != "report.pdf" || several.Files[0].Category != "reports" {
		t.Fatalf("kept wrong entry: %+v", several.Files[0])
	}
	if several.Files[0].RenameTo != "Q3 Report.pdf" {
		t.Fatalf("rename lost: %+v", several.Files[0])
	}
}

func TestNormalizeCleansRecommendedPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"docs/reports", "docs/reports"},
		{"/library/docs/reports/", "/library/docs/reports"},
		{"../../etc/passwd", "etc/passwd"},
		{"docs//./reports", "docs/reports"},
		{"docs\\reports", "docs/reports"},
		{"  ", ""},
	}
	for _, tc := range cases {
		rec := Record{RecommendedPath: tc.in}
		rec.Normalize(Source{Path: "/inbox/a.txt", Files: []string{"a.txt"}})
		if rec.RecommendedPath != tc.want {
			t.Fatalf("cleanRelPath(%q) = %q, want %q", tc.in, rec.RecommendedPath, tc.want)
		}
	}
}

func TestNormalizeSubfolderMapping(t *testing.T) {
	rec := Record{
		BundleType: Bundle,
		Subfolder: SubfolderPlan{
			Enabled: true,
			Mapping: map[string]string{"Images": "Photos", "": "nowhere", "docs": ""},
		},
	}
	rec.Normalize(Source{Path: "/inbox/stuff", IsDir: true, Files: []string{"a.png", "b.txt"}})
	if len(rec.Subfolder.Mapping) != 1 || rec.Subfolder.Mapping["images"] != "Photos" {
		t.Fatalf("mapping = %+v, want lowercased key images only", rec.Subfolder.Mapping)
	}

	disabled := Record{Subfolder: SubfolderPlan{Enabled: false, Mapping: map[string]string{"a": "b"}}}
	disabled.Normalize(Source{Path: "/inbox/stuff", IsDir: true})
	if disabled.Subfolder.Mapping != nil {
		t.Fatalf("disabled plan kept mapping: %+v", disabled.Subfolder.Mapping)
	}
}

func TestNormalizeDropsBlankFileEntries(t *testing.T) {
	rec := Record{Files: []FileEntry{
		{OriginalName: "  "},
		{OriginalName: "keep.txt", Category: " Docs "},
	}}
	rec.Normalize(Source{Path: "/inbox/stuff", IsDir: true, Files: []string{"keep.txt"}})
	if len(rec.Files) != 1 || rec.Files[0].OriginalName != "keep.txt" || rec.Files[0].Category != "docs" {
		t.Fatalf("files = %+v", rec.Files)
	}
}

func TestScanSource(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "trip")
	if err := os.MkdirAll(filepath.Join(bundle, "raw"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.png", "b.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(bundle, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := ScanSource(bundle)
	if err != nil {
		t.Fatalf("ScanSource() error: %v", err)
	}
	if !src.IsDir {
		t.Fatal("expected IsDir for directory source")
	}
	want := []string{"a.png", "b.txt", "raw/"}
	if len(src.Files) != len(want) {
		t.Fatalf("files = %v, want %v", src.Files, want)
	}
	for i := range want {
		if src.Files[i] != want[i] {
			t.Fatalf("files = %v, want %v", src.Files, want)
		}
	}

	single, err := ScanSource(filepath.Join(bundle, "b.txt"))
	if err != nil {
		t.Fatalf("ScanSource(file) error: %v", err)
	}
	if single.IsDir || len(single.Files) != 1 || single.Files[0] != "b.txt" {
		t.Fatalf("single source = %+v", single)
	}

	if _, err := ScanSource(filepath.Join(dir, "absent")); err == nil {
		t.Fatal("expected error for missing source")
	} else if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing source error = %v, want ErrNotFound", err)
	}
}
