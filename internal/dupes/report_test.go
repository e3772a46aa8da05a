package dupes_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/dupes"
	"github.com/solosoyfranco/LibrAIry/internal/services"
)

func writeReport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func TestLoadReportFlatArray(t *testing.T) {
	path := writeReport(t, `[
		{"path": "/inbox/a.jpg", "checksum": "xx", "is_original": true, "size_bytes": 100, "modified_at": "2026-08-01T12:00:00Z"},
		{"path": "/inbox/b.jpg", "checksum": "xx"},
		{"path": "", "checksum": "ignored"}
	]`)

	records, err := dupes.LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (blank path dropped), got %d", len(records))
	}
	if !records[0].IsOriginal || records[0].SizeBytes != 100 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[0].ModifiedAt.IsZero() {
		t.Fatal("expected parsed modified_at")
	}
}

func TestLoadReportGroupedLayout(t *testing.T) {
	path := writeReport(t, `{
		"4096": [
			[
				{"path": "/inbox/a.jpg", "modified_date": 1754000000, "size": 4096, "hash": "aa"},
				{"path": "/inbox/b.jpg", "modified_date": 1754000001, "size": 4096, "hash": "aa"}
			],
			[
				{"path": "/inbox/c.txt", "size": 4096},
				{"path": "/inbox/d.txt", "size": 4096}
			]
		]
	}`)

	records, err := dupes.LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport returned error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0].Checksum != "aa" {
		t.Fatalf("expected explicit hash kept, got %q", records[0].Checksum)
	}
	if records[2].Checksum == "" || records[2].Checksum == records[0].Checksum {
		t.Fatalf("expected synthesized checksum distinct from explicit one, got %q", records[2].Checksum)
	}
	if records[2].Checksum != records[3].Checksum {
		t.Fatal("entries of one group must share the synthesized checksum")
	}
	if records[0].ModifiedAt.IsZero() {
		t.Fatal("expected unix modified_date parsed")
	}

	groups := dupes.GroupRecords(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups from grouped layout, got %d", len(groups))
	}
}

func TestLoadReportFlatEntryVariantNames(t *testing.T) {
	path := writeReport(t, `{
		"dupes": [
			{"file_path": "/inbox/x.bin", "original": true, "size_bytes": 7},
			{"file_path": "/inbox/y.bin"}
		]
	}`)

	records, err := dupes.LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Path != "/inbox/x.bin" || !records[0].IsOriginal || records[0].SizeBytes != 7 {
		t.Fatalf("variant field names not honoured: %+v", records[0])
	}
	if records[0].Checksum != records[1].Checksum {
		t.Fatal("group key must become the shared checksum")
	}
}

func TestLoadReportMissingFileIsFatal(t *testing.T) {
	_, err := dupes.LoadReport(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrInputMissing) {
		t.Fatalf("expected input-missing marker, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("missing report must be fatal")
	}
}

func TestLoadReportEmptyFileIsFatal(t *testing.T) {
	path := writeReport(t, "   \n")
	_, err := dupes.LoadReport(path)
	if !errors.Is(err, services.ErrInputMissing) {
		t.Fatalf("expected input-missing marker, got %v", err)
	}
}

func TestLoadReportGarbageIsFatal(t *testing.T) {
	path := writeReport(t, "not json at all")
	_, err := dupes.LoadReport(path)
	if !errors.Is(err, services.ErrInputMissing) {
		t.Fatalf("expected input-missing marker, got %v", err)
	}
}
