package classify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/services"
)

func writeRecords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write records: %v", err)
	}
	return path
}

func TestLoadPreparedIndexesBySource(t *testing.T) {
	path := writeRecords(t, `[
		{"source_path": "/inbox/a", "confidence": 0.9},
		{"sourcePath": "/inbox/b", "confidence": 0.4},
		{"confidence": 0.7},
		{"path": "/inbox/c"}
	]`)

	prepared, err := LoadPrepared(path)
	if err != nil {
		t.Fatalf("LoadPrepared: %v", err)
	}
	if len(prepared) != 3 {
		t.Fatalf("len = %d, want 3 (sourceless entry dropped)", len(prepared))
	}
	for _, key := range []string{"/inbox/a", "/inbox/b", "/inbox/c"} {
		if _, ok := prepared[key]; !ok {
			t.Fatalf("missing entry for %s", key)
		}
	}
	if raw := prepared["/inbox/b"]; raw == "" || raw[0] != '{' {
		t.Fatalf("payload not kept raw: %q", raw)
	}
}

func TestLoadPreparedAcceptsSingleObject(t *testing.T) {
	path := writeRecords(t, `{"source_path": "/inbox/solo", "confidence": 1}`)

	prepared, err := LoadPrepared(path)
	if err != nil {
		t.Fatalf("LoadPrepared: %v", err)
	}
	if len(prepared) != 1 {
		t.Fatalf("len = %d, want 1", len(prepared))
	}
	if _, ok := prepared["/inbox/solo"]; !ok {
		t.Fatal("single object not indexed by its source path")
	}
}

func TestLoadPreparedFailuresAreFatal(t *testing.T) {
	cases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "absent.json")
		}},
		{"empty file", func(t *testing.T) string {
			return writeRecords(t, "   ")
		}},
		{"invalid json", func(t *testing.T) string {
			return writeRecords(t, "{not json")
		}},
		{"wrong shape", func(t *testing.T) string {
			return writeRecords(t, `"just a string"`)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadPrepared(tc.path(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrInputMissing) {
				t.Fatalf("err = %v, want ErrInputMissing", err)
			}
		})
	}
}
