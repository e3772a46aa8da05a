package classify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeCompleter struct {
	content string
	err     error
	calls   int
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	return f.content, f.err
}

func singleSource(t *testing.T, name, content string) Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return Source{Path: path, Files: []string{name}}
}

func TestClassifierPrefersLLM(t *testing.T) {
	src := singleSource(t, "report.txt", "q3 numbers")
	completer := &fakeCompleter{content: `{"suggested_name":"Q3 Report","recommended_path":"documents/reports","confidence":0.92}`}

	rec := New(completer, NewRuleset("other", nil), nil, nil).Classify(context.Background(), src)
	if completer.calls != 1 {
		t.Fatalf("completer calls = %d, want 1", completer.calls)
	}
	if rec.RecommendedPath != "documents/reports" || rec.Confidence != 0.92 {
		t.Fatalf("record = %+v, want llm result", rec)
	}
}

func TestClassifierFallsBackOnError(t *testing.T) {
	src := singleSource(t, "report.txt", "q3 numbers")
	completer := &fakeCompleter{err: errors.New("llm request: http 500")}

	rec := New(completer, NewRuleset("other", nil), nil, nil).Classify(context.Background(), src)
	if rec.RecommendedPath != BucketDocuments {
		t.Fatalf("record = %+v, want rule-engine result", rec)
	}
	if rec.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want rule-engine 0.5", rec.Confidence)
	}
}

func TestClassifierFallsBackOnGarbagePayload(t *testing.T) {
	src := singleSource(t, "report.txt", "q3 numbers")
	completer := &fakeCompleter{content: "I could not classify this item."}

	rec := New(completer, NewRuleset("other", nil), nil, nil).Classify(context.Background(), src)
	if rec.RecommendedPath != BucketDocuments {
		t.Fatalf("record = %+v, want rule-engine result", rec)
	}
}

func TestClassifierNilCompleterUsesRules(t *testing.T) {
	src := singleSource(t, "report.txt", "q3 numbers")

	rec := New(nil, NewRuleset("other", nil), nil, nil).Classify(context.Background(), src)
	if rec.RecommendedPath != BucketDocuments {
		t.Fatalf("record = %+v, want rule-engine result", rec)
	}
}
