package scope_test

import (
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/scope"
)

func TestWithinRoot(t *testing.T) {
	tests := []struct {
		name string
		path string
		root string
		want bool
	}{
		{"inside", "/inbox/docs/a.txt", "/inbox", true},
		{"equals root", "/inbox", "/inbox", true},
		{"sibling prefix does not match", "/inbox-old/a.txt", "/inbox", false},
		{"outside", "/library/a.txt", "/inbox", false},
		{"empty root", "/inbox/a.txt", "", false},
		{"root slash", "/anything/below", "/", true},
		{"trailing separator on root", "/inbox/a.txt", "/inbox/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scope.WithinRoot(tt.path, tt.root); got != tt.want {
				t.Errorf("WithinRoot(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	roots := []string{"/inbox", "/downloads"}

	if got := scope.Classify("/inbox/report.pdf", roots); got != scope.Managed {
		t.Fatalf("expected managed, got %s", got)
	}
	if got := scope.Classify("/downloads/deep/file.zip", roots); got != scope.Managed {
		t.Fatalf("expected managed, got %s", got)
	}
	if got := scope.Classify("/library/keep.jpg", roots); got != scope.Protected {
		t.Fatalf("expected protected, got %s", got)
	}
	if got := scope.Classify("/inboxes/file", roots); got != scope.Protected {
		t.Fatalf("sibling dir must be protected, got %s", got)
	}
}

func TestFilterRestriction(t *testing.T) {
	restricted := scope.NewFilter([]string{"/inbox"}, true)
	if !restricted.Allows("/inbox/a.txt") {
		t.Fatal("managed path must be allowed")
	}
	if restricted.Allows("/library/a.txt") {
		t.Fatal("protected path must be blocked while restricted")
	}
	if !restricted.Restricted() {
		t.Fatal("expected restricted filter")
	}

	open := scope.NewFilter([]string{"/inbox"}, false)
	if !open.Allows("/library/a.txt") {
		t.Fatal("unrestricted filter allows everything")
	}
	if open.Classify("/library/a.txt") != scope.Protected {
		t.Fatal("classification is independent of the switch")
	}
}
