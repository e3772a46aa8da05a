package mover

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReserveFreePath(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "a.txt")

	got, ok := NewNamer().Reserve(want)
	if !ok || got != want {
		t.Fatalf("Reserve() = %q, %v, want %q, true", got, ok, want)
	}
}

func TestReserveSuffixBeforeExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "b-1.jpg"))

	got, ok := NewNamer().Reserve(filepath.Join(dir, "b.jpg"))
	if !ok {
		t.Fatal("Reserve() exhausted unexpectedly")
	}
	if want := filepath.Join(dir, "b-2.jpg"); got != want {
		t.Fatalf("Reserve() = %q, want %q", got, want)
	}
}

func TestReserveClaimsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	namer := NewNamer()
	target := filepath.Join(dir, "report.pdf")

	first, ok := namer.Reserve(target)
	if !ok || first != target {
		t.Fatalf("first Reserve() = %q, %v", first, ok)
	}
	second, ok := namer.Reserve(target)
	if !ok {
		t.Fatal("second Reserve() exhausted unexpectedly")
	}
	if want := filepath.Join(dir, "report-1.pdf"); second != want {
		t.Fatalf("second Reserve() = %q, want %q", second, want)
	}
	if !namer.Claimed(first) || !namer.Claimed(second) {
		t.Fatal("reserved paths not claimed")
	}
}

func TestReserveExtensionlessAndDotfile(t *testing.T) {
	dir := t.TempDir()
	namer := NewNamer()

	bundle := filepath.Join(dir, "bundle")
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok := namer.Reserve(bundle)
	if !ok || got != bundle+"-1" {
		t.Fatalf("Reserve(dir) = %q, %v, want %q", got, ok, bundle+"-1")
	}

	dotfile := filepath.Join(dir, ".config")
	touch(t, dotfile)
	got, ok = namer.Reserve(dotfile)
	if !ok || got != dotfile+"-1" {
		t.Fatalf("Reserve(dotfile) = %q, %v, want %q", got, ok, dotfile+"-1")
	}
}
