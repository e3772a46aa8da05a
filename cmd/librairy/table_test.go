package main

import (
	"strings"
	"testing"
)

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(nil, nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"ID", "FLOW", "MOVED"},
		[][]string{
			{"1", "dedupe", "3"},
			{"2"},
		},
		0, 2,
	)
	for _, want := range []string{"ID", "FLOW", "MOVED", "dedupe", "3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected table to contain %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) < 4 {
		t.Fatalf("expected bordered table, got %d lines:\n%s", len(lines), out)
	}
}

func TestRenderTableRightAlignsRequestedColumns(t *testing.T) {
	out := renderTable(
		[]string{"NAME", "COUNT"},
		[][]string{
			{"alpha", "7"},
			{"b", "1234"},
		},
		1,
	)
	lines := strings.Split(out, "\n")
	var alphaLine string
	for _, line := range lines {
		if strings.Contains(line, "alpha") {
			alphaLine = line
		}
	}
	if alphaLine == "" {
		t.Fatalf("row missing from output:\n%s", out)
	}
	// Right alignment pads the short count with spaces on the left.
	if !strings.Contains(alphaLine, "   7") {
		t.Fatalf("expected right-aligned count in %q", alphaLine)
	}
}
