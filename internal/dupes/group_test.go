package dupes_test

import (
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/dupes"
)

func TestGroupRecordsPreservesFirstSeenOrder(t *testing.T) {
	records := []dupes.FileRecord{
		{Path: "/inbox/a.jpg", Checksum: "xx"},
		{Path: "/inbox/b.txt", Checksum: "yy"},
		{Path: "/inbox/c.jpg", Checksum: "xx"},
		{Path: "/inbox/d.txt", Checksum: "yy"},
		{Path: "/inbox/e.jpg", Checksum: "xx"},
	}

	groups := dupes.GroupRecords(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Checksum != "xx" || groups[1].Checksum != "yy" {
		t.Fatalf("expected first-seen order xx,yy got %s,%s", groups[0].Checksum, groups[1].Checksum)
	}
	if len(groups[0].Members) != 3 {
		t.Fatalf("expected 3 members in xx, got %d", len(groups[0].Members))
	}
	if groups[0].Members[0].Path != "/inbox/a.jpg" {
		t.Fatalf("member order must match report order, got %s", groups[0].Members[0].Path)
	}
}

func TestGroupRecordsDropsSingletonsAndBlanks(t *testing.T) {
	records := []dupes.FileRecord{
		{Path: "/inbox/only.pdf", Checksum: "solo"},
		{Path: "/inbox/nohash.pdf", Checksum: ""},
		{Path: "/inbox/pair1.pdf", Checksum: "pp"},
		{Path: "/inbox/pair2.pdf", Checksum: "pp"},
	}

	groups := dupes.GroupRecords(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Checksum != "pp" {
		t.Fatalf("unexpected group: %+v", groups[0])
	}
}

func TestGroupRecordsEmptyInput(t *testing.T) {
	if groups := dupes.GroupRecords(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}
