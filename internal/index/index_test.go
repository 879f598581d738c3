package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "journal-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRow(id, path string) EntryRow {
	return EntryRow{
		ID:          id,
		Path:        path,
		DateCreated: time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC),
		Tags:        []string{},
		Checksum:    "cs-" + id,
		UpdatedAt:   time.Now(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM entries`).Scan(&count); err != nil {
		t.Fatalf("entries table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM refs`).Scan(&count); err != nil {
		t.Fatalf("refs table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := testRow("202501151430", "Entries/2025/01-January/15/202501151430.md")
	row.Place = "Central Park"
	row.Tags = []string{"walk", "morning"}
	if err := db.UpsertEntry(row, "Went for a walk.", []Ref{{Target: "Central Park", Kind: RefKindPlace}}); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	cs, err := db.GetChecksum(row.Path)
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "cs-202501151430" {
		t.Errorf("checksum = %q, want %q", cs, "cs-202501151430")
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(testRow("202501151430", "a.md"), "body", []Ref{{Target: "Alice Smith", Kind: RefKindPerson}})
	_ = db.UpsertEntry(testRow("202501161200", "b.md"), "body", []Ref{{Target: "alice smith", Kind: RefKindBody}})

	bl, err := db.Backlinks("Alice Smith")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 {
		t.Fatalf("expected 2 backlinks (case-insensitive), got %d", len(bl))
	}
}

func TestDeleteEntry(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(testRow("202501151430", "del.md"), "body", []Ref{{Target: "Bob Jones", Kind: RefKindPerson}})

	if err := db.DeleteEntry("202501151430"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted entry still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("Bob Jones")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestDeleteByPath(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(testRow("202501151430", "old/path.md"), "body", nil)

	if err := db.DeleteByPath("old/path.md"); err != nil {
		t.Fatalf("DeleteByPath: %v", err)
	}
	row, _ := db.GetEntry("202501151430")
	if row != nil {
		t.Error("entry should be gone after DeleteByPath")
	}

	// Unknown paths are a no-op.
	if err := db.DeleteByPath("never/indexed.md"); err != nil {
		t.Fatalf("DeleteByPath unknown: %v", err)
	}
}

func TestUpsertRelocatesPath(t *testing.T) {
	db := testDB(t)
	row := testRow("202501151430", "Entries/2025/01-January/15/202501151430.md")
	_ = db.UpsertEntry(row, "body", []Ref{{Target: "Old Place", Kind: RefKindPlace}})

	// Same id, new date-derived path: the row moves, refs are replaced.
	row.Path = "Entries/2025/01-January/16/202501151430.md"
	if err := db.UpsertEntry(row, "body", []Ref{{Target: "New Place", Kind: RefKindPlace}}); err != nil {
		t.Fatalf("UpsertEntry relocate: %v", err)
	}

	got, _ := db.GetEntry("202501151430")
	if got == nil || got.Path != row.Path {
		t.Fatalf("entry path = %+v, want %q", got, row.Path)
	}
	if bl, _ := db.Backlinks("Old Place"); len(bl) != 0 {
		t.Error("old ref should be removed on upsert")
	}
	if bl, _ := db.Backlinks("New Place"); len(bl) != 1 {
		t.Error("new ref should exist")
	}
}

func TestListEntries(t *testing.T) {
	db := testDB(t)
	for i, id := range []string{"202501011200", "202501021200", "202501031200"} {
		row := testRow(id, id+".md")
		row.DateCreated = time.Date(2025, 1, i+1, 12, 0, 0, 0, time.UTC)
		if i == 1 {
			row.Tags = []string{"travel"}
		}
		_ = db.UpsertEntry(row, "body", nil)
	}

	rows, total, err := db.ListEntries(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("total = %d, len = %d, want 3/3", total, len(rows))
	}
	if rows[0].ID != "202501031200" {
		t.Errorf("default sort should be newest first, got %q", rows[0].ID)
	}

	rows, total, err = db.ListEntries(10, 0, "travel", "")
	if err != nil {
		t.Fatalf("ListEntries tag filter: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != "202501021200" {
		t.Errorf("tag filter = %+v (total %d), want just 202501021200", rows, total)
	}

	rows, _, _ = db.ListEntries(10, 0, "", "date_asc")
	if rows[0].ID != "202501011200" {
		t.Errorf("date_asc should be oldest first, got %q", rows[0].ID)
	}

	rows, total, _ = db.ListEntries(2, 2, "", "")
	if total != 3 || len(rows) != 1 {
		t.Errorf("pagination: total = %d, len = %d, want 3/1", total, len(rows))
	}
}

func TestEntriesAt(t *testing.T) {
	db := testDB(t)
	a := testRow("202501011200", "a.md")
	a.Place = "Blue Bottle"
	b := testRow("202501021200", "b.md")
	b.Place = "blue bottle"
	c := testRow("202501031200", "c.md")
	c.Place = "Elsewhere"
	for _, r := range []EntryRow{a, b, c} {
		_ = db.UpsertEntry(r, "body", nil)
	}

	ids, err := db.EntriesAt("Blue Bottle")
	if err != nil {
		t.Fatalf("EntriesAt: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 entries at place (case-insensitive), got %d", len(ids))
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestLookupErrorsSurface(t *testing.T) {
	// Missing rows report as not-found, but real query failures must not be
	// mistaken for them. A closed connection is the simplest way to force one.
	db := testDB(t)
	db.Close()

	if _, err := db.GetEntry("202501151430"); err == nil {
		t.Error("GetEntry on closed DB should return an error")
	}
	if _, err := db.GetChecksum("Entries/2025/01-January/15/202501151430.md"); err == nil {
		t.Error("GetChecksum on closed DB should return an error")
	}
	if err := db.DeleteByPath("Entries/2025/01-January/15/202501151430.md"); err == nil {
		t.Error("DeleteByPath on closed DB should return an error")
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	row := testRow("202501151430", "s.md")
	_ = db.UpsertEntry(row, "uniqueword appears here", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}
