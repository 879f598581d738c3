package index

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/craigeley/journal-companion-sub002/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func syncTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store, testDB(t)
}

const sampleEntryText = `---
date_created: "2025-01-15T14:30:00.000-06:00"
tags: [daily]
place: "[[Central Park]]"
people:
- "[[Alice Smith]]"
---
Met [[Bob Jones]] for coffee.
`

func TestSync_IndexesEntries(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)

	rel := "Entries/2025/01-January/15/202501151430.md"
	if err := os.MkdirAll(filepath.Join(vaultDir, filepath.Dir(rel)), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, rel), []byte(sampleEntryText), 0o644); err != nil {
		t.Fatal(err)
	}
	// Place files live outside Entries/ and must not be indexed.
	if err := os.MkdirAll(filepath.Join(vaultDir, "Places"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "Places", "Central Park.md"), []byte("---\ntags: [park]\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	row, _ := db.GetEntry("202501151430")
	if row == nil {
		t.Fatal("entry not indexed")
	}
	if row.Place != "Central Park" {
		t.Errorf("place = %q, want %q", row.Place, "Central Park")
	}

	// Refs come from frontmatter and from body wikilinks.
	for _, target := range []string{"Central Park", "Alice Smith", "Bob Jones"} {
		bl, _ := db.Backlinks(target)
		if len(bl) != 1 {
			t.Errorf("Backlinks(%q) = %d, want 1", target, len(bl))
		}
	}

	if _, total, _ := db.ListEntries(10, 0, "", ""); total != 1 {
		t.Errorf("indexed %d entries, want 1 (place file must be skipped)", total)
	}
}

func TestSync_RemovesStale(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)

	rel := "Entries/2025/01-January/15/202501151430.md"
	if err := os.MkdirAll(filepath.Join(vaultDir, filepath.Dir(rel)), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, rel), []byte(sampleEntryText), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	if err := os.Remove(filepath.Join(vaultDir, rel)); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	if row, _ := db.GetEntry("202501151430"); row != nil {
		t.Error("stale entry should be removed from index")
	}
}

func TestSync_SkipsUnparseable(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)

	dir := filepath.Join(vaultDir, "Entries", "2025", "01-January", "15")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "202501151430.md"), []byte(sampleEntryText), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "202501151500.md"), []byte("no frontmatter at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if row, _ := db.GetEntry("202501151430"); row == nil {
		t.Error("good entry should be indexed despite bad sibling")
	}
	if row, _ := db.GetEntry("202501151500"); row != nil {
		t.Error("unparseable entry must not be indexed")
	}
}
