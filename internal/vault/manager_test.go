package vault

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/craigeley/journal-companion-sub002/internal/apperr"
	"github.com/craigeley/journal-companion-sub002/internal/index"
	"github.com/craigeley/journal-companion-sub002/internal/records"
	"github.com/craigeley/journal-companion-sub002/internal/storage"
	"github.com/craigeley/journal-companion-sub002/internal/wikilink"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testManager(t *testing.T) (*Manager, string) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.CreateTemp("", "journal-vault-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	db, err := index.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(store, db)
	if err := m.Load(testLogger()); err != nil {
		t.Fatal(err)
	}
	return m, vaultDir
}

func mustCreate(t *testing.T, m *Manager, e *records.Entry) *EntryDetail {
	t.Helper()
	d, err := m.CreateEntry(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	return d
}

func entryAt(date time.Time) *records.Entry {
	return &records.Entry{
		DateCreated: date,
		Tags:        []string{"daily"},
		Content:     "A quiet day.",
	}
}

func TestCreateEntry_PathAndID(t *testing.T) {
	m, vaultDir := testManager(t)
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

	d := mustCreate(t, m, entryAt(date))

	wantPath := "Entries/2025/01-January/15/202501151430.md"
	if d.Path != wantPath {
		t.Errorf("path = %q, want %q", d.Path, wantPath)
	}
	if d.Entry.ID != "202501151430" {
		t.Errorf("id = %q, want %q", d.Entry.ID, "202501151430")
	}
	if _, err := os.Stat(filepath.Join(vaultDir, filepath.FromSlash(wantPath))); err != nil {
		t.Errorf("entry file missing on disk: %v", err)
	}
}

func TestCreateEntry_RequiresDate(t *testing.T) {
	m, _ := testManager(t)
	_, err := m.CreateEntry(context.Background(), &records.Entry{Content: "no date"})
	if !errors.Is(err, ErrMissingDate) {
		t.Fatalf("err = %v, want ErrMissingDate", err)
	}
}

func TestCreateEntry_Duplicate(t *testing.T) {
	m, _ := testManager(t)
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	mustCreate(t, m, entryAt(date))

	_, err := m.CreateEntry(context.Background(), entryAt(date))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	m, _ := testManager(t)
	_, err := m.GetEntry(context.Background(), "209901011200")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateEntry_DateChangeRelocates(t *testing.T) {
	m, vaultDir := testManager(t)
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	created := mustCreate(t, m, entryAt(date))

	// Move the entry one day later. The file must relocate and the old
	// file must be gone.
	updated := entryAt(date.AddDate(0, 0, 1))
	d, err := m.UpdateEntry(context.Background(), created.Entry.ID, updated, created.Checksum)
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if !d.Relocated {
		t.Error("expected Relocated = true on day change")
	}
	wantPath := "Entries/2025/01-January/16/202501151430.md"
	if d.Path != wantPath {
		t.Errorf("path = %q, want %q", d.Path, wantPath)
	}
	if _, err := os.Stat(filepath.Join(vaultDir, filepath.FromSlash(created.Path))); !os.IsNotExist(err) {
		t.Error("old file should be removed after relocation")
	}
	if _, err := os.Stat(filepath.Join(vaultDir, filepath.FromSlash(wantPath))); err != nil {
		t.Errorf("relocated file missing: %v", err)
	}

	// The index follows the move.
	got, _ := m.GetEntry(context.Background(), created.Entry.ID)
	if got.Path != wantPath {
		t.Errorf("indexed path = %q, want %q", got.Path, wantPath)
	}
}

func TestUpdateEntry_SameDayNoRelocation(t *testing.T) {
	m, _ := testManager(t)
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	created := mustCreate(t, m, entryAt(date))

	updated := entryAt(date.Add(2 * time.Hour))
	updated.Content = "Edited later the same day."
	d, err := m.UpdateEntry(context.Background(), created.Entry.ID, updated, created.Checksum)
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if d.Relocated {
		t.Error("same-day time change must not relocate")
	}
	if d.Path != created.Path {
		t.Errorf("path = %q, want %q", d.Path, created.Path)
	}
}

func TestUpdateEntry_ChecksumConflict(t *testing.T) {
	m, _ := testManager(t)
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	created := mustCreate(t, m, entryAt(date))

	_, err := m.UpdateEntry(context.Background(), created.Entry.ID, entryAt(date), "stale-checksum")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	m, vaultDir := testManager(t)
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	created := mustCreate(t, m, entryAt(date))

	if err := m.DeleteEntry(context.Background(), created.Entry.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := os.Stat(filepath.Join(vaultDir, filepath.FromSlash(created.Path))); !os.IsNotExist(err) {
		t.Error("file should be removed from disk")
	}
	if _, err := m.GetEntry(context.Background(), created.Entry.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("entry should be gone from the index")
	}
}

func TestSavePlace_SanitizesAndResolves(t *testing.T) {
	m, _ := testManager(t)

	p, err := m.SavePlace(context.Background(), &records.Place{
		Name:    `Cafe <Blue/Bottle>`,
		Callout: "cafe",
		Aliases: []string{"BB"},
	})
	if err != nil {
		t.Fatalf("SavePlace: %v", err)
	}
	if p.Name != "Cafe BlueBottle" {
		t.Errorf("sanitized name = %q, want %q", p.Name, "Cafe BlueBottle")
	}

	links := m.ResolveLinks("Coffee at [[BB]].")
	if len(links) != 1 || !links[0].Valid || links[0].Place == nil {
		t.Fatalf("link should resolve to the saved place, got %+v", links)
	}
	if links[0].Place.Name != "Cafe BlueBottle" {
		t.Errorf("resolved place = %q", links[0].Place.Name)
	}
}

func TestEntryDetail_PlaceCalloutJoin(t *testing.T) {
	m, _ := testManager(t)
	if _, err := m.SavePlace(context.Background(), &records.Place{Name: "Central Park", Callout: "park"}); err != nil {
		t.Fatal(err)
	}

	e := entryAt(time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC))
	e.Place = "Central Park"
	d := mustCreate(t, m, e)

	if d.Entry.PlaceCallout != "park" {
		t.Errorf("place callout = %q, want %q", d.Entry.PlaceCallout, "park")
	}
}

func TestSuggest_UsesSnapshot(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	if _, err := m.SavePlace(ctx, &records.Place{Name: "Central Park"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SavePerson(ctx, &records.Person{Name: "Alice Smith"}); err != nil {
		t.Fatal(err)
	}

	got := m.Suggest("al", wikilink.TriggerMention)
	if len(got) != 1 || got[0].Name != "Alice Smith" {
		t.Fatalf("mention suggestions = %+v, want Alice Smith only", got)
	}

	got = m.Suggest("", wikilink.TriggerWikiLink)
	if len(got) != 2 {
		t.Fatalf("wikilink suggestions = %d, want 2", len(got))
	}
}

func TestLoad_SkipsBadFiles(t *testing.T) {
	m, vaultDir := testManager(t)
	if err := os.MkdirAll(filepath.Join(vaultDir, "Places"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "Places", "Good Place.md"), []byte("---\ntags: [x]\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "Places", "Bad Place.md"), []byte("not a record"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Load(testLogger()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	places := m.ListPlaces()
	if len(places) != 1 || places[0].Name != "Good Place" {
		t.Fatalf("places = %+v, want just Good Place", places)
	}
}

func TestDeletePerson_RemovesFromSnapshot(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	if _, err := m.SavePerson(ctx, &records.Person{Name: "Bob Jones"}); err != nil {
		t.Fatal(err)
	}
	if err := m.DeletePerson(ctx, "bob jones"); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if len(m.ListPeople()) != 0 {
		t.Error("person should be gone from the snapshot")
	}
	if _, err := m.GetPerson("Bob Jones"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("GetPerson should report not found")
	}
}
