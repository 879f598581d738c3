// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/craigeley/journal-companion-sub002/internal/index"
	"github.com/craigeley/journal-companion-sub002/internal/storage"
	"github.com/craigeley/journal-companion-sub002/internal/vault"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "journal-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestManager creates a loaded vault manager over a temp vault and DB.
func TestManager(t *testing.T) (*vault.Manager, string) {
	t.Helper()
	vaultDir, store := TestVault(t)
	db := TestDB(t)
	mgr := vault.NewManager(store, db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := mgr.Load(logger); err != nil {
		t.Fatal(err)
	}
	return mgr, vaultDir
}
