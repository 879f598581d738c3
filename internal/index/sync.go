package index

import (
	"errors"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/craigeley/journal-companion-sub002/internal/checksum"
	"github.com/craigeley/journal-companion-sub002/internal/frontmatter"
	"github.com/craigeley/journal-companion-sub002/internal/records"
	"github.com/craigeley/journal-companion-sub002/internal/storage"
	"github.com/craigeley/journal-companion-sub002/internal/wikilink"
)

// Sync walks the journal's Entries tree and brings the index up to date:
//   - new/changed entry files are parsed and upserted
//   - entries removed from disk are deleted from the index
//
// A file that fails to parse is skipped with a warning so one bad entry
// never blocks the rest of the vault.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List(records.EntriesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			metas = nil // fresh vault, nothing written yet
		} else {
			return err
		}
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteByPath(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses an entry file and upserts it into the DB together with
// its outgoing references (frontmatter place and people plus any [[...]]
// spans in the body).
func indexFile(db *DB, relPath string, data []byte) error {
	entry, err := frontmatter.ParseEntry(path.Base(relPath), string(data))
	if err != nil {
		return err
	}

	refs := entryRefs(entry)

	row := EntryRow{
		ID:          entry.ID,
		Path:        relPath,
		DateCreated: entry.DateCreated,
		Place:       entry.Place,
		Tags:        entry.Tags,
		Checksum:    checksum.Sum(data),
		UpdatedAt:   time.Now().UTC(),
	}
	return db.UpsertEntry(row, entry.Content, refs)
}

// entryRefs collects every named entity an entry points at.
func entryRefs(entry *records.Entry) []Ref {
	var refs []Ref
	if entry.Place != "" {
		refs = append(refs, Ref{Target: entry.Place, Kind: RefKindPlace})
	}
	for _, p := range entry.People {
		refs = append(refs, Ref{Target: p, Kind: RefKindPerson})
	}
	for _, l := range wikilink.ParseLinks(entry.Content, nil, nil) {
		target := strings.TrimSpace(l.Target)
		if target != "" {
			refs = append(refs, Ref{Target: target, Kind: RefKindBody})
		}
	}
	return refs
}
