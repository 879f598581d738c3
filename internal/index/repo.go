package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Ref kinds: where a reference to a place or person came from.
const (
	RefKindPlace  = "place"  // frontmatter place field
	RefKindPerson = "person" // frontmatter people list
	RefKindBody   = "body"   // [[...]] span in the entry body
)

// EntryRow represents a row in the entries table.
type EntryRow struct {
	ID          string
	Path        string
	DateCreated time.Time
	Place       string
	Tags        []string
	Checksum    string
	UpdatedAt   time.Time
}

// Ref is one outgoing reference from an entry to a named entity.
type Ref struct {
	Target string
	Kind   string
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Snippet string `json:"snippet"`
}

// UpsertEntry inserts or replaces an entry, its FTS row, and its outgoing
// refs within a transaction. A relocated entry (same id, new date-derived
// path) simply overwrites its row; the UNIQUE path constraint is kept by the
// id primary key replacing first.
func (db *DB) UpsertEntry(e EntryRow, body string, refs []Ref) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(e.Tags)

	_, err = tx.Exec(`
		INSERT INTO entries (id, path, date_created, place, tags, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path         = excluded.path,
			date_created = excluded.date_created,
			place        = excluded.place,
			tags         = excluded.tags,
			checksum     = excluded.checksum,
			body         = excluded.body,
			updated_at   = excluded.updated_at
	`, e.ID, e.Path, e.DateCreated, e.Place, string(tagsJSON), e.Checksum, body, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert entry: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, e.ID, e.Place, body, e.Tags); err != nil {
		return err
	}

	// Replace refs: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM refs WHERE source = ?`, e.ID)
	if len(refs) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO refs (source, target, kind) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare ref insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range refs {
			if _, err := stmt.Exec(e.ID, r.Target, r.Kind); err != nil {
				return fmt.Errorf("index: insert ref: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteEntry removes an entry, its FTS row, and its outgoing refs.
func (db *DB) DeleteEntry(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM refs WHERE source = ?`, id)
	_, _ = tx.Exec(`DELETE FROM entries WHERE id = ?`, id)

	return tx.Commit()
}

// DeleteByPath removes the entry indexed at the given vault path, if any.
// The watcher only knows paths, not ids.
func (db *DB) DeleteByPath(path string) error {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM entries WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // nothing indexed at that path
	}
	if err != nil {
		return fmt.Errorf("index: lookup by path: %w", err)
	}
	return db.DeleteEntry(id)
}

// GetEntry returns one row by id, or nil when not indexed.
func (db *DB) GetEntry(id string) (*EntryRow, error) {
	row := db.conn.QueryRow(`
		SELECT id, path, date_created, place, tags, checksum, updated_at
		FROM entries WHERE id = ?
	`, id)
	var e EntryRow
	var tagsJSON string
	err := row.Scan(&e.ID, &e.Path, &e.DateCreated, &e.Place, &tagsJSON, &e.Checksum, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get entry: %w", err)
	}
	_ = json.Unmarshal([]byte(tagsJSON), &e.Tags)
	return &e, nil
}

// GetChecksum returns the stored checksum for a path, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM entries WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil // not found is fine
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns every indexed path mapped to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListEntries returns a page of entries, newest first by default, with an
// optional tag filter, plus the total row count for the filter.
func (db *DB) ListEntries(limit, offset int, tag, sort string) ([]EntryRow, int, error) {
	if limit <= 0 {
		limit = 50
	}

	where := ""
	args := []any{}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where = `WHERE tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM entries `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count entries: %w", err)
	}

	order := `date_created DESC`
	switch sort {
	case "date_asc":
		order = `date_created ASC`
	case "updated_at":
		order = `updated_at DESC`
	}

	query := fmt.Sprintf(`
		SELECT id, path, date_created, place, tags, checksum, updated_at
		FROM entries %s ORDER BY %s LIMIT ? OFFSET ?
	`, where, order)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list entries: %w", err)
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var e EntryRow
		var tagsJSON string
		if err := rows.Scan(&e.ID, &e.Path, &e.DateCreated, &e.Place, &tagsJSON, &e.Checksum, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &e.Tags)
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// Backlinks returns ids of entries that reference the given entity name,
// whether from frontmatter or from a body wikilink.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT source FROM refs WHERE target = ? COLLATE NOCASE ORDER BY source
	`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// EntriesAt returns ids of entries whose frontmatter place is the given name.
func (db *DB) EntriesAt(place string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT id FROM entries WHERE place = ? COLLATE NOCASE ORDER BY date_created DESC
	`, place)
	if err != nil {
		return nil, fmt.Errorf("index: entries at: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
