// Package vault coordinates storage, the entry index, and the in-memory
// place and person collections that link resolution and autocomplete
// depend on.
package vault

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/craigeley/journal-companion-sub002/internal/apperr"
	"github.com/craigeley/journal-companion-sub002/internal/checksum"
	"github.com/craigeley/journal-companion-sub002/internal/frontmatter"
	"github.com/craigeley/journal-companion-sub002/internal/index"
	"github.com/craigeley/journal-companion-sub002/internal/records"
	"github.com/craigeley/journal-companion-sub002/internal/storage"
	"github.com/craigeley/journal-companion-sub002/internal/wikilink"
)

// ErrMissingDate is returned when an entry is created or updated without
// a creation timestamp, which every entry needs for its id and path.
var ErrMissingDate = errors.New("vault: date_created is required")

// EntryDetail is the full representation of a journal entry.
type EntryDetail struct {
	Entry     *records.Entry  `json:"entry"`
	Path      string          `json:"path"`
	Raw       string          `json:"raw"`
	Checksum  string          `json:"checksum"`
	Links     []wikilink.Link `json:"links"`
	Relocated bool            `json:"relocated,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Manager coordinates vault storage, the SQLite index, and the in-memory
// snapshot of places and people.
type Manager struct {
	store storage.Provider
	db    *index.DB

	mu     sync.RWMutex
	places []records.Place
	people []records.Person
}

// NewManager creates a vault manager. Call Load before serving requests.
func NewManager(store storage.Provider, db *index.DB) *Manager {
	return &Manager{store: store, db: db}
}

// Load reads every place and person file into the in-memory snapshot.
// Files that fail to parse are skipped with a warning so one bad record
// never takes the collections down.
func (m *Manager) Load(logger *slog.Logger) error {
	places, err := m.loadPlaces(logger)
	if err != nil {
		return err
	}
	people, err := m.loadPeople(logger)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.places = places
	m.people = people
	m.mu.Unlock()

	logger.Info("vault: loaded",
		slog.Int("places", len(places)),
		slog.Int("people", len(people)))
	return nil
}

func (m *Manager) loadPlaces(logger *slog.Logger) ([]records.Place, error) {
	metas, err := m.store.List(records.PlacesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []records.Place
	for _, meta := range metas {
		data, err := m.store.Read(meta.Path)
		if err != nil {
			logger.Warn("vault: read place failed", slog.String("path", meta.Path), slog.String("error", err.Error()))
			continue
		}
		p, err := frontmatter.ParsePlace(path.Base(meta.Path), string(data))
		if err != nil {
			logger.Warn("vault: parse place failed", slog.String("path", meta.Path), slog.String("error", err.Error()))
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Manager) loadPeople(logger *slog.Logger) ([]records.Person, error) {
	metas, err := m.store.List(records.PeopleDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []records.Person
	for _, meta := range metas {
		data, err := m.store.Read(meta.Path)
		if err != nil {
			logger.Warn("vault: read person failed", slog.String("path", meta.Path), slog.String("error", err.Error()))
			continue
		}
		p, err := frontmatter.ParsePerson(path.Base(meta.Path), string(data))
		if err != nil {
			logger.Warn("vault: parse person failed", slog.String("path", meta.Path), slog.String("error", err.Error()))
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Snapshot returns copies of the place and person collections safe for
// concurrent use by resolvers and autocomplete.
func (m *Manager) Snapshot() ([]records.Place, []records.Person) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	places := make([]records.Place, len(m.places))
	copy(places, m.places)
	people := make([]records.Person, len(m.people))
	copy(people, m.people)
	return places, people
}

// GetEntry reads an entry from storage by id and enriches it with the
// resolved place callout and body wikilinks.
func (m *Manager) GetEntry(_ context.Context, id string) (*EntryDetail, error) {
	row, err := m.db.GetEntry(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.ErrNotFound
	}
	data, err := m.store.Read(row.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return m.buildDetail(row.Path, data, false)
}

// CreateEntry serializes a new entry and writes it at its date-derived
// path. The entry id is derived from date_created when not set.
func (m *Manager) CreateEntry(_ context.Context, e *records.Entry) (*EntryDetail, error) {
	if e.DateCreated.IsZero() {
		return nil, ErrMissingDate
	}
	if e.ID == "" {
		e.ID = records.EntryID(e.DateCreated)
	}
	if row, err := m.db.GetEntry(e.ID); err == nil && row != nil {
		return nil, apperr.ErrAlreadyExists
	}

	p := e.Path()
	if _, err := m.store.Read(p); err == nil {
		return nil, apperr.ErrAlreadyExists
	}

	data := []byte(frontmatter.SerializeEntry(e))
	if err := m.store.Write(p, data); err != nil {
		return nil, err
	}
	if err := m.indexEntry(p, e, data); err != nil {
		return nil, err
	}
	return m.buildDetail(p, data, false)
}

// UpdateEntry writes updated content with optimistic concurrency. When the
// creation date moved to a different day the entry file relocates: the new
// path is written first, then the old file is removed.
func (m *Manager) UpdateEntry(_ context.Context, id string, e *records.Entry, ifMatch string) (*EntryDetail, error) {
	if e.DateCreated.IsZero() {
		return nil, ErrMissingDate
	}
	row, err := m.db.GetEntry(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.ErrNotFound
	}
	existing, err := m.store.Read(row.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if !checksum.Matches(ifMatch, existing) {
		return nil, apperr.ErrConflict
	}

	e.ID = id
	newPath := records.EntryPathFor(e.DateCreated, id)
	relocated := newPath != row.Path

	data := []byte(frontmatter.SerializeEntry(e))
	if err := m.store.Write(newPath, data); err != nil {
		return nil, err
	}
	if relocated {
		if err := m.store.Delete(row.Path); err != nil {
			return nil, err
		}
	}
	if err := m.indexEntry(newPath, e, data); err != nil {
		return nil, err
	}
	detail, err := m.buildDetail(newPath, data, relocated)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteEntry removes an entry from storage and from the index.
func (m *Manager) DeleteEntry(_ context.Context, id string) error {
	row, err := m.db.GetEntry(id)
	if err != nil {
		return err
	}
	if row == nil {
		return apperr.ErrNotFound
	}
	if err := m.store.Delete(row.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return m.db.DeleteEntry(id)
}

// ResolveLinks parses every [[...]] span in text and resolves targets
// against the current place and person collections.
func (m *Manager) ResolveLinks(text string) []wikilink.Link {
	places, people := m.Snapshot()
	return wikilink.ParseLinks(text, places, people)
}

// Suggest returns autocomplete suggestions for the given trigger.
func (m *Manager) Suggest(searchText string, trigger wikilink.Trigger) []wikilink.Suggestion {
	places, people := m.Snapshot()
	return wikilink.Suggest(searchText, trigger, places, people)
}

// ListPlaces returns the in-memory place collection.
func (m *Manager) ListPlaces() []records.Place {
	places, _ := m.Snapshot()
	return places
}

// ListPeople returns the in-memory person collection.
func (m *Manager) ListPeople() []records.Person {
	_, people := m.Snapshot()
	return people
}

// GetPlace finds a place by name, case-insensitively.
func (m *Manager) GetPlace(name string) (*records.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.places {
		if strings.EqualFold(m.places[i].Name, name) {
			p := m.places[i]
			return &p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// GetPerson finds a person by name, case-insensitively.
func (m *Manager) GetPerson(name string) (*records.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.people {
		if strings.EqualFold(m.people[i].Name, name) {
			p := m.people[i]
			return &p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// SavePlace sanitizes the name, writes the place file, and refreshes the
// in-memory collection.
func (m *Manager) SavePlace(_ context.Context, p *records.Place) (*records.Place, error) {
	p.Name = records.SanitizeName(p.Name)
	if p.Name == "" {
		return nil, errors.New("vault: place name is required")
	}
	p.ID = p.Name
	if p.Callout == "" {
		p.Callout = records.DefaultCallout
	}
	if err := m.store.Write(p.Path(), []byte(frontmatter.SerializePlace(p))); err != nil {
		return nil, err
	}
	m.upsertPlace(*p)
	return p, nil
}

// SavePerson sanitizes the name, writes the person file, and refreshes
// the in-memory collection.
func (m *Manager) SavePerson(_ context.Context, p *records.Person) (*records.Person, error) {
	p.Name = records.SanitizeName(p.Name)
	if p.Name == "" {
		return nil, errors.New("vault: person name is required")
	}
	p.ID = p.Name
	if err := m.store.Write(p.Path(), []byte(frontmatter.SerializePerson(p))); err != nil {
		return nil, err
	}
	m.upsertPerson(*p)
	return p, nil
}

// DeletePlace removes a place file and drops it from the collection.
// Entries that reference the place keep their frontmatter value; the
// reference simply becomes unresolved.
func (m *Manager) DeletePlace(_ context.Context, name string) error {
	p, err := m.GetPlace(name)
	if err != nil {
		return err
	}
	if err := m.store.Delete(p.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.places {
		if strings.EqualFold(m.places[i].Name, name) {
			m.places = append(m.places[:i], m.places[i+1:]...)
			break
		}
	}
	return nil
}

// DeletePerson removes a person file and drops them from the collection.
func (m *Manager) DeletePerson(_ context.Context, name string) error {
	p, err := m.GetPerson(name)
	if err != nil {
		return err
	}
	if err := m.store.Delete(p.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.people {
		if strings.EqualFold(m.people[i].Name, name) {
			m.people = append(m.people[:i], m.people[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Manager) upsertPlace(p records.Place) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.places {
		if strings.EqualFold(m.places[i].Name, p.Name) {
			m.places[i] = p
			return
		}
	}
	m.places = append(m.places, p)
	sort.Slice(m.places, func(i, j int) bool { return m.places[i].Name < m.places[j].Name })
}

func (m *Manager) upsertPerson(p records.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.people {
		if strings.EqualFold(m.people[i].Name, p.Name) {
			m.people[i] = p
			return
		}
	}
	m.people = append(m.people, p)
	sort.Slice(m.people, func(i, j int) bool { return m.people[i].Name < m.people[j].Name })
}

// indexEntry upserts an entry into the index together with its refs.
func (m *Manager) indexEntry(relPath string, e *records.Entry, data []byte) error {
	var refs []index.Ref
	if e.Place != "" {
		refs = append(refs, index.Ref{Target: e.Place, Kind: index.RefKindPlace})
	}
	for _, person := range e.People {
		refs = append(refs, index.Ref{Target: person, Kind: index.RefKindPerson})
	}
	for _, l := range wikilink.ParseLinks(e.Content, nil, nil) {
		if t := strings.TrimSpace(l.Target); t != "" {
			refs = append(refs, index.Ref{Target: t, Kind: index.RefKindBody})
		}
	}
	return m.db.UpsertEntry(index.EntryRow{
		ID:          e.ID,
		Path:        relPath,
		DateCreated: e.DateCreated,
		Place:       e.Place,
		Tags:        e.Tags,
		Checksum:    checksum.Sum(data),
		UpdatedAt:   time.Now().UTC(),
	}, e.Content, refs)
}

// buildDetail parses raw data into a full entry detail, joining the place
// callout from the snapshot and resolving body wikilinks.
func (m *Manager) buildDetail(relPath string, data []byte, relocated bool) (*EntryDetail, error) {
	e, err := frontmatter.ParseEntry(path.Base(relPath), string(data))
	if err != nil {
		return nil, err
	}
	if e.Place != "" {
		if place, plErr := m.GetPlace(e.Place); plErr == nil {
			e.PlaceCallout = place.Callout
		}
	}
	links := m.ResolveLinks(e.Content)
	if links == nil {
		links = []wikilink.Link{}
	}
	return &EntryDetail{
		Entry:     e,
		Path:      relPath,
		Raw:       string(data),
		Checksum:  checksum.Sum(data),
		Links:     links,
		Relocated: relocated,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// ListEntries returns paginated entries with optional tag filter.
func (m *Manager) ListEntries(_ context.Context, limit, offset int, tag, sortBy string) ([]index.EntryRow, int, error) {
	return m.db.ListEntries(limit, offset, tag, sortBy)
}

// Search delegates full-text search to the index.
func (m *Manager) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return m.db.Search(query, limit)
}

// Backlinks returns ids of entries that reference the given entity name.
func (m *Manager) Backlinks(_ context.Context, target string) ([]string, error) {
	return m.db.Backlinks(target)
}

// EntriesAt returns ids of entries whose place matches the given name.
func (m *Manager) EntriesAt(_ context.Context, place string) ([]string, error) {
	return m.db.EntriesAt(place)
}
