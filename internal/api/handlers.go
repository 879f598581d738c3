package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/craigeley/journal-companion-sub002/internal/apperr"
	"github.com/craigeley/journal-companion-sub002/internal/frontmatter"
	"github.com/craigeley/journal-companion-sub002/internal/records"
	"github.com/craigeley/journal-companion-sub002/internal/vault"
	"github.com/craigeley/journal-companion-sub002/internal/wikilink"
)

// Handler holds API route handlers.
type Handler struct {
	mgr *vault.Manager
}

// NewHandler creates a new Handler.
func NewHandler(mgr *vault.Manager) *Handler {
	return &Handler{mgr: mgr}
}

// nameParam extracts and decodes a name URL parameter such as a place or
// person name, which may contain spaces.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListEntries handles GET /api/entries.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tag := q.Get("tag")
	sortBy := q.Get("sort")

	rows, total, err := h.mgr.ListEntries(r.Context(), limit, offset, tag, sortBy)
	if err != nil {
		slog.Error("list entries failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	items := make([]EntryListItem, len(rows))
	for i, row := range rows {
		tags := row.Tags
		if tags == nil {
			tags = []string{}
		}
		items[i] = EntryListItem{
			ID:          row.ID,
			Path:        row.Path,
			DateCreated: row.DateCreated,
			Place:       row.Place,
			Tags:        tags,
			Checksum:    row.Checksum,
			UpdatedAt:   row.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: total})
}

// GetEntry handles GET /api/entries/{id}.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.mgr.GetEntry(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get entry failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// EntryLinks handles GET /api/entries/{id}/links. It returns the wikilinks
// found in the entry body, resolved against the current place/person snapshot.
func (h *Handler) EntryLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.mgr.GetEntry(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get entry links failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": detail.Links})
}

// CreateEntry handles POST /api/entries.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	entry, err := h.entryFromRequest(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	detail, err := h.mgr.CreateEntry(r.Context(), entry)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("entry already exists"))
		case errors.Is(err, vault.ErrMissingDate):
			writeJSON(w, http.StatusBadRequest, errorBody("date_created is required"))
		default:
			slog.Error("create entry failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// UpdateEntry handles PUT /api/entries/{id}.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	entry, err := h.entryFromRequest(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	detail, err := h.mgr.UpdateEntry(r.Context(), id, entry, ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		case errors.Is(err, vault.ErrMissingDate):
			writeJSON(w, http.StatusBadRequest, errorBody("date_created is required"))
		default:
			slog.Error("update entry failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteEntry handles DELETE /api/entries/{id}.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.mgr.DeleteEntry(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete entry failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// entryFromRequest builds an entry record from either raw markdown or the
// structured fields.
func (h *Handler) entryFromRequest(req *EntryRequest) (*records.Entry, error) {
	if req.Raw != "" {
		entry, err := frontmatter.ParseEntry("entry.md", req.Raw)
		if err != nil {
			return nil, err
		}
		// The id is derived from date_created downstream.
		entry.ID = ""
		return entry, nil
	}
	return req.toEntry()
}

// ListPlaces handles GET /api/places.
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"places": h.mgr.ListPlaces()})
}

// GetPlace handles GET /api/places/{name}.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	p, err := h.mgr.GetPlace(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PlaceEntries handles GET /api/places/{name}/entries. It returns the ids
// of entries whose place field matches the named place.
func (h *Handler) PlaceEntries(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if _, err := h.mgr.GetPlace(name); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	ids, err := h.mgr.EntriesAt(r.Context(), name)
	if err != nil {
		slog.Error("place entries failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": ids})
}

// SavePlace handles PUT /api/places.
func (h *Handler) SavePlace(w http.ResponseWriter, r *http.Request) {
	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	p, err := h.mgr.SavePlace(r.Context(), req.toPlace())
	if err != nil {
		slog.Error("save place failed", slog.String("name", req.Name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePlace handles DELETE /api/places/{name}.
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if err := h.mgr.DeletePlace(r.Context(), name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete place failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPeople handles GET /api/people.
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"people": h.mgr.ListPeople()})
}

// GetPerson handles GET /api/people/{name}.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	p, err := h.mgr.GetPerson(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SavePerson handles PUT /api/people.
func (h *Handler) SavePerson(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	p, err := h.mgr.SavePerson(r.Context(), req.toPerson())
	if err != nil {
		slog.Error("save person failed", slog.String("name", req.Name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePerson handles DELETE /api/people/{name}.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if err := h.mgr.DeletePerson(r.Context(), name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete person failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.mgr.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Suggest handles GET /api/suggest.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	trigger := parseTrigger(r.URL.Query().Get("trigger"))
	suggestions := h.mgr.Suggest(q, trigger)
	if suggestions == nil {
		suggestions = []wikilink.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// ResolveLinks handles POST /api/links/resolve.
func (h *Handler) ResolveLinks(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	links := h.mgr.ResolveLinks(req.Text)
	if links == nil {
		links = []wikilink.Link{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

// InsertSuggestion handles POST /api/suggest/insert.
func (h *Handler) InsertSuggestion(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Insertion == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("insertion is required"))
		return
	}
	text, cursor := wikilink.Insert(req.Text, parseTrigger(req.Trigger), wikilink.Suggestion{Insertion: req.Insertion})
	writeJSON(w, http.StatusOK, InsertResponse{Text: text, Cursor: cursor})
}

// Backlinks handles GET /api/backlinks.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'target' is required"))
		return
	}
	ids, err := h.mgr.Backlinks(r.Context(), target)
	if err != nil {
		slog.Error("backlinks failed", slog.String("target", target), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": ids})
}

func parseTrigger(s string) wikilink.Trigger {
	if s == "mention" || s == "@" {
		return wikilink.TriggerMention
	}
	return wikilink.TriggerWikiLink
}
