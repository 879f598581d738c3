package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/craigeley/journal-companion-sub002/internal/vault"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// vaultRoot is used to resolve the audio recordings directory.
func NewRouter(mgr *vault.Manager, authEnabled bool, token string, sseHandler http.Handler, vaultRoot string) chi.Router {
	h := NewHandler(mgr)
	ah := NewAudioHandler(vaultRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Entries CRUD.
	r.Get("/entries", h.ListEntries)
	r.Post("/entries", h.CreateEntry)
	r.Get("/entries/{id}", h.GetEntry)
	r.Get("/entries/{id}/links", h.EntryLinks)
	r.Put("/entries/{id}", h.UpdateEntry)
	r.Delete("/entries/{id}", h.DeleteEntry)

	// Places and people.
	r.Get("/places", h.ListPlaces)
	r.Put("/places", h.SavePlace)
	r.Get("/places/{name}", h.GetPlace)
	r.Get("/places/{name}/entries", h.PlaceEntries)
	r.Delete("/places/{name}", h.DeletePlace)
	r.Get("/people", h.ListPeople)
	r.Put("/people", h.SavePerson)
	r.Get("/people/{name}", h.GetPerson)
	r.Delete("/people/{name}", h.DeletePerson)

	// Search and link tooling.
	r.Get("/search", h.Search)
	r.Get("/suggest", h.Suggest)
	r.Post("/suggest/insert", h.InsertSuggestion)
	r.Post("/links/resolve", h.ResolveLinks)
	r.Get("/backlinks", h.Backlinks)

	// Audio recordings (auth-protected).
	r.Post("/audio", ah.Upload)
	r.Get("/audio/{filename}", ah.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
