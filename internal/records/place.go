package records

import (
	"path"
	"strings"
)

// DefaultCallout is the category assigned when a place file carries none.
const DefaultCallout = "place"

// knownCallouts is the fixed category vocabulary used for icon and color
// selection. A value outside this set is preserved verbatim in the record and
// simply renders with the default treatment; it is never a parse error.
var knownCallouts = map[string]struct{}{
	"place":      {},
	"home":       {},
	"work":       {},
	"cafe":       {},
	"restaurant": {},
	"bar":        {},
	"park":       {},
	"beach":      {},
	"trail":      {},
	"gym":        {},
	"library":    {},
	"museum":     {},
	"theater":    {},
	"music":      {},
	"shop":       {},
	"market":     {},
	"hotel":      {},
	"airport":    {},
	"station":    {},
	"hospital":   {},
	"school":     {},
	"church":     {},
}

// KnownCallout reports whether c is in the fixed callout vocabulary.
func KnownCallout(c string) bool {
	_, ok := knownCallouts[c]
	return ok
}

// Place is a named location referenced by journal entries.
type Place struct {
	// ID is the sanitized name, which is also the filename stem. Two places
	// whose names sanitize identically collide; the resolver treats the later
	// one as shadowing the earlier in lookup order.
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Callout   string   `json:"callout,omitempty"`
	Pin       string   `json:"pin,omitempty"`
	Color     string   `json:"color,omitempty"`
	URL       string   `json:"url,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	Content   string   `json:"content,omitempty"`

	Unknown      map[string]Scalar `json:"-"`
	UnknownOrder []string          `json:"-"`
}

// Path returns the vault-relative file path for the place.
func (p *Place) Path() string {
	return path.Join(PlacesDir, p.ID+".md")
}

// SanitizeName derives a deterministic filename stem from a display name:
// characters illegal in filenames are stripped and whitespace runs collapse to
// a single space. The same function runs at creation time and at load time so
// id lookups stay stable.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
