package records

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Vault subtree names. Entry files live in date-derived subdirectories; place
// and person files sit directly under their roots.
const (
	EntriesDir = "Entries"
	PlacesDir  = "Places"
	PeopleDir  = "People"
)

// Entry is one journal entry, an immutable snapshot of a parsed vault file.
// Mutations produce a new value; the on-disk path is derived from DateCreated,
// so changing that field requires a file relocation (see NeedsRelocation).
type Entry struct {
	// ID is the filename stem, YYYYMMDDHHmm at creation time.
	ID          string    `json:"id"`
	DateCreated time.Time `json:"date_created"`
	Tags        []string  `json:"tags,omitempty"`
	// Place is the display name unwrapped from a [[...]] reference.
	Place  string   `json:"place,omitempty"`
	People []string `json:"people,omitempty"`

	// PlaceCallout is joined in from the place index after load.
	// It is never written to the file.
	PlaceCallout string `json:"place_callout,omitempty"`

	Content string `json:"content"`

	// Weather captured at write time.
	Temperature *int64 `json:"temperature,omitempty"`
	Condition   string `json:"conditions,omitempty"`
	Humidity    *int64 `json:"humidity,omitempty"`
	AQI         *int64 `json:"aqi,omitempty"`

	// Mood.
	MoodValence      *float64 `json:"mood_valence,omitempty"`
	MoodLabels       []string `json:"mood_labels,omitempty"`
	MoodAssociations []string `json:"mood_associations,omitempty"`

	// Audio.
	AudioAttachments []string `json:"audio_attachments,omitempty"`
	RecordingDevice  string   `json:"recording_device,omitempty"`
	SampleRate       *int64   `json:"sample_rate,omitempty"`
	BitDepth         *int64   `json:"bit_depth,omitempty"`

	// Unknown holds frontmatter fields outside the recognized schema, keyed by
	// field name; UnknownOrder records first-appearance order for lossless
	// re-serialization and must stay a permutation of Unknown's key set.
	Unknown      map[string]Scalar `json:"-"`
	UnknownOrder []string          `json:"-"`
}

// EntryID derives the canonical entry id for a creation timestamp.
func EntryID(t time.Time) string {
	return t.Format("200601021504")
}

// Path returns the vault-relative file path for the entry, derived from
// DateCreated: Entries/YYYY/MM-Month/DD/<id>.md.
func (e *Entry) Path() string {
	return EntryPathFor(e.DateCreated, e.ID)
}

// EntryPathFor builds the date-derived path for an arbitrary id.
func EntryPathFor(date time.Time, id string) string {
	return path.Join(
		EntriesDir,
		date.Format("2006"),
		fmt.Sprintf("%02d-%s", date.Month(), date.Month().String()),
		date.Format("02"),
		id+".md",
	)
}

// NeedsRelocation reports whether saving this entry over a previous snapshot
// requires moving the file: the date-derived directory changed. The caller
// owning file I/O must write the new path and delete the old one.
func (e *Entry) NeedsRelocation(old *Entry) bool {
	if old == nil {
		return false
	}
	return e.Path() != old.Path()
}

// HasUnknown reports whether the entry carries any unrecognized fields.
func (e *Entry) HasUnknown() bool { return len(e.UnknownOrder) > 0 }

// IDFromFilename strips the .md extension from a vault filename.
func IDFromFilename(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, ".md")
}
