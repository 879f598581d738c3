package frontmatter

import (
	"errors"
	"testing"
	"time"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

func TestParseEntry_FrontmatterAndBody(t *testing.T) {
	input := "---\ndate_created: 2025-01-15T14:30:00.000-08:00\ntags: [a, b]\n---\nHello"
	e, err := ParseEntry("202501151430.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != "202501151430" {
		t.Errorf("id = %q", e.ID)
	}
	want := time.Date(2025, 1, 15, 14, 30, 0, 0, time.FixedZone("", -8*3600))
	if !e.DateCreated.Equal(want) {
		t.Errorf("date = %v, want %v", e.DateCreated, want)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "a" || e.Tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", e.Tags)
	}
	if e.Content != "Hello" {
		t.Errorf("content = %q, want %q", e.Content, "Hello")
	}
}

func TestParseEntry_NoFrontmatter(t *testing.T) {
	_, err := ParseEntry("x.md", "no frontmatter at all")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Kind != MalformedDocument {
		t.Errorf("kind = %v, want MalformedDocument", pe.Kind)
	}
}

func TestParseEntry_MissingDateCreated(t *testing.T) {
	_, err := ParseEntry("x.md", "---\ntags: [a]\n---\nbody")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Kind != MissingRequiredField || pe.Field != "date_created" {
		t.Errorf("got kind=%v field=%q", pe.Kind, pe.Field)
	}
}

func TestParseEntry_UnparseableDateFailsParse(t *testing.T) {
	if _, err := ParseEntry("x.md", "---\ndate_created: yesterday\n---\nbody"); err == nil {
		t.Fatal("expected error for unparseable date_created")
	}
}

func TestParseEntry_DateWithoutFractionalSeconds(t *testing.T) {
	e, err := ParseEntry("x.md", "---\ndate_created: 2025-01-15T14:30:00-08:00\n---\nbody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.DateCreated.Hour() != 14 {
		t.Errorf("hour = %d", e.DateCreated.Hour())
	}
}

func TestParseEntry_PlaceAndPeopleUnwrapped(t *testing.T) {
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"place: \"[[Central Park]]\"\n" +
		"people:\n" +
		"- \"[[Alice Smith]]\"\n" +
		"- \"[[Bob Jones]]\"\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Place != "Central Park" {
		t.Errorf("place = %q", e.Place)
	}
	if len(e.People) != 2 || e.People[0] != "Alice Smith" || e.People[1] != "Bob Jones" {
		t.Errorf("people = %v", e.People)
	}
}

func TestParseEntry_WeatherMoodAudio(t *testing.T) {
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"temp: 62\n" +
		"cond: \"Partly Cloudy\"\n" +
		"humidity: 40\n" +
		"aqi: 12\n" +
		"mood_valence: 0.35\n" +
		"mood_labels:\n" +
		"- calm\n" +
		"audio_attachments:\n" +
		"- 202501151430.m4a\n" +
		"recording_device: \"AirPods Pro\"\n" +
		"sample_rate: 48000\n" +
		"bit_depth: 16\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Temperature == nil || *e.Temperature != 62 {
		t.Errorf("temp = %v", e.Temperature)
	}
	if e.Condition != "Partly Cloudy" {
		t.Errorf("cond = %q", e.Condition)
	}
	if e.MoodValence == nil || *e.MoodValence != 0.35 {
		t.Errorf("mood_valence = %v", e.MoodValence)
	}
	if len(e.MoodLabels) != 1 || e.MoodLabels[0] != "calm" {
		t.Errorf("mood_labels = %v", e.MoodLabels)
	}
	if len(e.AudioAttachments) != 1 || e.AudioAttachments[0] != "202501151430.m4a" {
		t.Errorf("audio_attachments = %v", e.AudioAttachments)
	}
	if e.SampleRate == nil || *e.SampleRate != 48000 || e.BitDepth == nil || *e.BitDepth != 16 {
		t.Errorf("sample_rate = %v, bit_depth = %v", e.SampleRate, e.BitDepth)
	}
}

func TestParseEntry_BadScalarLeavesFieldAbsent(t *testing.T) {
	input := "---\ndate_created: 2025-01-15T14:30:00.000-08:00\ntemp: warm\n---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("partial success expected: %v", err)
	}
	if e.Temperature != nil {
		t.Errorf("temp = %v, want nil", e.Temperature)
	}
}

func TestParseEntry_UnknownFieldOrderPreserved(t *testing.T) {
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"custom_c: 1\n" +
		"custom_a: 2\n" +
		"custom_b: 3\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"custom_c", "custom_a", "custom_b"}
	if len(e.UnknownOrder) != 3 {
		t.Fatalf("order = %v", e.UnknownOrder)
	}
	for i, k := range want {
		if e.UnknownOrder[i] != k {
			t.Errorf("order[%d] = %q, want %q", i, e.UnknownOrder[i], k)
		}
	}
}

func TestParseEntry_UnknownCoercion(t *testing.T) {
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"custom_int: 42\n" +
		"custom_rating: 4.5\n" +
		"custom_flag: true\n" +
		"custom_when: 2024-06-01T08:00:00.000Z\n" +
		"custom_text: \"plain words\"\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := []struct {
		key  string
		kind records.ScalarKind
	}{
		{"custom_int", records.KindInt},
		{"custom_rating", records.KindFloat},
		{"custom_flag", records.KindBool},
		{"custom_when", records.KindTime},
		{"custom_text", records.KindText},
	}
	for _, c := range checks {
		s, ok := e.Unknown[c.key]
		if !ok {
			t.Errorf("%s missing", c.key)
			continue
		}
		if s.Kind != c.kind {
			t.Errorf("%s kind = %v, want %v", c.key, s.Kind, c.kind)
		}
	}
	if e.Unknown["custom_rating"].Float != 4.5 {
		t.Errorf("custom_rating = %v", e.Unknown["custom_rating"].Float)
	}
}

func TestParseEntry_UnknownMultilineArray(t *testing.T) {
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"custom_list:\n" +
		"- one\n" +
		"- two\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := e.Unknown["custom_list"]
	if s.Kind != records.KindTextList || len(s.List) != 2 || s.List[0] != "one" {
		t.Errorf("custom_list = %+v", s)
	}
}

func TestParseEntry_EmptyValueOpensArray(t *testing.T) {
	// A key with an empty value always opens a multi-line array, even when no
	// items follow. This mirrors the original format's behavior.
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"custom_empty:\n" +
		"other: 1\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := e.Unknown["custom_empty"]
	if !ok || s.Kind != records.KindTextList || len(s.List) != 0 {
		t.Errorf("custom_empty = %+v", s)
	}
}

func TestParseEntry_StrayArrayItemIgnored(t *testing.T) {
	input := "---\n" +
		"date_created: 2025-01-15T14:30:00.000-08:00\n" +
		"temp: 62\n" +
		"- orphan item\n" +
		"---\nbody"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.UnknownOrder) != 0 {
		t.Errorf("unknown = %v", e.Unknown)
	}
}

func TestParseEntry_BodyKeepsInternalDelimiters(t *testing.T) {
	input := "---\ndate_created: 2025-01-15T14:30:00.000-08:00\n---\nabove\n---\nbelow"
	e, err := ParseEntry("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content != "above\n---\nbelow" {
		t.Errorf("content = %q", e.Content)
	}
}

func TestParsePlace_Fields(t *testing.T) {
	input := "---\n" +
		"location: \"40.7812,-73.9665\"\n" +
		"addr: \"New York, NY\"\n" +
		"tags: [outdoors]\n" +
		"callout: \"park\"\n" +
		"aliases:\n" +
		"- The Park\n" +
		"---\nNotes about the park."
	p, err := ParsePlace("Central Park.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "Central Park" || p.Name != "Central Park" {
		t.Errorf("id = %q, name = %q", p.ID, p.Name)
	}
	if p.Latitude == nil || *p.Latitude != 40.7812 || p.Longitude == nil || *p.Longitude != -73.9665 {
		t.Errorf("location = %v,%v", p.Latitude, p.Longitude)
	}
	if p.Callout != "park" {
		t.Errorf("callout = %q", p.Callout)
	}
	if len(p.Aliases) != 1 || p.Aliases[0] != "The Park" {
		t.Errorf("aliases = %v", p.Aliases)
	}
}

func TestParsePlace_CalloutDefaultsAndUnknownPreserved(t *testing.T) {
	p, err := ParsePlace("Spot.md", "---\naddr: \"Somewhere\"\n---\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Callout != records.DefaultCallout {
		t.Errorf("callout = %q, want %q", p.Callout, records.DefaultCallout)
	}

	// Unrecognized callout is not an error and is kept verbatim.
	p, err = ParsePlace("Spot.md", "---\ncallout: \"zeppelin-hangar\"\n---\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Callout != "zeppelin-hangar" {
		t.Errorf("callout = %q", p.Callout)
	}
	if records.KnownCallout(p.Callout) {
		t.Error("zeppelin-hangar should not be a known callout")
	}
}

func TestParsePlace_BadLocationLeavesNil(t *testing.T) {
	p, err := ParsePlace("Spot.md", "---\nlocation: \"nowhere\"\n---\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Latitude != nil || p.Longitude != nil {
		t.Errorf("location = %v,%v, want nil", p.Latitude, p.Longitude)
	}
}

func TestParsePerson_Fields(t *testing.T) {
	input := "---\n" +
		"pronouns: \"she/her\"\n" +
		"relationship: \"friend\"\n" +
		"aliases:\n" +
		"- Al\n" +
		"email: \"alice@example.com\"\n" +
		"---\nMet at the conference."
	p, err := ParsePerson("Alice Smith.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Alice Smith" || p.ID != "Alice Smith" {
		t.Errorf("name = %q, id = %q", p.Name, p.ID)
	}
	if p.Relationship != records.RelationshipFriend {
		t.Errorf("relationship = %q", p.Relationship)
	}
	if len(p.Aliases) != 1 || p.Aliases[0] != "Al" {
		t.Errorf("aliases = %v", p.Aliases)
	}
}

func TestParsePerson_UnknownRelationshipKeptVerbatim(t *testing.T) {
	p, err := ParsePerson("Bob.md", "---\nrelationship: \"nemesis\"\n---\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Relationship != "nemesis" {
		t.Errorf("relationship = %q", p.Relationship)
	}
	if records.KnownRelationship(p.Relationship) {
		t.Error("nemesis should not be a known relationship")
	}
}
