package wikilink

import (
	"sort"
	"strings"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

// Trigger identifies which editing gesture asked for suggestions.
type Trigger int

const (
	// TriggerWikiLink ("[[") suggests places and people.
	TriggerWikiLink Trigger = iota
	// TriggerMention ("@") suggests people only.
	TriggerMention
)

// MaxSuggestions caps the number of results returned by Suggest.
const MaxSuggestions = 10

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	// Display is what the list shows: the matched alias, or the name.
	Display string `json:"display"`
	// Name is the canonical entity name.
	Name string `json:"name"`
	// Alias is set when this suggestion is keyed to a matched alias.
	Alias string `json:"alias,omitempty"`
	// Insertion is the text to splice in: [[Name]] or [[Name|alias]].
	Insertion string `json:"insertion"`
	IsPlace   bool   `json:"is_place"`
}

// Suggest filters and ranks candidates for the partial text typed after a
// trigger. Alias matches win over name matches and produce two entries: one
// inserting the pipe form and one inserting the plain form. Results whose
// display starts with the search text rank before substring matches, ties
// break alphabetically, and at most MaxSuggestions survive.
func Suggest(searchText string, trigger Trigger, places []records.Place, people []records.Person) []Suggestion {
	var out []Suggestion

	if trigger == TriggerWikiLink {
		for i := range places {
			out = append(out, candidates(searchText, places[i].Name, places[i].Aliases, true)...)
		}
	}
	for i := range people {
		out = append(out, candidates(searchText, people[i].Name, people[i].Aliases, false)...)
	}

	lowered := strings.ToLower(searchText)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := strings.ToLower(out[i].Display), strings.ToLower(out[j].Display)
		pi := strings.HasPrefix(di, lowered)
		pj := strings.HasPrefix(dj, lowered)
		if pi != pj {
			return pi
		}
		return di < dj
	})

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// candidates produces the suggestion entries for one entity.
func candidates(searchText, name string, aliases []string, isPlace bool) []Suggestion {
	plain := Suggestion{
		Display:   name,
		Name:      name,
		Insertion: "[[" + name + "]]",
		IsPlace:   isPlace,
	}

	if searchText == "" {
		return []Suggestion{plain}
	}

	lowered := strings.ToLower(searchText)
	for _, alias := range aliases {
		if strings.Contains(strings.ToLower(alias), lowered) {
			return []Suggestion{
				{
					Display:   alias,
					Name:      name,
					Alias:     alias,
					Insertion: "[[" + name + "|" + alias + "]]",
					IsPlace:   isPlace,
				},
				plain,
			}
		}
	}

	if strings.Contains(strings.ToLower(name), lowered) {
		return []Suggestion{plain}
	}
	return nil
}

// triggerSequence returns the literal text that opened the suggestion.
func triggerSequence(t Trigger) string {
	if t == TriggerMention {
		return "@"
	}
	return "[["
}

// Insert splices a chosen suggestion into text: everything from the last
// occurrence of the trigger sequence through the end is replaced with the
// insertion text plus one trailing space. Returns the new text and the cursor
// offset immediately after the inserted span. If the trigger sequence is not
// present the text is returned unchanged.
func Insert(text string, trigger Trigger, s Suggestion) (string, int) {
	seq := triggerSequence(trigger)
	idx := strings.LastIndex(text, seq)
	if idx < 0 {
		return text, len(text)
	}
	newText := text[:idx] + s.Insertion + " "
	return newText, len(newText)
}
