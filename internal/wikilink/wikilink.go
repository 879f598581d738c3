// Package wikilink scans free text for [[Target]] and [[Target|Display]]
// references and resolves them against place and person snapshots.
//
// Every call receives the current entity lists as parameters; nothing is
// cached between calls, so results are always consistent with whatever
// snapshot the caller holds and the functions stay pure.
package wikilink

import (
	"regexp"
	"strings"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

// linkRe matches [[...]] spans. The body is greedy up to the next ]], so a
// link body never itself contains a close bracket.
var linkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Link is one reference found in a piece of text. It is a pure view over the
// text and the entity snapshot it was resolved against; it is never persisted.
type Link struct {
	// Target is the text left of the pipe (or the whole body).
	Target string `json:"target"`
	// Display is the text right of the pipe, or Target when there is none.
	Display string `json:"display"`
	// Start and End delimit the full [[...]] span in the source text.
	Start int `json:"start"`
	End   int `json:"end"`
	// Exactly one of Place/Person is set when Valid.
	Place  *records.Place  `json:"place,omitempty"`
	Person *records.Person `json:"person,omitempty"`
	// Valid is false for links that resolve to no known entity. That is a
	// normal, displayable state, not an error.
	Valid bool `json:"valid"`
}

// ParseLinks finds every wikilink in text and resolves each target against
// the supplied snapshots. Name matches are tried before alias matches, places
// before people, first match in list order wins.
func ParseLinks(text string, places []records.Place, people []records.Person) []Link {
	matches := linkRe.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return nil
	}

	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		body := text[m[2]:m[3]]
		target, display, piped := strings.Cut(body, "|")
		target = strings.TrimSpace(target)
		if !piped {
			display = target
		} else {
			display = strings.TrimSpace(display)
		}

		link := Link{
			Target:  target,
			Display: display,
			Start:   m[0],
			End:     m[1],
		}
		link.Place, link.Person = resolve(target, places, people)
		link.Valid = link.Place != nil || link.Person != nil
		links = append(links, link)
	}
	return links
}

// resolve looks the target up by exact name, then by alias, case-insensitive.
func resolve(target string, places []records.Place, people []records.Person) (*records.Place, *records.Person) {
	for i := range places {
		if strings.EqualFold(places[i].Name, target) {
			return &places[i], nil
		}
	}
	for i := range people {
		if strings.EqualFold(people[i].Name, target) {
			return nil, &people[i]
		}
	}
	for i := range places {
		for _, a := range places[i].Aliases {
			if strings.EqualFold(a, target) {
				return &places[i], nil
			}
		}
	}
	for i := range people {
		for _, a := range people[i].Aliases {
			if strings.EqualFold(a, target) {
				return nil, &people[i]
			}
		}
	}
	return nil, nil
}
