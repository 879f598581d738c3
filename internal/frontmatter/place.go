package frontmatter

import (
	"strconv"
	"strings"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

var placeFields = fieldSet{
	"location": scalarField,
	"addr":     scalarField,
	"tags":     arrayField,
	"callout":  scalarField,
	"pin":      scalarField,
	"color":    scalarField,
	"url":      scalarField,
	"aliases":  arrayField,
}

// ParsePlace builds a place record from a file's name and full text. The
// display name is the filename stem; the id re-applies the creation-time
// sanitization so lookups stay stable even if the file was renamed by hand.
func ParsePlace(filename, text string) (*records.Place, error) {
	doc, err := parse(text, placeFields)
	if err != nil {
		return nil, err
	}

	name := records.IDFromFilename(filename)
	p := &records.Place{
		ID:           records.SanitizeName(name),
		Name:         name,
		Address:      doc.Scalars["addr"],
		Tags:         doc.Arrays["tags"],
		Callout:      doc.Scalars["callout"],
		Pin:          doc.Scalars["pin"],
		Color:        doc.Scalars["color"],
		URL:          doc.Scalars["url"],
		Aliases:      doc.Arrays["aliases"],
		Content:      doc.Body,
		Unknown:      doc.Unknown,
		UnknownOrder: doc.UnknownOrder,
	}
	if p.Callout == "" {
		p.Callout = records.DefaultCallout
	}
	// An unrecognized callout is kept verbatim; rendering falls back to the
	// generic icon, it is never a parse error.

	if raw, ok := doc.Scalars["location"]; ok {
		if lat, lon, ok := parseLocation(raw); ok {
			p.Latitude, p.Longitude = &lat, &lon
		}
	}

	return p, nil
}

// SerializePlace renders a place back to file text.
func SerializePlace(p *records.Place) string {
	var w writer
	w.open()
	if p.Latitude != nil && p.Longitude != nil {
		w.raw("location", `"`+formatFloat(*p.Latitude)+","+formatFloat(*p.Longitude)+`"`)
	}
	w.str("addr", p.Address)
	w.inline("tags", p.Tags)
	if p.Callout != "" && p.Callout != records.DefaultCallout {
		w.str("callout", p.Callout)
	}
	w.str("pin", p.Pin)
	w.str("color", p.Color)
	w.str("url", p.URL)
	w.multi("aliases", p.Aliases)
	w.unknown(p.Unknown, p.UnknownOrder)
	w.close()
	w.body(p.Content)
	return w.String()
}

// parseLocation splits a "<lat>,<lon>" value into coordinates.
func parseLocation(raw string) (lat, lon float64, ok bool) {
	left, right, found := strings.Cut(raw, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(right), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
