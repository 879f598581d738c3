package frontmatter

import (
	"github.com/craigeley/journal-companion-sub002/internal/records"
)

// entryFields is the recognized schema for journal entry files.
var entryFields = fieldSet{
	"date_created":      scalarField,
	"tags":              arrayField,
	"place":             scalarField,
	"people":            arrayField,
	"temp":              scalarField,
	"cond":              scalarField,
	"humidity":          scalarField,
	"aqi":               scalarField,
	"mood_valence":      scalarField,
	"mood_labels":       arrayField,
	"mood_associations": arrayField,
	"audio_attachments": arrayField,
	"recording_device":  scalarField,
	"sample_rate":       scalarField,
	"bit_depth":         scalarField,
}

// ParseEntry builds a journal entry from a file's name and full text.
// date_created is the only required field: when it is absent or unparseable
// the whole file fails with MissingRequiredField. Every other recognized
// field degrades to absent on a bad value.
func ParseEntry(filename, text string) (*records.Entry, error) {
	doc, err := parse(text, entryFields)
	if err != nil {
		return nil, err
	}

	created, ok := parseTime(doc.Scalars["date_created"])
	if !ok {
		return nil, &ParseError{Kind: MissingRequiredField, Field: "date_created"}
	}

	e := &records.Entry{
		ID:               records.IDFromFilename(filename),
		DateCreated:      created,
		Tags:             doc.Arrays["tags"],
		Place:            unwrapRef(doc.Scalars["place"]),
		Content:          doc.Body,
		Condition:        doc.Scalars["cond"],
		Temperature:      intField(doc, "temp"),
		Humidity:         intField(doc, "humidity"),
		AQI:              intField(doc, "aqi"),
		MoodValence:      floatField(doc, "mood_valence"),
		MoodLabels:       doc.Arrays["mood_labels"],
		MoodAssociations: doc.Arrays["mood_associations"],
		AudioAttachments: doc.Arrays["audio_attachments"],
		RecordingDevice:  doc.Scalars["recording_device"],
		SampleRate:       intField(doc, "sample_rate"),
		BitDepth:         intField(doc, "bit_depth"),
		Unknown:          doc.Unknown,
		UnknownOrder:     doc.UnknownOrder,
	}

	if items, ok := doc.Arrays["people"]; ok {
		e.People = make([]string, 0, len(items))
		for _, item := range items {
			e.People = append(e.People, unwrapRef(item))
		}
	}

	return e, nil
}

// SerializeEntry renders an entry back to file text. Known fields are written
// in a fixed order, then unknown fields in their recorded order, then the
// body. Re-parsing the output yields a record equal to the input modulo the
// documented array-style normalization. PlaceCallout is a derived join and is
// never written.
func SerializeEntry(e *records.Entry) string {
	var w writer
	w.open()
	w.raw("date_created", e.DateCreated.Format(timeLayoutFractional))
	w.inline("tags", e.Tags)
	w.ref("place", e.Place)
	w.multiRef("people", e.People)
	w.int("temp", e.Temperature)
	w.str("cond", e.Condition)
	w.int("humidity", e.Humidity)
	w.int("aqi", e.AQI)
	w.float("mood_valence", e.MoodValence)
	w.multi("mood_labels", e.MoodLabels)
	w.multi("mood_associations", e.MoodAssociations)
	w.multi("audio_attachments", e.AudioAttachments)
	w.str("recording_device", e.RecordingDevice)
	w.int("sample_rate", e.SampleRate)
	w.int("bit_depth", e.BitDepth)
	w.unknown(e.Unknown, e.UnknownOrder)
	w.close()
	w.body(e.Content)
	return w.String()
}
