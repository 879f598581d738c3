package frontmatter

import (
	"github.com/craigeley/journal-companion-sub002/internal/records"
)

var personFields = fieldSet{
	"pronouns":     scalarField,
	"relationship": scalarField,
	"tags":         arrayField,
	"aliases":      arrayField,
	"email":        scalarField,
	"phone":        scalarField,
	"birthday":     scalarField,
}

// ParsePerson builds a person record from a file's name and full text.
// An unrecognized relationship value is kept verbatim for round-tripping;
// consumers use records.KnownRelationship to decide rendering.
func ParsePerson(filename, text string) (*records.Person, error) {
	doc, err := parse(text, personFields)
	if err != nil {
		return nil, err
	}

	name := records.IDFromFilename(filename)
	return &records.Person{
		ID:           records.SanitizeName(name),
		Name:         name,
		Pronouns:     doc.Scalars["pronouns"],
		Relationship: doc.Scalars["relationship"],
		Tags:         doc.Arrays["tags"],
		Aliases:      doc.Arrays["aliases"],
		Email:        doc.Scalars["email"],
		Phone:        doc.Scalars["phone"],
		Birthday:     doc.Scalars["birthday"],
		Content:      doc.Body,
		Unknown:      doc.Unknown,
		UnknownOrder: doc.UnknownOrder,
	}, nil
}

// SerializePerson renders a person back to file text.
func SerializePerson(p *records.Person) string {
	var w writer
	w.open()
	w.str("pronouns", p.Pronouns)
	w.str("relationship", p.Relationship)
	w.inline("tags", p.Tags)
	w.multi("aliases", p.Aliases)
	w.str("email", p.Email)
	w.str("phone", p.Phone)
	w.str("birthday", p.Birthday)
	w.unknown(p.Unknown, p.UnknownOrder)
	w.close()
	w.body(p.Content)
	return w.String()
}
