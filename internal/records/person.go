package records

import "path"

// Relationship categories for a person. An unrecognized value in a file falls
// back to RelationshipOther at build time; the raw string is kept on the
// record so it round-trips unchanged.
const (
	RelationshipFamily       = "family"
	RelationshipFriend       = "friend"
	RelationshipColleague    = "colleague"
	RelationshipAcquaintance = "acquaintance"
	RelationshipPartner      = "partner"
	RelationshipMentor       = "mentor"
	RelationshipOther        = "other"
)

var knownRelationships = map[string]struct{}{
	RelationshipFamily:       {},
	RelationshipFriend:       {},
	RelationshipColleague:    {},
	RelationshipAcquaintance: {},
	RelationshipPartner:      {},
	RelationshipMentor:       {},
	RelationshipOther:        {},
}

// KnownRelationship reports whether r is one of the fixed relationship types.
func KnownRelationship(r string) bool {
	_, ok := knownRelationships[r]
	return ok
}

// Person is a named contact referenced by journal entries.
type Person struct {
	// ID is the sanitized name, also the filename stem.
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Pronouns     string   `json:"pronouns,omitempty"`
	Relationship string   `json:"relationship,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Birthday     string   `json:"birthday,omitempty"`
	Content      string   `json:"content,omitempty"`

	Unknown      map[string]Scalar `json:"-"`
	UnknownOrder []string          `json:"-"`
}

// Path returns the vault-relative file path for the person.
func (p *Person) Path() string {
	return path.Join(PeopleDir, p.ID+".md")
}
