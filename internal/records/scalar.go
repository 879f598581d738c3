// Package records defines the domain types for the journal vault: entries,
// places, people, and the scalar value union used to preserve frontmatter
// fields the schema does not recognize.
package records

import "time"

// ScalarKind discriminates the variants of Scalar.
type ScalarKind int

// Scalar variants, in coercion order.
const (
	KindInt ScalarKind = iota
	KindFloat
	KindBool
	KindTime
	KindText
	KindTextList
)

// Scalar is a tagged union holding one parsed frontmatter value. Unrecognized
// fields are stored as Scalars so they can be re-emitted verbatim on save.
// List values are one level deep and contain only text items.
type Scalar struct {
	Kind  ScalarKind
	Int   int64
	Float float64
	Bool  bool
	Time  time.Time
	Text  string
	List  []string
}

// IntScalar wraps an integer value.
func IntScalar(v int64) Scalar { return Scalar{Kind: KindInt, Int: v} }

// FloatScalar wraps a floating-point value.
func FloatScalar(v float64) Scalar { return Scalar{Kind: KindFloat, Float: v} }

// BoolScalar wraps a boolean value.
func BoolScalar(v bool) Scalar { return Scalar{Kind: KindBool, Bool: v} }

// TimeScalar wraps a timestamp value.
func TimeScalar(v time.Time) Scalar { return Scalar{Kind: KindTime, Time: v} }

// TextScalar wraps a plain string value.
func TextScalar(v string) Scalar { return Scalar{Kind: KindText, Text: v} }

// TextListScalar wraps a list of strings.
func TextListScalar(v []string) Scalar { return Scalar{Kind: KindTextList, List: v} }

// Append adds an item to a list scalar and returns the result. Calling it on a
// non-list scalar converts the scalar into a single-item list first.
func (s Scalar) Append(item string) Scalar {
	if s.Kind != KindTextList {
		return Scalar{Kind: KindTextList, List: []string{item}}
	}
	s.List = append(s.List, item)
	return s
}

// Equal reports whether two scalars have the same kind and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindInt:
		return s.Int == o.Int
	case KindFloat:
		return s.Float == o.Float
	case KindBool:
		return s.Bool == o.Bool
	case KindTime:
		return s.Time.Equal(o.Time)
	case KindText:
		return s.Text == o.Text
	case KindTextList:
		if len(s.List) != len(o.List) {
			return false
		}
		for i := range s.List {
			if s.List[i] != o.List[i] {
				return false
			}
		}
		return true
	}
	return false
}
