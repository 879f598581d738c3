package frontmatter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

const delimiter = "---\n"

// Timestamp layouts, tried in order: fractional seconds first, then plain.
// Both require an explicit offset (Z or ±hh:mm).
const (
	timeLayoutFractional = "2006-01-02T15:04:05.000Z07:00"
	timeLayoutPlain      = "2006-01-02T15:04:05Z07:00"
)

var arrayItemRe = regexp.MustCompile(`^\s*-\s+`)

// split separates a file into its frontmatter block and body. The file must
// contain at least three "---\n" segments: the empty prefix, the block, and
// the body start. Additional delimiters inside the body are restored.
func split(text string) (block, body string, err error) {
	segments := strings.Split(text, delimiter)
	if len(segments) < 3 {
		return "", "", &ParseError{Kind: MalformedDocument}
	}
	block = segments[1]
	body = strings.TrimSpace(strings.Join(segments[2:], delimiter))
	return block, body, nil
}

// parse runs the line state machine over the frontmatter block. The only
// state is the currently open multi-line array key: a recognized array
// accumulator, an unknown-field accumulator, or neither.
func parse(text string, fields fieldSet) (*Document, error) {
	block, body, err := split(text)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Scalars: make(map[string]string),
		Arrays:  make(map[string][]string),
		Unknown: make(map[string]records.Scalar),
		Body:    body,
	}

	var activeKnown, activeUnknown string

	for _, line := range strings.Split(block, "\n") {
		if loc := arrayItemRe.FindStringIndex(line); loc != nil {
			item := unquote(strings.TrimSpace(line[loc[1]:]))
			switch {
			case activeKnown != "":
				doc.Arrays[activeKnown] = append(doc.Arrays[activeKnown], item)
			case activeUnknown != "":
				doc.Unknown[activeUnknown] = doc.Unknown[activeUnknown].Append(item)
			}
			// Stray items with no open array are ignored.
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue // blank or junk line
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		if value == "" {
			// An empty value always opens a multi-line array. A key with a
			// genuinely empty string value is indistinguishable from an array
			// start in this format; existing vault files rely on this, so it
			// is replicated rather than fixed.
			activeKnown, activeUnknown = "", ""
			if kind, ok := fields[key]; ok {
				if kind == arrayField {
					activeKnown = key
					if doc.Arrays[key] == nil {
						doc.Arrays[key] = []string{}
					}
				}
				// A recognized scalar with an empty value stays unset.
			} else {
				activeUnknown = key
				if _, seen := doc.Unknown[key]; !seen {
					doc.UnknownOrder = append(doc.UnknownOrder, key)
				}
				doc.Unknown[key] = records.TextListScalar([]string{})
			}
			continue
		}

		activeKnown, activeUnknown = "", ""

		if items, ok := inlineArray(value); ok {
			if kind, known := fields[key]; known && kind == arrayField {
				doc.Arrays[key] = items
			} else if !known {
				if _, seen := doc.Unknown[key]; !seen {
					doc.UnknownOrder = append(doc.UnknownOrder, key)
				}
				doc.Unknown[key] = records.TextListScalar(items)
			}
			// Inline array on a recognized scalar key is dropped.
			continue
		}

		if _, known := fields[key]; known {
			doc.Scalars[key] = unquote(value)
			continue
		}
		if _, seen := doc.Unknown[key]; !seen {
			doc.UnknownOrder = append(doc.UnknownOrder, key)
		}
		doc.Unknown[key] = coerceScalar(unquote(value))
	}

	return doc, nil
}

// inlineArray parses the [a, b, c] form. Wiki-link references ([[Name]]) also
// start with a bracket but are scalar values, so they are excluded up front.
func inlineArray(value string) ([]string, bool) {
	if strings.HasPrefix(value, "[[") {
		return nil, false
	}
	if !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
		return nil, false
	}
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return []string{}, true
	}
	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, unquote(strings.TrimSpace(p)))
	}
	return items, true
}

// coerceScalar types an unknown field's value: integer, float, boolean,
// timestamp, then plain text. The first successful coercion wins; text never
// fails, so coercion never fails the parse.
func coerceScalar(value string) records.Scalar {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return records.IntScalar(n)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return records.FloatScalar(f)
	}
	if strings.EqualFold(value, "true") {
		return records.BoolScalar(true)
	}
	if strings.EqualFold(value, "false") {
		return records.BoolScalar(false)
	}
	if t, ok := parseTime(value); ok {
		return records.TimeScalar(t)
	}
	return records.TextScalar(value)
}

// parseTime parses an ISO-8601 timestamp, fractional seconds first.
func parseTime(value string) (time.Time, bool) {
	if t, err := time.Parse(timeLayoutFractional, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(timeLayoutPlain, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// unquote reverses the serializer's quoting, including escape sequences for
// embedded quotes and backslashes. Values that carry surrounding quotes but
// are not valid quoted syntax (hand-edited files) fall back to stripping the
// outer pair verbatim.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}

// unwrapRef strips a literal [[ prefix and ]] suffix from a (possibly quoted)
// single reference value. This is a textual strip, not a wikilink parse: the
// pipe-alias form is intentionally not supported in frontmatter positions.
func unwrapRef(value string) string {
	v := unquote(strings.TrimSpace(value))
	if strings.HasPrefix(v, "[[") && strings.HasSuffix(v, "]]") && len(v) >= 4 {
		v = v[2 : len(v)-2]
	}
	return strings.TrimSpace(v)
}

// intField coerces a recognized scalar to *int64; failures leave it nil.
func intField(doc *Document, key string) *int64 {
	raw, ok := doc.Scalars[key]
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// floatField coerces a recognized scalar to *float64; failures leave it nil.
func floatField(doc *Document, key string) *float64 {
	raw, ok := doc.Scalars[key]
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
