package frontmatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

// Serialization conventions, shared by known and unknown fields: strings are
// quoted, numbers and booleans are not, timestamps use the fractional-seconds
// layout, and arrays are written in multi-line "- item" form except for tags,
// which the app has always written inline. A file read with an inline unknown
// array re-saves in multi-line form; this is a documented normalization.

type writer struct {
	b strings.Builder
}

func (w *writer) open()  { w.b.WriteString(delimiter) }
func (w *writer) close() { w.b.WriteString(delimiter) }

func (w *writer) body(content string) {
	w.b.WriteString(content)
	w.b.WriteString("\n")
}

func (w *writer) raw(key, value string) {
	fmt.Fprintf(&w.b, "%s: %s\n", key, value)
}

func (w *writer) str(key, value string) {
	if value == "" {
		return
	}
	w.raw(key, strconv.Quote(value))
}

func (w *writer) ref(key, target string) {
	if target == "" {
		return
	}
	w.raw(key, `"[[`+target+`]]"`)
}

func (w *writer) int(key string, v *int64) {
	if v == nil {
		return
	}
	w.raw(key, strconv.FormatInt(*v, 10))
}

func (w *writer) float(key string, v *float64) {
	if v == nil {
		return
	}
	w.raw(key, formatFloat(*v))
}

// inline writes an array in [a, b] form, quoting items only when needed.
// The inline form cannot represent commas (parsing splits on every comma),
// so any item containing one forces the multi-line form instead.
func (w *writer) inline(key string, items []string) {
	if items == nil {
		return
	}
	for _, item := range items {
		if strings.Contains(item, ",") {
			w.multi(key, items)
			return
		}
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = maybeQuote(item)
	}
	w.raw(key, "["+strings.Join(quoted, ", ")+"]")
}

// multi writes an array in multi-line "- item" form.
func (w *writer) multi(key string, items []string) {
	if items == nil {
		return
	}
	fmt.Fprintf(&w.b, "%s:\n", key)
	for _, item := range items {
		fmt.Fprintf(&w.b, "- %s\n", maybeQuote(item))
	}
}

// multiRef writes an array of wiki-wrapped references.
func (w *writer) multiRef(key string, targets []string) {
	if targets == nil {
		return
	}
	fmt.Fprintf(&w.b, "%s:\n", key)
	for _, t := range targets {
		fmt.Fprintf(&w.b, "- \"[[%s]]\"\n", t)
	}
}

// unknown appends the unrecognized fields in their recorded order.
func (w *writer) unknown(fields map[string]records.Scalar, order []string) {
	for _, key := range order {
		s, ok := fields[key]
		if !ok {
			continue
		}
		switch s.Kind {
		case records.KindInt:
			w.raw(key, strconv.FormatInt(s.Int, 10))
		case records.KindFloat:
			w.raw(key, formatFloat(s.Float))
		case records.KindBool:
			w.raw(key, strconv.FormatBool(s.Bool))
		case records.KindTime:
			w.raw(key, s.Time.Format(timeLayoutFractional))
		case records.KindText:
			w.raw(key, strconv.Quote(s.Text))
		case records.KindTextList:
			w.multi(key, s.List)
		}
	}
}

func (w *writer) String() string { return w.b.String() }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// maybeQuote quotes an array item only when it contains characters the parser
// would otherwise misread.
func maybeQuote(s string) string {
	if s == "" || strings.ContainsAny(s, `,:[]"`) || strings.HasPrefix(s, "- ") {
		return strconv.Quote(s)
	}
	return s
}
