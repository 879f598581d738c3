package mcpserver

// EntryFormatContract describes the canonical Markdown entry format that
// LLM consumers should follow when creating journal entries.
const EntryFormatContract = `# Journal Entry Format Contract

Every journal entry stored in the vault MUST follow this structure.

## Structure

` + "```" + `markdown
---
date_created: "2025-01-15T14:30:00.000-06:00"   # REQUIRED - quoted ISO-8601 with offset
tags: [daily, morning]                           # OPTIONAL - inline list
place: "[[Central Park]]"                        # OPTIONAL - wiki-wrapped place name
people:                                          # OPTIONAL - one wiki-wrapped name per line
- "[[Alice Smith]]"
- "[[Bob Jones]]"
temp: 72                                         # OPTIONAL - weather block
cond: "Partly Cloudy"
humidity: 45
aqi: 31
mood_valence: 0.5                                # OPTIONAL - mood block, -1.0 .. 1.0
mood_labels:
- "content"
---
Body text in standard Markdown.

Use [[Name]] to reference places and people. Use [[Name|alias]] when the
display text differs from the canonical name.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "`---`" + ` fences must be the first
   thing in the file (no leading blank lines).
2. **` + "`date_created`" + ` is required** and must be a quoted ISO-8601 timestamp
   with a timezone offset. The entry's id (YYYYMMDDHHmm) and its file path
   (Entries/YYYY/MM-Month/DD/id.md) are both derived from it.
3. **References are wiki-wrapped.** ` + "`place`" + ` holds one ` + "`\"[[Name]]\"`" + ` value;
   ` + "`people`" + ` is a list of them. Targets are display names, not file paths.
4. **Tags** are plain lowercase words in an inline list: ` + "`tags: [a, b]`" + `.
5. **Unrecognized frontmatter fields are preserved.** Any extra key survives
   a read-modify-write cycle untouched, so custom metadata is safe.
6. **Encoding** is UTF-8 with a trailing newline.

## Example

` + "```" + `markdown
---
date_created: "2025-01-20T08:15:00.000-06:00"
tags: [daily]
place: "[[Blue Bottle]]"
people:
- "[[Alice Smith]]"
mood_valence: 0.7
mood_labels:
- "energized"
---
Early coffee with [[Alice Smith]] before the standup. The cortado at
[[Blue Bottle|BB]] keeps getting better.
` + "```" + `
`
