package extract

import (
	"regexp"
	"strings"

	"github.com/tsawler/debrief/model"
)

// Matcher finds category labels in row texts. Labels are literal text,
// matched case-insensitively as whole words.
type Matcher struct {
	categories []string
	patterns   []*regexp.Regexp
}

// NewMatcher compiles one pattern per category, in the given order.
func NewMatcher(categories []string) *Matcher {
	m := &Matcher{
		categories: append([]string(nil), categories...),
		patterns:   make([]*regexp.Regexp, len(categories)),
	}
	for i, cat := range categories {
		m.patterns[i] = regexp.MustCompile(wholeWord(cat))
	}
	return m
}

// wholeWord builds a case-insensitive pattern for the literal label. A word
// boundary is only required next to a word character: a label ending in
// '?' or ':' matches at the end of the row text.
func wholeWord(label string) string {
	var sb strings.Builder
	sb.WriteString("(?i)")
	if startsWithWordChar(label) {
		sb.WriteString(`\b`)
	}
	sb.WriteString(regexp.QuoteMeta(label))
	if endsWithWordChar(label) {
		sb.WriteString(`\b`)
	}
	return sb.String()
}

func isWordChar(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func startsWithWordChar(s string) bool {
	return s != "" && isWordChar(s[0])
}

func endsWithWordChar(s string) bool {
	return s != "" && isWordChar(s[len(s)-1])
}

// Categories returns the configured categories in order.
func (m *Matcher) Categories() []string {
	return append([]string(nil), m.categories...)
}

// Match returns every category found in text, in configured order.
func (m *Matcher) Match(text string) []string {
	var found []string
	for i, re := range m.patterns {
		if re.MatchString(text) {
			found = append(found, m.categories[i])
		}
	}
	return found
}

// Observations scans every row of every table. For each category matched in
// a row, the first cell of the next row of the same table becomes the
// observation text. Rows without a next row and empty answers yield nothing.
// A row matching several categories yields one observation per category,
// all sharing the same answer.
func (m *Matcher) Observations(doc *model.SourceDocument, h model.HeaderFields) []model.Observation {
	if doc == nil {
		return nil
	}

	var obs []model.Observation
	for _, table := range doc.Tables {
		for i, row := range table.Rows {
			cats := m.Match(row.Text())
			if len(cats) == 0 {
				continue
			}
			next, ok := table.Row(i + 1)
			if !ok {
				continue
			}
			first, _ := next.Cell(0)
			text := strings.TrimSpace(first)
			if text == "" {
				continue
			}
			for _, cat := range cats {
				o := model.NewObservation(h, cat, text)
				o.Source = doc.Name
				obs = append(obs, o)
			}
		}
	}
	return obs
}

// MatchCategories is a convenience wrapper compiling a Matcher for a single
// document.
func MatchCategories(doc *model.SourceDocument, h model.HeaderFields, categories []string) []model.Observation {
	return NewMatcher(categories).Observations(doc, h)
}
