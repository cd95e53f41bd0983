package listing

import (
	"regexp"
	"strings"
)

// SectionKind identifies one of the four mandatory sections of a variant
// block.
type SectionKind int

const (
	SectionTitles SectionKind = iota
	SectionBullets
	SectionDescription
	SectionBackend
)

// Kinds lists all section kinds in their canonical document order.
var Kinds = []SectionKind{SectionTitles, SectionBullets, SectionDescription, SectionBackend}

func (k SectionKind) String() string {
	switch k {
	case SectionTitles:
		return "titles"
	case SectionBullets:
		return "bullets"
	case SectionDescription:
		return "description"
	case SectionBackend:
		return "backend"
	}
	return "unknown"
}

// Section is one named span inside a variant block. Start and End are byte
// offsets into Document.Raw covering the whole section including its heading
// line; BodyStart is the first byte after the heading. A section whose
// marker was not found has Present == false and an empty body.
type Section struct {
	Kind      SectionKind
	Present   bool
	Start     int
	End       int
	BodyStart int
	Body      string
}

// VariantBlock is one self-contained candidate listing. Label is "A", "B",
// "C" when variant markers were found, empty for a single unlabeled block.
type VariantBlock struct {
	Label    string
	Start    int
	End      int
	Sections map[SectionKind]Section
}

// Section returns the named section, or an absent zero section when the
// parser never saw its marker.
func (b VariantBlock) Section(kind SectionKind) Section {
	if s, ok := b.Sections[kind]; ok {
		return s
	}
	return Section{Kind: kind}
}

// Research is the optional free-form block preceding the variant blocks.
// SourcesLine holds the single line on which reference URLs are permitted,
// without its "SOURCES:" prefix.
type Research struct {
	Present     bool
	Start       int
	End         int
	SourcesLine string
}

// Document is a parsed generated listing document. Raw is the full text the
// spans index into.
type Document struct {
	Raw      string
	Research Research
	Blocks   []VariantBlock
}

var (
	charAnnotationRe = regexp.MustCompile(`\s*\[\s*\d+\s+chars?\s*\]`)
	byteAnnotationRe = regexp.MustCompile(`\s*\[\s*\d+\s+bytes?\s*\]`)
)

// StripAnnotations removes embedded character and byte counter annotations,
// e.g. "[147 chars]" or "[238 bytes]", wherever they appear in s.
func StripAnnotations(s string) string {
	s = charAnnotationRe.ReplaceAllString(s, "")
	return byteAnnotationRe.ReplaceAllString(s, "")
}

var titleItemRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.*\S)\s*$`)

// Titles extracts the numbered title lines from a titles section body,
// annotations included. Lines that do not look like numbered items are
// ignored.
func Titles(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if m := titleItemRe.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

// Bullets extracts the bullet lines from a bullets section body. A bullet is
// any non-empty line beginning with the fixed "-" or "•" marker.
func Bullets(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "• ") {
			out = append(out, t)
		}
	}
	return out
}

// BackendLine returns the single keyword line of a backend section body: the
// first non-empty line. The second return reports how many non-empty lines
// the body holds, since more than one is itself a violation.
func BackendLine(body string) (string, int) {
	first := ""
	count := 0
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		count++
		if first == "" {
			first = t
		}
	}
	return first, count
}

// DescriptionBody strips counter annotations and surrounding whitespace from
// a description section body, yielding the text whose length is budgeted.
func DescriptionBody(body string) string {
	return strings.TrimSpace(StripAnnotations(body))
}
