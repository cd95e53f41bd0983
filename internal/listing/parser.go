package listing

import (
	"strings"
)

// sectionMarker pairs a section kind with the heading phrasings the parser
// accepts for it. Matching is case-insensitive and tolerant of surrounding
// markdown noise and trailing punctuation, so "**Bullet Points:**" and
// "BULLETS" both open a bullets section. Kept as a table so new phrasings
// are data edits, not control-flow edits.
type sectionMarker struct {
	kind    SectionKind
	phrases []string
}

var sectionMarkers = []sectionMarker{
	{SectionTitles, []string{"TITLES", "TITLE SUGGESTIONS"}},
	{SectionBullets, []string{"BULLET POINTS", "BULLETS"}},
	{SectionDescription, []string{"DESCRIPTION", "PRODUCT DESCRIPTION"}},
	{SectionBackend, []string{"BACKEND KEYWORDS", "SEARCH TERMS"}},
}

// MarkerPhrases returns the accepted heading phrasings for a section kind.
func MarkerPhrases(kind SectionKind) []string {
	for _, m := range sectionMarkers {
		if m.kind == kind {
			return m.phrases
		}
	}
	return nil
}

var researchPhrases = []string{"RESEARCH", "MARKET RESEARCH", "RECHERCHE"}

var variantPhrases = []string{"VARIANT", "VARIANTE"}

// line is one physical line of the raw document together with its byte
// offsets.
type line struct {
	text  string
	start int
	end   int // offset one past the line's newline, or len(raw) for the last line
}

func splitOffsets(raw string) []line {
	var out []line
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			out = append(out, line{text: raw[start:i], start: start, end: i + 1})
			start = i + 1
		}
	}
	if start < len(raw) {
		out = append(out, line{text: raw[start:], start: start, end: len(raw)})
	}
	return out
}

// normalizeMarker reduces a candidate heading line to a canonical comparison
// form: markdown decoration and trailing punctuation stripped, whitespace
// collapsed, uppercased.
func normalizeMarker(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#* \t")
	s = strings.TrimRight(s, "*:. \t")
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}

// markerKind reports which section, if any, a line opens.
func markerKind(l string) (SectionKind, bool) {
	n := normalizeMarker(l)
	if n == "" {
		return 0, false
	}
	for _, m := range sectionMarkers {
		for _, p := range m.phrases {
			if n == p {
				return m.kind, true
			}
		}
	}
	return 0, false
}

// variantLabel reports the label of a variant marker line such as
// "VARIANT B" or "Variante C", if the line is one.
func variantLabel(l string) (string, bool) {
	n := normalizeMarker(l)
	fields := strings.Fields(n)
	if len(fields) != 2 {
		return "", false
	}
	for _, p := range variantPhrases {
		if fields[0] == p {
			return fields[1], true
		}
	}
	return "", false
}

func isResearchMarker(l string) bool {
	n := normalizeMarker(l)
	for _, p := range researchPhrases {
		if n == p {
			return true
		}
	}
	return false
}

func isSourcesLine(l string) bool {
	t := strings.TrimSpace(l)
	return len(t) >= 8 && strings.EqualFold(t[:8], "SOURCES:")
}

// Parse scans raw generated text into a Document. Splitting is pure marker
// scanning: variant markers delimit blocks in document order; within a block
// each section spans from its first accepted marker to the next known marker
// or the block end. A missing marker yields an absent, empty section rather
// than an error; the validator turns absence into a violation.
func Parse(raw string) Document {
	doc := Document{Raw: raw}
	lines := splitOffsets(raw)

	// Variant marker positions, in order.
	type vmark struct {
		label string
		idx   int
	}
	var vmarks []vmark
	for i, l := range lines {
		if label, ok := variantLabel(l.text); ok {
			vmarks = append(vmarks, vmark{label: label, idx: i})
		}
	}

	firstBlockLine := 0
	if len(vmarks) > 0 {
		firstBlockLine = vmarks[0].idx
	} else {
		// Unlabeled single block starts at the first section marker so that
		// any research preamble stays outside of it.
		for i, l := range lines {
			if _, ok := markerKind(l.text); ok {
				firstBlockLine = i
				break
			}
		}
	}

	// Optional research preamble before the first block.
	for i := 0; i < firstBlockLine; i++ {
		if isResearchMarker(lines[i].text) {
			doc.Research.Present = true
			doc.Research.Start = lines[i].start
			doc.Research.End = lines[firstBlockLine].start
			for j := i; j < firstBlockLine; j++ {
				if isSourcesLine(lines[j].text) {
					t := strings.TrimSpace(lines[j].text)
					doc.Research.SourcesLine = strings.TrimSpace(t[8:])
					break
				}
			}
			break
		}
	}

	// Block line ranges.
	type blockRange struct {
		label      string
		fromLine   int
		toLine     int // exclusive
		skipMarker bool
	}
	var ranges []blockRange
	if len(vmarks) == 0 {
		if len(lines) > 0 {
			ranges = append(ranges, blockRange{fromLine: firstBlockLine, toLine: len(lines)})
		}
	} else {
		for i, vm := range vmarks {
			to := len(lines)
			if i+1 < len(vmarks) {
				to = vmarks[i+1].idx
			}
			ranges = append(ranges, blockRange{label: vm.label, fromLine: vm.idx, toLine: to, skipMarker: true})
		}
	}

	for _, br := range ranges {
		if br.fromLine >= br.toLine {
			continue
		}
		blk := VariantBlock{
			Label:    br.label,
			Start:    lines[br.fromLine].start,
			End:      lines[br.toLine-1].end,
			Sections: make(map[SectionKind]Section, len(Kinds)),
		}
		scanFrom := br.fromLine
		if br.skipMarker {
			scanFrom++
		}

		// First occurrence of each section marker within the block.
		type found struct {
			kind SectionKind
			line int
		}
		var founds []found
		seen := map[SectionKind]bool{}
		for i := scanFrom; i < br.toLine; i++ {
			if kind, ok := markerKind(lines[i].text); ok && !seen[kind] {
				seen[kind] = true
				founds = append(founds, found{kind: kind, line: i})
			}
		}
		for i, f := range founds {
			end := blk.End
			if i+1 < len(founds) {
				end = lines[founds[i+1].line].start
			}
			sec := Section{
				Kind:      f.kind,
				Present:   true,
				Start:     lines[f.line].start,
				End:       end,
				BodyStart: lines[f.line].end,
			}
			if sec.BodyStart > end {
				sec.BodyStart = end
			}
			sec.Body = raw[sec.BodyStart:end]
			blk.Sections[f.kind] = sec
		}
		doc.Blocks = append(doc.Blocks, blk)
	}

	return doc
}
