package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// digraphs maps letters whose conventional ASCII spelling is two characters.
// These must be applied before generic diacritic stripping, which would
// otherwise reduce ü to u instead of ue.
var digraphs = map[rune]string{
	'ä': "ae", 'Ä': "Ae",
	'ö': "oe", 'Ö': "Oe",
	'ü': "ue", 'Ü': "Ue",
	'ß': "ss",
	'æ': "ae", 'Æ': "Ae",
	'œ': "oe", 'Œ': "Oe",
	'ø': "oe", 'Ø': "Oe",
}

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
// This turns é into e, ñ into n, and so on.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// TransliterateASCII maps s to plain ASCII: digraph letters become their
// two-letter spellings, other accented letters lose their marks, and any
// rune still outside printable ASCII becomes a space. The result may
// contain repeated spaces; callers collapse them as needed.
func TransliterateASCII(s string) string {
	var pre strings.Builder
	pre.Grow(len(s))
	for _, r := range s {
		if d, ok := digraphs[r]; ok {
			pre.WriteString(d)
			continue
		}
		pre.WriteRune(r)
	}

	folded, _, err := transform.String(stripMarks, pre.String())
	if err != nil {
		folded = pre.String()
	}

	var out strings.Builder
	out.Grow(len(folded))
	for _, r := range folded {
		if r >= 0x20 && r < 0x7F {
			out.WriteRune(r)
			continue
		}
		out.WriteByte(' ')
	}
	return out.String()
}
