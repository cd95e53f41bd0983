// Package postprocess deterministically refreshes the counter annotations a
// listing document embeds next to its measured text, and sanitizes the
// backend keyword line to its restricted character set and byte budget. The
// whole pass is idempotent; running it twice yields the same text.
package postprocess

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/listing"
	"github.com/sellerkit/listinggen/internal/textutil"
)

var titleLineRe = regexp.MustCompile(`^(\s*\d+[.)]\s+)(.*\S)\s*$`)

var separatorRe = regexp.MustCompile(`[,;/|]+`)

// Apply rewrites doc so that every title and description carries a counter
// annotation matching its true measured length, and the backend line is
// transliterated, brand-free, space-separated and within its byte budget.
// Content is never shortened except the backend line, which is trimmed one
// whole trailing token at a time when it exceeds the budget.
func Apply(doc listing.Document, p config.ConstraintProfile, brand string) listing.Document {
	type edit struct {
		start, end int
		text       string
	}
	var edits []edit

	for _, blk := range doc.Blocks {
		if sec := blk.Section(listing.SectionTitles); sec.Present {
			edits = append(edits, edit{sec.BodyStart, sec.End, titlesBody(sec.Body)})
		}
		if sec := blk.Section(listing.SectionDescription); sec.Present {
			edits = append(edits, edit{sec.BodyStart, sec.End, descriptionBody(sec.Body)})
		}
		if sec := blk.Section(listing.SectionBackend); sec.Present {
			edits = append(edits, edit{sec.BodyStart, sec.End, backendBody(sec.Body, p, brand)})
		}
	}

	// Apply edits back to front so earlier offsets stay valid.
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	raw := doc.Raw
	for _, e := range edits {
		raw = raw[:e.start] + e.text + raw[e.end:]
	}
	return listing.Parse(raw)
}

// titlesBody rewrites each numbered title line's annotation to the title's
// true character count. Non-title lines pass through untouched.
func titlesBody(body string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	for i, l := range lines {
		m := titleLineRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		text := textutil.CollapseSpace(listing.StripAnnotations(m[2]))
		if text == "" {
			continue
		}
		lines[i] = fmt.Sprintf("%s%s [%d chars]", m[1], text, textutil.CharCount(text))
	}
	return strings.Join(lines, "\n") + "\n"
}

// descriptionBody normalizes the description to its text followed by a
// refreshed character-count annotation line.
func descriptionBody(body string) string {
	text := listing.DescriptionBody(body)
	if text == "" {
		return ""
	}
	return fmt.Sprintf("%s\n[%d chars]\n", text, textutil.CharCount(text))
}

// backendBody sanitizes the first keyword line: ASCII transliteration,
// separator punctuation collapsed to whitespace, brand tokens removed,
// whitespace collapsed, whole trailing tokens dropped while the line exceeds
// the byte budget, and the byte annotation refreshed. Any extra lines in the
// section body are preserved for the validator to flag.
func backendBody(body string, p config.ConstraintProfile, brand string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	done := false
	for i, l := range lines {
		if strings.TrimSpace(l) == "" || done {
			continue
		}
		lines[i] = sanitizeBackendLine(l, p, brand)
		done = true
	}
	return strings.Join(lines, "\n") + "\n"
}

func sanitizeBackendLine(line string, p config.ConstraintProfile, brand string) string {
	text := listing.StripAnnotations(line)
	text = textutil.TransliterateASCII(text)
	text = separatorRe.ReplaceAllString(text, " ")

	brandTok := strings.ToLower(textutil.CollapseSpace(textutil.TransliterateASCII(brand)))
	tokens := strings.Fields(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if brandTok != "" && strings.ToLower(tok) == brandTok {
			continue
		}
		kept = append(kept, tok)
	}

	// Trimming never splits a token.
	for len(kept) > 0 && len(strings.Join(kept, " ")) > p.BackendMaxBytes {
		kept = kept[:len(kept)-1]
	}
	out := strings.Join(kept, " ")
	if out == "" {
		return "[0 bytes]"
	}
	return fmt.Sprintf("%s [%d bytes]", out, textutil.ByteLen(out))
}
