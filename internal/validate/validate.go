// Package validate checks a parsed listing document against a constraint
// profile. Checks are purely mechanical: lengths, counts and character
// classes, never content quality. Violations are data for the repair
// orchestrator, not errors.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/listing"
	"github.com/sellerkit/listinggen/internal/textutil"
)

// Violation names one broken rule: which variant, which section, what rule,
// and what was observed. A violations list is the sole output of validation.
type Violation struct {
	Variant  string `json:"variant,omitempty"`
	Section  string `json:"section"`
	Rule     string `json:"rule"`
	Observed string `json:"observed,omitempty"`
}

func (v Violation) String() string {
	var b strings.Builder
	if v.Variant != "" {
		b.WriteString("variant ")
		b.WriteString(v.Variant)
		b.WriteString(" ")
	}
	b.WriteString(v.Section)
	b.WriteString(": ")
	b.WriteString(v.Rule)
	if v.Observed != "" {
		b.WriteString(" (")
		b.WriteString(v.Observed)
		b.WriteString(")")
	}
	return b.String()
}

// Describe renders a violations list one per line, the form repair prompts
// carry back to the model.
func Describe(viols []Violation) string {
	lines := make([]string, 0, len(viols))
	for _, v := range viols {
		lines = append(lines, "- "+v.String())
	}
	return strings.Join(lines, "\n")
}

var (
	urlRe = regexp.MustCompile(`https?://[^\s)]+`)
	// bulletShapeRe matches the fixed "marker + bold label + colon + body"
	// line shape, accepting the colon inside or outside the bold span.
	bulletShapeRe = regexp.MustCompile(`^[-•]\s+\*\*([^*]+?):?\*\*:?\s+\S`)
)

// Check validates every variant block of doc against the profile and brand
// and returns all violations found. An empty result means the document
// passes.
func Check(doc listing.Document, p config.ConstraintProfile, brand string) []Violation {
	var out []Violation

	if len(doc.Blocks) == 0 {
		return []Violation{{Section: "document", Rule: "no variant blocks found"}}
	}

	for _, blk := range doc.Blocks {
		out = append(out, checkTitles(blk, p, brand)...)
		out = append(out, checkBullets(blk, p)...)
		out = append(out, checkDescription(blk, p)...)
		out = append(out, checkBackend(blk, p, brand)...)
	}

	if p.ConfineURLsToSources {
		out = append(out, checkURLConfinement(doc)...)
	}
	return out
}

func missing(blk listing.VariantBlock, kind listing.SectionKind) Violation {
	return Violation{Variant: blk.Label, Section: kind.String(), Rule: "section is missing"}
}

func checkTitles(blk listing.VariantBlock, p config.ConstraintProfile, brand string) []Violation {
	sec := blk.Section(listing.SectionTitles)
	if !sec.Present {
		return []Violation{missing(blk, listing.SectionTitles)}
	}
	var out []Violation
	add := func(rule, observed string) {
		out = append(out, Violation{Variant: blk.Label, Section: "titles", Rule: rule, Observed: observed})
	}

	titles := listing.Titles(sec.Body)
	if len(titles) != 2 {
		add("must contain exactly 2 titles", itoa(len(titles)))
	}
	for i, raw := range titles {
		title := textutil.CollapseSpace(listing.StripAnnotations(raw))
		label := fmt.Sprintf("title %d", i+1)
		n := textutil.CharCount(title)
		if n > p.TitleHardMax {
			add(label+" exceeds hard maximum length "+itoa(p.TitleHardMax), itoa(n))
		} else if n < p.TitleMin || n > p.TitleMax {
			add(fmt.Sprintf("%s length outside [%d,%d]", label, p.TitleMin, p.TitleMax), itoa(n))
		}
		if p.RequireBrandPrefix && brand != "" && !strings.HasPrefix(strings.ToLower(title), strings.ToLower(brand)) {
			add(label+" must start with brand "+brand, truncate(title, 40))
		}
		if p.ForbidRestrictedScript {
			if r, ok := textutil.FirstRestrictedRune(title); ok {
				add(label+" contains a restricted script", string(r))
			}
		}
		if p.ForbidEmoji {
			if r, ok := textutil.FirstEmoji(title); ok {
				add(label+" contains emoji", string(r))
			}
		}
		if p.MaxWordRepetition > 0 {
			if rep := textutil.MaxWordRepetition(title); rep > p.MaxWordRepetition {
				add(fmt.Sprintf("%s repeats a word more than %d times", label, p.MaxWordRepetition), itoa(rep))
			}
		}
	}
	return out
}

func checkBullets(blk listing.VariantBlock, p config.ConstraintProfile) []Violation {
	sec := blk.Section(listing.SectionBullets)
	if !sec.Present {
		return []Violation{missing(blk, listing.SectionBullets)}
	}
	var out []Violation
	add := func(rule, observed string) {
		out = append(out, Violation{Variant: blk.Label, Section: "bullets", Rule: rule, Observed: observed})
	}

	bullets := listing.Bullets(sec.Body)
	if len(bullets) != p.BulletCount {
		add(fmt.Sprintf("must contain exactly %d bullets", p.BulletCount), itoa(len(bullets)))
	}
	for i, b := range bullets {
		label := fmt.Sprintf("bullet %d", i+1)
		m := bulletShapeRe.FindStringSubmatch(b)
		if m == nil {
			add(label+" does not match the marker + bold label + colon shape", truncate(b, 40))
			continue
		}
		bulletLabel := strings.TrimSpace(m[1])

		// Length is measured on the rendered text: marker and bold markers
		// excluded, whitespace collapsed.
		text := strings.TrimSpace(strings.TrimLeft(b, "-• "))
		text = strings.ReplaceAll(text, "**", "")
		n := textutil.CharCount(textutil.CollapseSpace(text))
		if n < p.BulletMin || n > p.BulletMax {
			add(fmt.Sprintf("%s length outside [%d,%d]", label, p.BulletMin, p.BulletMax), itoa(n))
		}
		if textutil.IsAllUpper(bulletLabel) {
			add(label+" label must not be all-uppercase", bulletLabel)
		}
		if p.ForbidRestrictedScript {
			if r, ok := textutil.FirstRestrictedRune(b); ok {
				add(label+" contains a restricted script", string(r))
			}
		}
		if p.ForbidEmoji {
			scan := b
			if p.AllowEmojiBulletLabel {
				// The label may carry its emoji lead; only the body is scanned.
				if idx := strings.Index(b, bulletLabel); idx >= 0 {
					scan = b[idx+len(bulletLabel):]
				}
			}
			if r, ok := textutil.FirstEmoji(scan); ok {
				add(label+" contains emoji", string(r))
			}
		}
	}
	return out
}

func checkDescription(blk listing.VariantBlock, p config.ConstraintProfile) []Violation {
	sec := blk.Section(listing.SectionDescription)
	if !sec.Present {
		return []Violation{missing(blk, listing.SectionDescription)}
	}
	body := listing.DescriptionBody(sec.Body)
	if body == "" {
		return []Violation{missing(blk, listing.SectionDescription)}
	}
	var out []Violation
	add := func(rule, observed string) {
		out = append(out, Violation{Variant: blk.Label, Section: "description", Rule: rule, Observed: observed})
	}

	n := textutil.CharCount(body)
	if n < p.DescriptionMin || n > p.DescriptionMax {
		add(fmt.Sprintf("length outside [%d,%d]", p.DescriptionMin, p.DescriptionMax), itoa(n))
	}
	if p.ForbidRestrictedScript {
		if r, ok := textutil.FirstRestrictedRune(body); ok {
			add("contains a restricted script", string(r))
		}
	}
	if p.ForbidEmoji {
		if r, ok := textutil.FirstEmoji(body); ok {
			add("contains emoji", string(r))
		}
	}
	return out
}

func checkBackend(blk listing.VariantBlock, p config.ConstraintProfile, brand string) []Violation {
	sec := blk.Section(listing.SectionBackend)
	if !sec.Present {
		return []Violation{missing(blk, listing.SectionBackend)}
	}
	line, count := listing.BackendLine(sec.Body)
	// Sanitation can reduce the line to its bare byte annotation; that is an
	// empty keyword field, not a passing one.
	text := textutil.CollapseSpace(listing.StripAnnotations(line))
	if count == 0 || text == "" {
		return []Violation{missing(blk, listing.SectionBackend)}
	}
	var out []Violation
	add := func(rule, observed string) {
		out = append(out, Violation{Variant: blk.Label, Section: "backend", Rule: rule, Observed: observed})
	}

	if count != 1 {
		add("must be exactly one line", itoa(count))
	}
	if strings.ContainsAny(text, ",;") {
		add("must be space-separated, no comma or semicolon", truncate(text, 40))
	}
	if n := textutil.ByteLen(textutil.CollapseSpace(textutil.TransliterateASCII(text))); n > p.BackendMaxBytes {
		add(fmt.Sprintf("exceeds %d bytes after transliteration", p.BackendMaxBytes), itoa(n))
	}
	if p.ForbidBrandInBackend && brand != "" && containsToken(text, brand) {
		add("must not contain the brand token", brand)
	}
	if p.ForbidRestrictedScript {
		if r, ok := textutil.FirstRestrictedRune(text); ok {
			add("contains a restricted script", string(r))
		}
	}
	if p.ForbidEmoji {
		if r, ok := textutil.FirstEmoji(text); ok {
			add("contains emoji", string(r))
		}
	}
	return out
}

// checkURLConfinement flags any reference URL outside the single designated
// research sources line, regardless of variant.
func checkURLConfinement(doc listing.Document) []Violation {
	var out []Violation
	offset := 0
	for _, lineText := range strings.SplitAfter(doc.Raw, "\n") {
		start := offset
		offset += len(lineText)
		if !urlRe.MatchString(lineText) {
			continue
		}
		t := strings.TrimSpace(lineText)
		if len(t) >= 8 && strings.EqualFold(t[:8], "SOURCES:") && insideResearch(doc, start) {
			continue
		}
		out = append(out, Violation{
			Variant:  variantAt(doc, start),
			Section:  "document",
			Rule:     "reference URL outside the sources line",
			Observed: truncate(urlRe.FindString(lineText), 60),
		})
	}
	return out
}

func insideResearch(doc listing.Document, off int) bool {
	return doc.Research.Present && off >= doc.Research.Start && off < doc.Research.End
}

func variantAt(doc listing.Document, off int) string {
	for _, blk := range doc.Blocks {
		if off >= blk.Start && off < blk.End {
			return blk.Label
		}
	}
	return ""
}

// containsToken reports whether s contains token as a whole word,
// case-insensitively.
func containsToken(s, token string) bool {
	token = strings.ToLower(token)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if strings.Trim(f, ".,;:!?\"'()[]") == token {
			return true
		}
	}
	return false
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
