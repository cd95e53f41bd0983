// Package prompt builds the natural-language contract sent to the
// generation backend: the structural rules the document must follow and the
// business facts it must be written from. The structure described here is
// exactly what the listing parser accepts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/listing"
)

// Inputs bundles the per-request business facts fed to the model.
type Inputs struct {
	Brand       string
	Marketplace string
	// Language is the English display name of the output language, e.g.
	// "German".
	Language    string
	BrandVoice  string
	USPs        string
	ProductInfo string
	Variants    int
	Profile     config.ConstraintProfile
}

// System returns the system message fixing the output structure for a full
// document with the given variant count.
func System(p config.ConstraintProfile, variants int) string {
	var b strings.Builder
	b.WriteString("You write Amazon marketplace listing copy. Output plain text only, exactly in the structure below. No markdown headings other than the section markers given. No commentary outside the document.\n\n")

	b.WriteString("Document structure:\n")
	b.WriteString("RESEARCH\n<short market notes>\nSOURCES: <space-separated URLs, this is the only line where URLs may appear>\n\n")
	if variants > 1 {
		b.WriteString(fmt.Sprintf("Then %d blocks, each opened by a marker line VARIANT A, VARIANT B, ... in order. Each block contains:\n", variants))
	} else {
		b.WriteString("Then one block containing:\n")
	}
	b.WriteString("TITLES:\n1. <title> [<n> chars]\n2. <title> [<n> chars]\n")
	b.WriteString(fmt.Sprintf("BULLET POINTS:\n- **<Label>:** <body>   (exactly %d such lines)\n", p.BulletCount))
	b.WriteString("DESCRIPTION:\n<description text>\n[<n> chars]\n")
	b.WriteString("BACKEND KEYWORDS:\n<space-separated keywords> [<n> bytes]\n\n")

	b.WriteString("Hard constraints:\n")
	fmt.Fprintf(&b, "- Each title: %d-%d characters, never more than %d.\n", p.TitleMin, p.TitleMax, p.TitleHardMax)
	if p.RequireBrandPrefix {
		b.WriteString("- Each title starts with the brand name.\n")
	}
	fmt.Fprintf(&b, "- Exactly %d bullet points, each %d-%d characters, single line, bold label followed by a colon, label not in all capitals.\n", p.BulletCount, p.BulletMin, p.BulletMax)
	fmt.Fprintf(&b, "- Description: %d-%d characters of flowing text.\n", p.DescriptionMin, p.DescriptionMax)
	fmt.Fprintf(&b, "- Backend keywords: one single line, space-separated, at most %d bytes, plain ASCII, no commas or semicolons", p.BackendMaxBytes)
	if p.ForbidBrandInBackend {
		b.WriteString(", never containing the brand name")
	}
	b.WriteString(".\n")
	if p.ForbidRestrictedScript {
		b.WriteString("- Latin script only; no CJK, Cyrillic, Arabic, Hebrew or Thai characters anywhere.\n")
	}
	if p.ForbidEmoji {
		if p.AllowEmojiBulletLabel {
			b.WriteString("- No emoji anywhere, except that a bullet label may lead with a single emoji.\n")
		} else {
			b.WriteString("- No emoji anywhere.\n")
		}
	}
	fmt.Fprintf(&b, "- Never repeat a single word more than %d times within a title.\n", p.MaxWordRepetition)
	b.WriteString("- Copy INCI ingredient names verbatim from the product information when present.\n")
	return b.String()
}

// User returns the user message carrying the business facts.
func User(in Inputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the listing in %s for the %s marketplace.\n", orEnglish(in.Language), orDefault(in.Marketplace, "amazon.com"))
	fmt.Fprintf(&b, "Brand: %s\n", in.Brand)
	if in.BrandVoice != "" {
		fmt.Fprintf(&b, "Brand voice: %s\n", in.BrandVoice)
	}
	if in.USPs != "" {
		fmt.Fprintf(&b, "Unique selling points: %s\n", in.USPs)
	}
	if in.Variants > 1 {
		fmt.Fprintf(&b, "Produce %d distinct variants (VARIANT A, VARIANT B, ...).\n", in.Variants)
	}
	b.WriteString("\nProduct information:\n")
	b.WriteString(in.ProductInfo)
	return b.String()
}

// FullRepair returns the user message for the single whole-document repair
// pass: the original facts plus the enumerated violations, asking for a
// complete rewrite under the same structural contract.
func FullRepair(in Inputs, document, violations string) string {
	var b strings.Builder
	b.WriteString("The document below violates the listing constraints. Rewrite the ENTIRE document in the same structure, fixing every violation while keeping all passing content as close to the original as possible.\n\n")
	b.WriteString("Violations:\n")
	b.WriteString(violations)
	b.WriteString("\n\nOriginal facts:\n")
	b.WriteString(User(in))
	b.WriteString("\n\nDocument to fix:\n")
	b.WriteString(document)
	return b.String()
}

// sectionInstruction names what a section-scoped repair must emit, heading
// included, so the reply can be spliced verbatim.
func sectionInstruction(kind listing.SectionKind, p config.ConstraintProfile) string {
	switch kind {
	case listing.SectionTitles:
		return fmt.Sprintf("Output ONLY a titles section in this exact shape:\nTITLES:\n1. <title> [<n> chars]\n2. <title> [<n> chars]\nEach title %d-%d characters.", p.TitleMin, p.TitleMax)
	case listing.SectionBullets:
		return fmt.Sprintf("Output ONLY a bullet section in this exact shape:\nBULLET POINTS:\n- **<Label>:** <body>\nExactly %d lines, each %d-%d characters.", p.BulletCount, p.BulletMin, p.BulletMax)
	case listing.SectionDescription:
		return fmt.Sprintf("Output ONLY a description section in this exact shape:\nDESCRIPTION:\n<text>\n[<n> chars]\nThe text must be %d-%d characters.", p.DescriptionMin, p.DescriptionMax)
	case listing.SectionBackend:
		return fmt.Sprintf("Output ONLY a backend keyword section in this exact shape:\nBACKEND KEYWORDS:\n<space-separated keywords> [<n> bytes]\nOne line, at most %d bytes, plain ASCII, no commas.", p.BackendMaxBytes)
	}
	return ""
}

// SectionRepairSystem returns the system message for a section-scoped repair
// call.
func SectionRepairSystem(kind listing.SectionKind, p config.ConstraintProfile) string {
	return "You repair one section of an Amazon listing. " + sectionInstruction(kind, p) + "\nNo other sections, no commentary."
}

// SectionRepairUser returns the user message for a section-scoped repair of
// one variant block: its violations, the block for context, and the facts.
func SectionRepairUser(in Inputs, variantLabel, block, violations string) string {
	var b strings.Builder
	if variantLabel != "" {
		fmt.Fprintf(&b, "Variant %s of the listing has these violations:\n", variantLabel)
	} else {
		b.WriteString("The listing has these violations:\n")
	}
	b.WriteString(violations)
	b.WriteString("\n\nCurrent block:\n")
	b.WriteString(block)
	b.WriteString("\n\nFacts:\n")
	b.WriteString(User(in))
	return b.String()
}

func orEnglish(s string) string {
	if s == "" {
		return "English"
	}
	return s
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
