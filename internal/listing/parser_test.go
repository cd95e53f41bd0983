package listing

import (
	"strings"
	"testing"
)

const sampleSingle = `RESEARCH
Argan oil serums trend toward premium positioning.
SOURCES: https://example.com/a https://example.com/b

TITLES:
1. Lumina Argan Oil Hair Serum for Dry Hair 100ml [48 chars]
2. Lumina Hair Serum with Argan Oil, Lightweight [45 chars]
BULLET POINTS:
- **Deep Moisture:** nourishes dry lengths without greasy residue
- **Light Texture:** absorbs fast for daily styling
- **Pure Formula:** made with cold-pressed argan oil
- **Easy Pump:** doses a single drop at a time
- **All Hair Types:** from fine to curly
DESCRIPTION:
A longer free text about the serum and how to use it.
[53 chars]
BACKEND KEYWORDS:
arganoel haarserum pflege glanz [31 bytes]
`

func buildVariants() string {
	var b strings.Builder
	for _, label := range []string{"A", "B", "C"} {
		b.WriteString("VARIANT " + label + "\n")
		b.WriteString("TITLES:\n1. Lumina One " + label + " [14 chars]\n2. Lumina Two " + label + " [14 chars]\n")
		b.WriteString("BULLET POINTS:\n- **Point:** body " + label + "\n")
		b.WriteString("DESCRIPTION:\nBody text " + label + ".\n[12 chars]\n")
		b.WriteString("BACKEND KEYWORDS:\nkeyword" + label + " [8 bytes]\n")
	}
	return b.String()
}

func TestParseSingleUnlabeledBlock(t *testing.T) {
	doc := Parse(sampleSingle)
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Blocks))
	}
	blk := doc.Blocks[0]
	if blk.Label != "" {
		t.Fatalf("label = %q, want unlabeled", blk.Label)
	}
	for _, k := range Kinds {
		if !blk.Section(k).Present {
			t.Fatalf("section %s missing", k)
		}
	}
	if !doc.Research.Present {
		t.Fatalf("research section not detected")
	}
	if doc.Research.SourcesLine != "https://example.com/a https://example.com/b" {
		t.Fatalf("sources line = %q", doc.Research.SourcesLine)
	}
}

func TestParseSectionContents(t *testing.T) {
	doc := Parse(sampleSingle)
	blk := doc.Blocks[0]

	titles := Titles(blk.Section(SectionTitles).Body)
	if len(titles) != 2 {
		t.Fatalf("titles = %d, want 2", len(titles))
	}
	if !strings.HasPrefix(titles[0], "Lumina Argan Oil") {
		t.Fatalf("first title = %q", titles[0])
	}

	bullets := Bullets(blk.Section(SectionBullets).Body)
	if len(bullets) != 5 {
		t.Fatalf("bullets = %d, want 5", len(bullets))
	}

	desc := DescriptionBody(blk.Section(SectionDescription).Body)
	if desc != "A longer free text about the serum and how to use it." {
		t.Fatalf("description body = %q", desc)
	}

	line, n := BackendLine(blk.Section(SectionBackend).Body)
	if n != 1 {
		t.Fatalf("backend line count = %d, want 1", n)
	}
	if StripAnnotations(line) != "arganoel haarserum pflege glanz" {
		t.Fatalf("backend line = %q", line)
	}
}

func TestParseThreeLabeledBlocksInOrder(t *testing.T) {
	doc := Parse(buildVariants())
	if len(doc.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(doc.Blocks))
	}
	for i, want := range []string{"A", "B", "C"} {
		blk := doc.Blocks[i]
		if blk.Label != want {
			t.Fatalf("block %d label = %q, want %q", i, blk.Label, want)
		}
		for _, k := range Kinds {
			if !blk.Section(k).Present {
				t.Fatalf("block %s section %s missing", want, k)
			}
		}
		if got := DescriptionBody(blk.Section(SectionDescription).Body); got != "Body text "+want+"." {
			t.Fatalf("block %s description = %q", want, got)
		}
	}
}

func TestParseToleratesMarkerDecoration(t *testing.T) {
	raw := "### Title Suggestions:\n1. Lumina X [8 chars]\n2. Lumina Y [8 chars]\n**Bullets**\n- **P:** b\nProduct Description:\ntext\nSearch Terms:\nkw\n"
	doc := Parse(raw)
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Blocks))
	}
	blk := doc.Blocks[0]
	for _, k := range Kinds {
		if !blk.Section(k).Present {
			t.Fatalf("section %s not matched through decoration", k)
		}
	}
}

func TestParseMissingSectionIsAbsentNotError(t *testing.T) {
	raw := "TITLES:\n1. Lumina X [8 chars]\n2. Lumina Y [8 chars]\nDESCRIPTION:\ntext\n"
	doc := Parse(raw)
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Blocks))
	}
	blk := doc.Blocks[0]
	if blk.Section(SectionBullets).Present {
		t.Fatalf("bullets should be absent")
	}
	if blk.Section(SectionBackend).Present {
		t.Fatalf("backend should be absent")
	}
	if got := blk.Section(SectionBullets).Body; got != "" {
		t.Fatalf("absent section body = %q, want empty", got)
	}
}

func TestParseGarbageYieldsEmptySections(t *testing.T) {
	doc := Parse("just some prose with no markers at all\nand another line\n")
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Blocks))
	}
	for _, k := range Kinds {
		if doc.Blocks[0].Section(k).Present {
			t.Fatalf("section %s unexpectedly present", k)
		}
	}
}

func TestStripAnnotations(t *testing.T) {
	got := StripAnnotations("Lumina Serum [45 chars]")
	if got != "Lumina Serum" {
		t.Fatalf("got %q", got)
	}
	got = StripAnnotations("kw1 kw2 [238 bytes]")
	if got != "kw1 kw2" {
		t.Fatalf("got %q", got)
	}
	got = StripAnnotations("no annotation here")
	if got != "no annotation here" {
		t.Fatalf("got %q", got)
	}
}
