package listing

import (
	"strings"
	"testing"
)

func TestSpliceReplacesOnlyTargetSection(t *testing.T) {
	doc := Parse(sampleSingle)
	before := doc.Blocks[0]

	replacement := "DESCRIPTION:\nA fresh replacement body.\n[24 chars]\n"
	out, err := doc.Splice(0, SectionDescription, replacement)
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	after := out.Blocks[0]

	if got := DescriptionBody(after.Section(SectionDescription).Body); got != "A fresh replacement body." {
		t.Fatalf("description after splice = %q", got)
	}
	for _, k := range []SectionKind{SectionTitles, SectionBullets, SectionBackend} {
		b := before.Section(k)
		a := after.Section(k)
		if doc.Raw[b.Start:b.End] != out.Raw[a.Start:a.End] {
			t.Fatalf("section %s changed by unrelated splice", k)
		}
	}
}

func TestSpliceRoundTripRecoversBoundaries(t *testing.T) {
	doc := Parse(sampleSingle)
	sec := doc.Blocks[0].Section(SectionBullets)
	// Splicing a section's own text back must reproduce the document.
	out, err := doc.Splice(0, SectionBullets, doc.Raw[sec.Start:sec.End])
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	if out.Raw != doc.Raw {
		t.Fatalf("identity splice altered raw text")
	}
	got := out.Blocks[0].Section(SectionBullets)
	if got.Start != sec.Start || got.End != sec.End {
		t.Fatalf("boundaries moved: had [%d,%d), got [%d,%d)", sec.Start, sec.End, got.Start, got.End)
	}
}

func TestSpliceIntoLabeledBlockLeavesSiblingsAlone(t *testing.T) {
	doc := Parse(buildVariants())
	replacement := "BULLET POINTS:\n- **New:** replacement bullet\n"
	out, err := doc.Splice(1, SectionBullets, replacement)
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	if len(out.Blocks) != 3 {
		t.Fatalf("blocks after splice = %d, want 3", len(out.Blocks))
	}
	// Block B carries the replacement.
	got := Bullets(out.Blocks[1].Section(SectionBullets).Body)
	if len(got) != 1 || !strings.Contains(got[0], "New") {
		t.Fatalf("block B bullets = %v", got)
	}
	// Blocks A and C are byte-identical to before.
	for _, i := range []int{0, 2} {
		b := doc.Blocks[i]
		a := out.Blocks[i]
		if doc.Raw[b.Start:b.End] != out.Raw[a.Start:a.End] {
			t.Fatalf("block %s changed by splice into B", b.Label)
		}
	}
}

func TestSpliceInsertsMissingSectionInCanonicalOrder(t *testing.T) {
	raw := "TITLES:\n1. Lumina X [8 chars]\n2. Lumina Y [8 chars]\nDESCRIPTION:\ntext\n"
	doc := Parse(raw)
	out, err := doc.Splice(0, SectionBullets, "BULLET POINTS:\n- **P:** body\n")
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	blk := out.Blocks[0]
	if !blk.Section(SectionBullets).Present {
		t.Fatalf("bullets still absent after insert")
	}
	// Bullets must sit between titles and description.
	if !(blk.Section(SectionTitles).End <= blk.Section(SectionBullets).Start) ||
		!(blk.Section(SectionBullets).End <= blk.Section(SectionDescription).Start) {
		t.Fatalf("inserted section out of order")
	}
}

func TestSpliceAppendsAfterUnterminatedLastLine(t *testing.T) {
	// Generated text is trimmed, so the last line often has no newline. The
	// inserted marker must still land on its own line.
	raw := "TITLES:\n1. Lumina X [8 chars]\n2. Lumina Y [8 chars]\nBULLET POINTS:\n- **P:** body"
	doc := Parse(raw)
	out, err := doc.Splice(0, SectionDescription, "DESCRIPTION:\nfresh text\n")
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	blk := out.Blocks[0]
	if !blk.Section(SectionDescription).Present {
		t.Fatalf("description absent after insert:\n%s", out.Raw)
	}
	if strings.Contains(out.Raw, "bodyDESCRIPTION:") {
		t.Fatalf("marker merged into prior line:\n%s", out.Raw)
	}
	if got := Bullets(blk.Section(SectionBullets).Body); len(got) != 1 || got[0] != "- **P:** body" {
		t.Fatalf("bullet line disturbed: %v", got)
	}
}

func TestSpliceBadBlockIndex(t *testing.T) {
	doc := Parse(sampleSingle)
	if _, err := doc.Splice(3, SectionTitles, "TITLES:\n1. x\n2. y\n"); err == nil {
		t.Fatalf("expected error for out-of-range block index")
	}
}
