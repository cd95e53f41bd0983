package listing

import "fmt"

// Splice replaces one section of one variant block with replacement text and
// returns the re-parsed document. The replacement must be a complete section
// including its heading line, so that re-parsing recovers the same section
// boundaries. Sibling sections are left byte-identical.
//
// When the target section is absent, the replacement is inserted where the
// section canonically belongs: before the first present section that follows
// it in canonical order, or at the block end.
func (d Document) Splice(blockIndex int, kind SectionKind, replacement string) (Document, error) {
	if blockIndex < 0 || blockIndex >= len(d.Blocks) {
		return Document{}, fmt.Errorf("splice: no variant block at index %d", blockIndex)
	}
	blk := d.Blocks[blockIndex]

	if replacement == "" || replacement[len(replacement)-1] != '\n' {
		replacement += "\n"
	}

	start, end := 0, 0
	if sec := blk.Section(kind); sec.Present {
		start, end = sec.Start, sec.End
	} else {
		start = blk.End
		end = blk.End
		after := false
		for _, k := range Kinds {
			if k == kind {
				after = true
				continue
			}
			if !after {
				continue
			}
			if next := blk.Section(k); next.Present {
				start, end = next.Start, next.Start
				break
			}
		}
	}

	// Keep the replacement marker on its own line when the insertion point
	// follows text without a trailing newline.
	if start > 0 && d.Raw[start-1] != '\n' {
		replacement = "\n" + replacement
	}

	raw := d.Raw[:start] + replacement + d.Raw[end:]
	return Parse(raw), nil
}
