// Package export renders a finished listing document as a PDF for sharing
// outside the API.
package export

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sellerkit/listinggen/internal/listing"
)

// WritePDF renders the listing document text to outPath. Variant markers
// become headings, section markers subheadings; everything else keeps its
// line layout.
func WritePDF(document string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	// gofpdf core fonts are cp1252; transliterate what they cannot encode.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(strings.NewReader(document))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		s := strings.TrimSpace(line)
		switch {
		case s == "":
			pdf.Ln(4)
		case isVariantHeading(s):
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 8, tr(s), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
		case isSectionHeading(s):
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 7, tr(s), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
		default:
			pdf.MultiCell(0, 5, tr(strings.ReplaceAll(s, "**", "")), "", "L", false)
		}
	}
	return pdf.OutputFileAndClose(outPath)
}

func isVariantHeading(s string) bool {
	up := strings.ToUpper(s)
	return strings.HasPrefix(up, "VARIANT") || up == "RESEARCH"
}

func isSectionHeading(s string) bool {
	up := strings.ToUpper(strings.TrimRight(s, ": "))
	for _, k := range listing.Kinds {
		for _, phrase := range listing.MarkerPhrases(k) {
			if up == phrase {
				return true
			}
		}
	}
	return false
}
