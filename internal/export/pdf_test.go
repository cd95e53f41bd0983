package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWritePDF(t *testing.T) {
	doc := "VARIANT A\nTITLES:\n1. Lumina Serum [15 chars]\nBULLET POINTS:\n- **Pflege:** für trockenes Haar\nDESCRIPTION:\nSoftens dry hair.\n[17 chars]\nBACKEND KEYWORDS:\nhaarserum pflege [16 bytes]\n"
	out := filepath.Join(t.TempDir(), "listing.pdf")
	if err := WritePDF(doc, out); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF") {
		t.Fatalf("output is not a PDF, starts with %q", string(b[:8]))
	}
}

func TestWritePDFEmptyDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF("", out); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
}
