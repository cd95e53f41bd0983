package prompt

import (
	"strings"
	"testing"

	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/listing"
)

func inputs() Inputs {
	p, _ := config.Profile("standard")
	return Inputs{
		Brand:       "Lumina",
		Marketplace: "amazon.de",
		Language:    "German",
		USPs:        "vegan",
		ProductInfo: "Argan oil hair serum, 100ml",
		Variants:    1,
		Profile:     p,
	}
}

func TestSystemStatesNumericContract(t *testing.T) {
	p, _ := config.Profile("standard")
	s := System(p, 1)
	for _, want := range []string{
		"150-190",
		"never more than 200",
		"exactly 5 bullet points",
		"3300-3700",
		"at most 249 bytes",
		"TITLES:",
		"BACKEND KEYWORDS:",
	} {
		if !strings.Contains(strings.ToLower(s), strings.ToLower(want)) {
			t.Fatalf("system prompt missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "VARIANT A") {
		t.Fatalf("single-variant prompt must not require variant markers")
	}
}

func TestSystemMultiVariant(t *testing.T) {
	p, _ := config.Profile("standard")
	s := System(p, 3)
	if !strings.Contains(s, "VARIANT A") {
		t.Fatalf("multi-variant prompt must describe variant markers:\n%s", s)
	}
}

func TestUserCarriesFacts(t *testing.T) {
	u := User(inputs())
	for _, want := range []string{"German", "amazon.de", "Lumina", "vegan", "Argan oil hair serum"} {
		if !strings.Contains(u, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, u)
		}
	}
}

func TestFullRepairCarriesViolationsAndDocument(t *testing.T) {
	out := FullRepair(inputs(), "THE DOCUMENT", "- titles: too short")
	if !strings.Contains(out, "- titles: too short") || !strings.Contains(out, "THE DOCUMENT") {
		t.Fatalf("repair prompt incomplete:\n%s", out)
	}
}

func TestSectionRepairSystemPerKind(t *testing.T) {
	p, _ := config.Profile("standard")
	cases := map[listing.SectionKind]string{
		listing.SectionTitles:      "TITLES:",
		listing.SectionBullets:     "BULLET POINTS:",
		listing.SectionDescription: "DESCRIPTION:",
		listing.SectionBackend:     "BACKEND KEYWORDS:",
	}
	for kind, marker := range cases {
		s := SectionRepairSystem(kind, p)
		if !strings.Contains(s, marker) {
			t.Fatalf("section prompt for %s missing marker %q:\n%s", kind, marker, s)
		}
		if !strings.Contains(s, "ONLY") {
			t.Fatalf("section prompt for %s must scope output to one section", kind)
		}
	}
}

func TestSectionRepairUserNamesVariant(t *testing.T) {
	u := SectionRepairUser(inputs(), "B", "BLOCK TEXT", "- bullets: wrong count")
	if !strings.Contains(u, "Variant B") || !strings.Contains(u, "BLOCK TEXT") {
		t.Fatalf("section repair user prompt incomplete:\n%s", u)
	}
}
