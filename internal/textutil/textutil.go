package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CharCount returns the number of Unicode code points in s. Marketplace
// character budgets count code points, not bytes.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// ByteLen returns the UTF-8 encoded length of s. Backend keyword budgets
// are byte budgets.
func ByteLen(s string) int {
	return len(s)
}

// CollapseSpace trims s and collapses every run of whitespace, including
// newlines and tabs, into a single space.
func CollapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// restrictedScripts lists the scripts that listing copy for EU marketplaces
// must not contain.
var restrictedScripts = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Cyrillic,
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Thai,
}

// FirstRestrictedRune reports the first rune of s belonging to a restricted
// script, if any.
func FirstRestrictedRune(s string) (rune, bool) {
	for _, r := range s {
		for _, tbl := range restrictedScripts {
			if unicode.Is(tbl, r) {
				return r, true
			}
		}
	}
	return 0, false
}

// ContainsRestrictedScript reports whether s contains any rune from a
// restricted script.
func ContainsRestrictedScript(s string) bool {
	_, ok := FirstRestrictedRune(s)
	return ok
}

// FirstEmoji reports the first emoji-range rune in s, if any. The ranges
// cover the emoji blocks plus the variation selector that turns text
// presentation into emoji presentation.
func FirstEmoji(s string) (rune, bool) {
	for _, r := range s {
		if isEmojiRune(r) {
			return r, true
		}
	}
	return 0, false
}

// ContainsEmoji reports whether s contains any emoji-range rune.
func ContainsEmoji(s string) bool {
	_, ok := FirstEmoji(s)
	return ok
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, transport, supplemental
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // misc symbols and arrows (stars)
		return true
	case r == 0xFE0F: // emoji variation selector
		return true
	}
	return false
}

// IsAllUpper reports whether s contains at least one letter and no lowercase
// letters. Digits and punctuation are ignored, so "100% PURE" counts as
// all-uppercase while "100%" alone does not.
func IsAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.IsLower(r) {
			return false
		}
	}
	return hasLetter
}

// MaxWordRepetition returns the occurrence count of the most frequent word
// in s. Comparison is case-insensitive and words are split on any
// non-letter, non-digit rune.
func MaxWordRepetition(s string) int {
	counts := map[string]int{}
	max := 0
	for _, w := range splitWords(s) {
		w = strings.ToLower(w)
		counts[w]++
		if counts[w] > max {
			max = counts[w]
		}
	}
	return max
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
