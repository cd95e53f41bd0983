package config

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// marketplaceLanguages maps EU marketplace identifiers to the language the
// listing copy must be written in. Unknown marketplaces fall back to English.
var marketplaceLanguages = map[string]language.Tag{
	"amazon.de":     language.German,
	"amazon.fr":     language.French,
	"amazon.it":     language.Italian,
	"amazon.es":     language.EuropeanSpanish,
	"amazon.nl":     language.Dutch,
	"amazon.se":     language.Swedish,
	"amazon.pl":     language.Polish,
	"amazon.com.be": language.French,
	"amazon.co.uk":  language.BritishEnglish,
	"amazon.ie":     language.English,
}

// MarketplaceLanguage resolves a marketplace identifier such as "amazon.de"
// to its output language tag.
func MarketplaceLanguage(marketplace string) language.Tag {
	key := strings.ToLower(strings.TrimSpace(marketplace))
	key = strings.TrimPrefix(key, "www.")
	if tag, ok := marketplaceLanguages[key]; ok {
		return tag
	}
	return language.English
}

// LanguageName renders a tag as the English language name used in prompt
// instructions, e.g. "German".
func LanguageName(tag language.Tag) string {
	return display.English.Tags().Name(tag)
}
