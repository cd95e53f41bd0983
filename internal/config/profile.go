package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConstraintProfile is the complete set of numeric bounds and policy flags a
// generated listing is validated against. It is immutable input, chosen once
// per request and threaded through parser, validator and post-processor.
type ConstraintProfile struct {
	Name string `yaml:"name"`

	TitleMin     int `yaml:"title_min"`
	TitleMax     int `yaml:"title_max"`
	TitleHardMax int `yaml:"title_hard_max"`

	BulletCount int `yaml:"bullet_count"`
	BulletMin   int `yaml:"bullet_min"`
	BulletMax   int `yaml:"bullet_max"`

	DescriptionMin int `yaml:"description_min"`
	DescriptionMax int `yaml:"description_max"`

	BackendMaxBytes int `yaml:"backend_max_bytes"`

	RequireBrandPrefix     bool `yaml:"require_brand_prefix"`
	ForbidBrandInBackend   bool `yaml:"forbid_brand_in_backend"`
	ForbidRestrictedScript bool `yaml:"forbid_restricted_script"`
	ForbidEmoji            bool `yaml:"forbid_emoji"`
	// AllowEmojiBulletLabel exempts the bullet label from the emoji ban for
	// profiles that mandate an emoji-led bullet format.
	AllowEmojiBulletLabel bool `yaml:"allow_emoji_bullet_label"`
	MaxWordRepetition     int  `yaml:"max_word_repetition"`
	ConfineURLsToSources  bool `yaml:"confine_urls_to_sources"`
}

// presets holds the built-in constraint profiles. The two presets mirror the
// two pipeline shapes observed in production: a 5-bullet profile with a tight
// description window and a 7-bullet profile with a wider one.
var presets = map[string]ConstraintProfile{
	"standard": {
		Name:                   "standard",
		TitleMin:               150,
		TitleMax:               190,
		TitleHardMax:           200,
		BulletCount:            5,
		BulletMin:              120,
		BulletMax:              240,
		DescriptionMin:         3300,
		DescriptionMax:         3700,
		BackendMaxBytes:        249,
		RequireBrandPrefix:     true,
		ForbidBrandInBackend:   true,
		ForbidRestrictedScript: true,
		ForbidEmoji:            true,
		MaxWordRepetition:      2,
		ConfineURLsToSources:   true,
	},
	"extended": {
		Name:                   "extended",
		TitleMin:               150,
		TitleMax:               190,
		TitleHardMax:           200,
		BulletCount:            7,
		BulletMin:              120,
		BulletMax:              240,
		DescriptionMin:         3000,
		DescriptionMax:         4000,
		BackendMaxBytes:        249,
		RequireBrandPrefix:     true,
		ForbidBrandInBackend:   true,
		ForbidRestrictedScript: true,
		ForbidEmoji:            true,
		AllowEmojiBulletLabel:  true,
		MaxWordRepetition:      2,
		ConfineURLsToSources:   true,
	},
}

// DefaultProfileName is used when a request names no profile.
const DefaultProfileName = "standard"

// Profile returns the named preset. Unknown names report ok == false so the
// caller can surface a client error instead of silently defaulting.
func Profile(name string) (ConstraintProfile, bool) {
	if name == "" {
		name = DefaultProfileName
	}
	p, ok := presets[name]
	return p, ok
}

// ProfileNames lists the available profile names.
func ProfileNames() []string {
	out := make([]string, 0, len(presets))
	for n := range presets {
		out = append(out, n)
	}
	return out
}

// profileFile is the YAML shape of a profile override file.
type profileFile struct {
	Profiles map[string]yaml.Node `yaml:"profiles"`
}

// LoadProfileOverrides merges profiles from a YAML file over the built-in
// presets. A file entry whose name matches a preset starts from that preset,
// so partial overrides like "bullet_count: 7" are enough; unknown names
// define new profiles from scratch.
func LoadProfileOverrides(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile file: %w", err)
	}
	var pf profileFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return fmt.Errorf("parse profile file: %w", err)
	}
	for name, node := range pf.Profiles {
		base, ok := presets[name]
		if !ok {
			base = ConstraintProfile{Name: name}
		}
		if err := node.Decode(&base); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		base.Name = name
		presets[name] = base
	}
	return nil
}
