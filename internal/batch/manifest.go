// Package batch rewrites many patterns in one go. A manifest lists the patterns with their flags and
// rewriting options, and Run works through them concurrently, reporting each result in manifest order.
package batch

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/ldklab/regexpu"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OptionSet mirrors regexpu.Options. A nil field means "not given", so an entry can override a default
// in either direction.
type OptionSet struct {
	Lookbehind            *bool `yaml:"lookbehind,omitempty" toml:"lookbehind,omitempty" json:"lookbehind,omitempty"`
	DotAllFlag            *bool `yaml:"dot_all_flag,omitempty" toml:"dot_all_flag,omitempty" json:"dot_all_flag,omitempty"`
	UseDotAllFlag         *bool `yaml:"use_dot_all_flag,omitempty" toml:"use_dot_all_flag,omitempty" json:"use_dot_all_flag,omitempty"`
	UseUnicodeFlag        *bool `yaml:"use_unicode_flag,omitempty" toml:"use_unicode_flag,omitempty" json:"use_unicode_flag,omitempty"`
	UnicodePropertyEscape *bool `yaml:"unicode_property_escape,omitempty" toml:"unicode_property_escape,omitempty" json:"unicode_property_escape,omitempty"`
	NamedGroup            *bool `yaml:"named_group,omitempty" toml:"named_group,omitempty" json:"named_group,omitempty"`
}

// over returns o with every field that's set in top replaced.
func (o OptionSet) over(top OptionSet) OptionSet {
	pick := func(base, override *bool) *bool {
		if override != nil {
			return override
		}
		return base
	}
	return OptionSet{
		Lookbehind:            pick(o.Lookbehind, top.Lookbehind),
		DotAllFlag:            pick(o.DotAllFlag, top.DotAllFlag),
		UseDotAllFlag:         pick(o.UseDotAllFlag, top.UseDotAllFlag),
		UseUnicodeFlag:        pick(o.UseUnicodeFlag, top.UseUnicodeFlag),
		UnicodePropertyEscape: pick(o.UnicodePropertyEscape, top.UnicodePropertyEscape),
		NamedGroup:            pick(o.NamedGroup, top.NamedGroup),
	}
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func (o OptionSet) options() regexpu.Options {
	return regexpu.Options{
		Lookbehind:            isSet(o.Lookbehind),
		DotAllFlag:            isSet(o.DotAllFlag),
		UseDotAllFlag:         isSet(o.UseDotAllFlag),
		UseUnicodeFlag:        isSet(o.UseUnicodeFlag),
		UnicodePropertyEscape: isSet(o.UnicodePropertyEscape),
		NamedGroup:            isSet(o.NamedGroup),
	}
}

// Defaults apply to every entry that doesn't say otherwise.
type Defaults struct {
	Flags     string `yaml:"flags" toml:"flags"`
	OptionSet `yaml:",inline"`
}

type Entry struct {
	// Name identifies the entry in reports; it defaults to its position, "#1" for the first.
	Name    string  `yaml:"name" toml:"name"`
	Pattern string  `yaml:"pattern" toml:"pattern"`
	Flags   *string `yaml:"flags" toml:"flags"`
	OptionSet `yaml:",inline"`
}

// Manifest is the contents of a manifest file.
type Manifest struct {
	Defaults Defaults `yaml:"defaults" toml:"defaults"`
	Entries  []Entry  `yaml:"entries" toml:"entries"`
}

// LoadManifest reads a manifest, as YAML if the file name ends in .yaml or .yml and as TOML if it ends in
// .toml, and validates it.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.Wrap(err, "reading manifest")
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return m, errors.Errorf("unknown manifest format %q, expected .yaml, .yml, or .toml", ext)
	}
	if err != nil {
		return m, errors.Wrapf(err, "parsing manifest %s", path)
	}
	if err := m.Validate(); err != nil {
		return m, errors.Wrapf(err, "invalid manifest %s", path)
	}
	return m, nil
}

// Validate ensures the manifest can be run. Problems with individual patterns aren't its concern; they
// show up as failed entries.
func (m Manifest) Validate() error {
	if len(m.Entries) == 0 {
		return errors.New("manifest has no entries")
	}
	if isSet(m.Defaults.DotAllFlag) && isSet(m.Defaults.UseDotAllFlag) {
		return errors.New("defaults set both dot_all_flag and use_dot_all_flag")
	}
	names := make(map[string]int)
	for i := range m.Entries {
		name := m.entryName(i)
		if first, ok := names[name]; ok {
			return errors.Errorf("entries %d and %d are both named %q", first+1, i+1, name)
		}
		names[name] = i
	}
	return nil
}

func (m Manifest) entryName(i int) string {
	if name := m.Entries[i].Name; name != "" {
		return name
	}
	return "#" + strconv.Itoa(i+1)
}

// resolve merges the defaults into entry i.
func (m Manifest) resolve(i int) (flags string, opts regexpu.Options) {
	e := m.Entries[i]
	flags = m.Defaults.Flags
	if e.Flags != nil {
		flags = *e.Flags
	}
	return flags, m.Defaults.OptionSet.over(e.OptionSet).options()
}
