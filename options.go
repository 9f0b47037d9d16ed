package regexpu

// Options says what the engine that will run the rewritten pattern can do, and what should be emulated.
type Options struct {
	// Lookbehind lets (?<=...) and (?<!...) through the parser.
	Lookbehind bool
	// DotAllFlag rewrites . to match everything when the s flag is set, for engines without it.
	DotAllFlag bool
	// UseDotAllFlag leaves . alone; the output will run with the s flag. It conflicts with DotAllFlag.
	UseDotAllFlag bool
	// UseUnicodeFlag means the output will run with the u flag, so only property escapes need expanding.
	UseUnicodeFlag bool
	// UnicodePropertyEscape expands \p{...} and \P{...} into explicit code points.
	UnicodePropertyEscape bool
	// NamedGroup strips group names and turns \k<name> into numbered references.
	NamedGroup bool
	// OnNamedGroup, if set, is called with each named group's name and capture index as it is seen.
	OnNamedGroup func(name string, index int)
	// Properties resolves property escapes; nil means unicodeprops.Default.
	Properties PropertyProvider
}

func (o Options) validate() error {
	if o.DotAllFlag && o.UseDotAllFlag {
		return configf("DotAllFlag and UseDotAllFlag can't both be set")
	}
	return nil
}

// flagSet is the parsed flags string. Only u changes how the pattern is read; i and s change how it is
// rewritten.
type flagSet struct {
	hasIndices, global, ignoreCase, multiline, dotAll, unicode, sticky bool
}

const knownFlags = "dgimsuy"

func parseFlags(flags string) (flagSet, error) {
	var fs flagSet
	seen := make(map[rune]bool)
	for _, f := range flags {
		if seen[f] {
			return fs, configf("flag '%c' repeated in %q", f, flags)
		}
		seen[f] = true
		switch f {
		case 'd':
			fs.hasIndices = true
		case 'g':
			fs.global = true
		case 'i':
			fs.ignoreCase = true
		case 'm':
			fs.multiline = true
		case 's':
			fs.dotAll = true
		case 'u':
			fs.unicode = true
		case 'y':
			fs.sticky = true
		case 'v':
			return fs, unsupportedf("the v flag is not supported")
		default:
			return fs, configf("unknown flag '%c', flags are drawn from %q", f, knownFlags)
		}
	}
	return fs, nil
}
