package regexpu

// White_Space plus LineTerminator, the code points \s matches
var whitespaceRanges = RuneRange{
	{0x09, 0x0d}, {0x20, 0x20}, {0xa0, 0xa0}, {0x1680, 0x1680},
	{0x2000, 0x200a}, {0x2028, 0x2029}, {0x202f, 0x202f}, {0x205f, 0x205f},
	{0x3000, 0x3000}, {0xfeff, 0xfeff},
}

var (
	digitRanges = RuneRange{{'0', '9'}}
	wordRanges  = RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	// with u and i together, \w also takes in LATIN SMALL LETTER LONG S and KELVIN SIGN, which fold into it
	wordIgnoreCaseRanges = RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}, {0x17f, 0x17f}, {0x212a, 0x212a}}
)

// characterClassEscapeSet returns a fresh set for \d \D \s \S \w \W. Without the u flag the negated escapes
// are complemented within the BMP only, since the pattern runs on UTF-16 code units.
func characterClassEscapeSet(escape byte, unicodeMode, ignoreCase bool) (*CodePointSet, error) {
	var base RuneRange
	negated := false
	switch escape {
	case 'd', 'D':
		base = digitRanges
	case 's', 'S':
		base = whitespaceRanges
	case 'w', 'W':
		base = wordRanges
		if unicodeMode && ignoreCase {
			base = wordIgnoreCaseRanges
		}
	default:
		return nil, structuralf("unknown character class escape \\%c", escape)
	}
	switch escape {
	case 'D', 'S', 'W':
		negated = true
	}
	set := &CodePointSet{pairs: append(RuneRange(nil), base...)}
	if negated {
		set.Complement()
		if !unicodeMode {
			set.RemoveRange(bmpMax+1, runeMax)
		}
	}
	return set, nil
}
