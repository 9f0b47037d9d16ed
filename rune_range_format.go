package regexpu

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	highSurrogateMin = 0xd800
	highSurrogateMax = 0xdbff
	lowSurrogateMin  = 0xdc00
	lowSurrogateMax  = 0xdfff
	bmpMax           = 0xffff
)

// FormatOptions controls how a CodePointSet is written out as pattern source.
//
// BMPOnly is for patterns that will run without the u flag and could never contain astral code points:
// lone surrogates are written as ordinary BMP code points and anything astral is dropped.
//
// HasUnicodeFlag is for patterns that will run with the u flag: astral code points are written as \u{...}
// and no surrogate trickery is needed.
type FormatOptions struct {
	BMPOnly        bool
	HasUnicodeFlag bool
}

// String writes the set as pattern source that matches exactly one of its members. Without HasUnicodeFlag,
// astral code points become surrogate pairs. The result is a single class or value where possible,
// otherwise alternatives joined with |, and [] for the empty set.
func (s *CodePointSet) String(opts FormatOptions) string {
	var result string
	if opts.HasUnicodeFlag {
		result = bmpClass(s.pairs, codePointToStringUnicode)
	} else {
		result = surrogateAwareClasses(s.pairs, opts.BMPOnly)
	}
	if result == "" {
		return "[]"
	}
	return shortenNulls(result)
}

// classBody is the inside of the [] that String would produce, for use after a ^. Only meaningful when
// the output is a single class, i.e. with BMPOnly or HasUnicodeFlag.
func (s *CodePointSet) classBody(opts FormatOptions) string {
	toString := codePointToString
	pairs := s.pairs
	if opts.HasUnicodeFlag {
		toString = codePointToStringUnicode
	} else {
		pairs = intersectRuneRanges(pairs, RuneRange{{0, bmpMax}})
	}
	var b strings.Builder
	writeClassPairs(&b, pairs, toString)
	return shortenNulls(b.String())
}

type splitSet struct {
	bmp, loneHigh, loneLow, astral RuneRange
}

func splitAtBMP(pairs RuneRange) splitSet {
	var split splitSet
	split.bmp = intersectRuneRanges(pairs, RuneRange{{0, highSurrogateMin - 1}, {lowSurrogateMax + 1, bmpMax}})
	split.loneHigh = intersectRuneRanges(pairs, RuneRange{{highSurrogateMin, highSurrogateMax}})
	split.loneLow = intersectRuneRanges(pairs, RuneRange{{lowSurrogateMin, lowSurrogateMax}})
	split.astral = intersectRuneRanges(pairs, RuneRange{{bmpMax + 1, runeMax}})
	return split
}

func surrogateAwareClasses(pairs RuneRange, bmpOnly bool) string {
	split := splitAtBMP(pairs)
	var parts []string
	if bmpOnly {
		all := make(RuneRange, 0, len(split.bmp)+len(split.loneHigh)+len(split.loneLow))
		all = append(all, split.bmp...)
		all = append(all, split.loneHigh...)
		all = append(all, split.loneLow...)
		split.bmp = simplifyRuneRange(all)
		split.loneHigh, split.loneLow, split.astral = nil, nil, nil
	}
	if len(split.bmp) != 0 {
		parts = append(parts, bmpClass(split.bmp, codePointToString))
	}
	if len(split.astral) != 0 {
		for _, mapping := range surrogateMappings(split.astral) {
			parts = append(parts, bmpClass(mapping.high, codePointToString)+bmpClass(mapping.low, codePointToString))
		}
	}
	if len(split.loneHigh) != 0 {
		// a high surrogate only stands alone if no low surrogate follows it
		parts = append(parts, bmpClass(split.loneHigh, codePointToString)+`(?![\uDC00-\uDFFF])`)
	}
	if len(split.loneLow) != 0 {
		// no lookbehind to lean on, so this is the best available approximation
		parts = append(parts, `(?:[^\uD800-\uDBFF]|^)`+bmpClass(split.loneLow, codePointToString))
	}
	return strings.Join(parts, "|")
}

type surrogateMapping struct {
	high, low RuneRange
}

// surrogateMappings turns astral ranges into (high surrogates) x (low surrogates) products. Each input range
// splits into at most three: a partial run under its first high surrogate, full low-surrogate blocks under
// the high surrogates in the middle, and a partial run under its last high surrogate.
func surrogateMappings(astral RuneRange) []surrogateMapping {
	var mappings []surrogateMapping
	for _, pair := range astral {
		startHigh, startLow := surrogates(pair.Lo)
		endHigh, endLow := surrogates(pair.Hi)
		startsAtLowMin := startLow == lowSurrogateMin
		endsAtLowMax := endLow == lowSurrogateMax
		complete := false
		if startHigh == endHigh || (startsAtLowMin && endsAtLowMax) {
			mappings = append(mappings, surrogateMapping{
				high: RuneRange{{startHigh, endHigh}},
				low:  RuneRange{{startLow, endLow}},
			})
			complete = true
		} else {
			mappings = append(mappings, surrogateMapping{
				high: RuneRange{{startHigh, startHigh}},
				low:  RuneRange{{startLow, lowSurrogateMax}},
			})
		}
		if !complete && startHigh+1 < endHigh {
			if endsAtLowMax {
				mappings = append(mappings, surrogateMapping{
					high: RuneRange{{startHigh + 1, endHigh}},
					low:  RuneRange{{lowSurrogateMin, endLow}},
				})
				complete = true
			} else {
				mappings = append(mappings, surrogateMapping{
					high: RuneRange{{startHigh + 1, endHigh - 1}},
					low:  RuneRange{{lowSurrogateMin, lowSurrogateMax}},
				})
			}
		}
		if !complete {
			mappings = append(mappings, surrogateMapping{
				high: RuneRange{{endHigh, endHigh}},
				low:  RuneRange{{lowSurrogateMin, endLow}},
			})
		}
	}
	mappings = mergeMappings(mappings, func(m surrogateMapping) RuneRange { return m.high },
		func(m *surrogateMapping, other surrogateMapping) {
			m.low = simplifyRuneRange(append(m.low, other.low...))
		})
	mappings = mergeMappings(mappings, func(m surrogateMapping) RuneRange { return m.low },
		func(m *surrogateMapping, other surrogateMapping) {
			m.high = simplifyRuneRange(append(m.high, other.high...))
		})
	return mappings
}

// mergeMappings folds together mappings that share the same key side, keeping first-seen order
func mergeMappings(mappings []surrogateMapping, key func(surrogateMapping) RuneRange, merge func(*surrogateMapping, surrogateMapping)) []surrogateMapping {
	var out []surrogateMapping
	index := make(map[string]int)
	for _, m := range mappings {
		k := fmt.Sprint(key(m))
		if i, ok := index[k]; ok {
			merge(&out[i], m)
			continue
		}
		index[k] = len(out)
		m.high = append(RuneRange(nil), m.high...)
		m.low = append(RuneRange(nil), m.low...)
		out = append(out, m)
	}
	return out
}

func surrogates(r rune) (high, low rune) {
	r -= 0x10000
	return highSurrogateMin + (r >> 10), lowSurrogateMin + (r & 0x3ff)
}

// bmpClass writes a lone code point bare and anything else inside []
func bmpClass(pairs RuneRange, toString func(rune) string) string {
	if len(pairs) == 0 {
		return ""
	}
	if len(pairs) == 1 && pairs[0].Lo == pairs[0].Hi {
		return toString(pairs[0].Lo)
	}
	var b strings.Builder
	b.WriteByte('[')
	writeClassPairs(&b, pairs, toString)
	b.WriteByte(']')
	return b.String()
}

func writeClassPairs(b *strings.Builder, pairs RuneRange, toString func(rune) string) {
	for _, pair := range pairs {
		switch {
		case pair.Lo == pair.Hi:
			b.WriteString(toString(pair.Lo))
		case pair.Lo+1 == pair.Hi:
			b.WriteString(toString(pair.Lo))
			b.WriteString(toString(pair.Hi))
		default:
			b.WriteString(toString(pair.Lo))
			b.WriteByte('-')
			b.WriteString(toString(pair.Hi))
		}
	}
}

// codePointToString writes a BMP code point so that it means itself both inside and outside a class,
// with or without the u flag.
func codePointToString(r rune) string {
	switch {
	case r == '\t':
		return `\t`
	case r == '\n':
		return `\n`
	case r == '\f':
		return `\f`
	case r == '\r':
		return `\r`
	case r == '-':
		// \- is an error outside a class in u-mode, \x2D never is
		return `\x2D`
	case r == '\\':
		return `\\`
	case r == '$' || (r >= '(' && r <= '+') || r == '.' || r == '/' || r == '?' ||
		(r >= '[' && r <= '^') || (r >= '{' && r <= '}'):
		return `\` + string(r)
	case r >= 0x20 && r <= 0x7e:
		return string(r)
	case r <= 0xff:
		return fmt.Sprintf(`\x%02X`, r)
	case r <= bmpMax:
		return fmt.Sprintf(`\u%04X`, r)
	}
	// only reachable from codePointToStringUnicode's callers by mistake
	high, low := surrogates(r)
	return fmt.Sprintf(`\u%04X\u%04X`, high, low)
}

func codePointToStringUnicode(r rune) string {
	if r <= bmpMax {
		return codePointToString(r)
	}
	return fmt.Sprintf(`\u{%X}`, r)
}

var nullEscape = regexp.MustCompile(`\\x00([^0-9]|$)`)

// shortenNulls prefers \0 to \x00 when no digit follows.
func shortenNulls(s string) string {
	return nullEscape.ReplaceAllString(s, `\0$1`)
}
