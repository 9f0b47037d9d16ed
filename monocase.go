package regexpu

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Case-insensitive matching means different things with and without the u flag. Without it, code points
// are compared after an upper-casing step (ECMAScript's legacy Canonicalize); with it, they're compared
// after Simple case folding as defined by CaseFolding.txt, lines marked "C" and "S". Go's unicode.SimpleFold
// walks exactly those equivalence classes ("orbits").
//
// When we emulate the u flag on an engine that will only apply the legacy rule, we have to spell out the
// code points that simple folding equates but upper-casing doesn't. The classic example is K, k, and U+212A
// KELVIN SIGN: upper-casing maps k to K but leaves U+212A alone, so /K/i won't match "k" without the u
// flag, although /K/iu does.

// caseFold returns the members of r's simple-folding orbit that the legacy rule does not already equate
// with r. It returns nil for the vast majority of code points.
func caseFold(r rune) []rune {
	var folded []rune
	canon := legacyCanonicalize(r)
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if legacyCanonicalize(f) != canon {
			folded = append(folded, f)
		}
	}
	return folded
}

// legacyCanonicalize is the non-Unicode ignore-case Canonicalize(ch) from ECMA-262 22.2.2.7.3, except that
// it works on code points rather than UTF-16 code units. Canonicalize upper-cases with the full mapping,
// SpecialCasing.txt included, and leaves ch alone when that yields more than one code point: ß, and the
// Greek letters with ypogegrammeni along with their title-case partners, are only equal to themselves.
func legacyCanonicalize(r rune) rune {
	if upperExpands(r) {
		return r
	}
	upper := unicode.ToUpper(r)
	if upper > bmpMax {
		return r
	}
	if r >= 128 && upper < 128 {
		return r
	}
	return upper
}

// iuAddRange adds the case-folded counterparts of every code point in lo..hi to set
func iuAddRange(set *CodePointSet, lo, hi rune) {
	var folds []rune
	for _, pair := range intersectRuneRanges(RuneRange{{lo, hi}}, foldableRunes()) {
		for r := pair.Lo; r <= pair.Hi; r++ {
			folds = append(folds, caseFold(r)...)
		}
	}
	set.AddRunes(folds...)
}

// iuAddSet is iuAddRange for every pair in a set; the additions don't feed back into the walk
func iuAddSet(set *CodePointSet) {
	for _, pair := range set.Ranges() {
		iuAddRange(set, pair.Lo, pair.Hi)
	}
}

var (
	foldableOnce sync.Once
	foldable     RuneRange
)

// foldableRunes is every code point whose folding orbit has more than one member. Anything with a
// non-trivial orbit has some case mapping, so only unicode.CaseRanges has to be scanned. The table is
// computed once and never written again.
func foldableRunes() RuneRange {
	foldableOnce.Do(func() {
		var rr RuneRange
		for _, cr := range unicode.CaseRanges {
			for r := rune(cr.Lo); r <= rune(cr.Hi); r++ {
				if unicode.SimpleFold(r) != r {
					rr = append(rr, RunePair{r, r})
				}
			}
		}
		foldable = simplifyRuneRange(rr)
	})
	return foldable
}

var (
	expandingOnce sync.Once
	expanding     map[rune]bool
)

// upperExpands reports whether r's full upper-case mapping is longer than one code point. Only foldable
// code points can have such a mapping and still matter to caseFold; for the rest ToUpper leaves them alone
// anyway. A Caser isn't safe for concurrent use, so the table is built once with a private one.
func upperExpands(r rune) bool {
	expandingOnce.Do(func() {
		expanding = make(map[rune]bool)
		upper := cases.Upper(language.Und)
		for _, pair := range foldableRunes() {
			for f := pair.Lo; f <= pair.Hi; f++ {
				if utf8.RuneCountInString(upper.String(string(f))) > 1 {
					expanding[f] = true
				}
			}
		}
	})
	return expanding[r]
}
