package unicodeprops

import (
	"sort"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

type pair struct {
	lo, hi rune
}

// pairsOf flattens a RangeTable, strides included, into sorted merged pairs
func pairsOf(rt *unicode.RangeTable) []pair {
	var pairs []pair
	add := func(lo, hi, stride rune) {
		if stride == 1 {
			pairs = append(pairs, pair{lo, hi})
			return
		}
		for r := lo; r <= hi; r += stride {
			pairs = append(pairs, pair{r, r})
		}
	}
	for _, r16 := range rt.R16 {
		add(rune(r16.Lo), rune(r16.Hi), rune(r16.Stride))
	}
	for _, r32 := range rt.R32 {
		add(rune(r32.Lo), rune(r32.Hi), rune(r32.Stride))
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].lo < pairs[j].lo })
	var merged []pair
	for _, p := range pairs {
		if n := len(merged); n > 0 && p.lo <= merged[n-1].hi+1 {
			merged[n-1].hi = max(merged[n-1].hi, p.hi)
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

func tableOf(pairs []pair) *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	for _, p := range pairs {
		lo, hi := p.lo, p.hi
		if lo <= 0xffff {
			top := min(hi, 0xffff)
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(lo), Hi: uint16(top), Stride: 1})
			if top <= unicode.MaxLatin1 {
				rt.LatinOffset++
			}
			lo = top + 1
			if lo > hi {
				continue
			}
		}
		rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(lo), Hi: uint32(hi), Stride: 1})
	}
	return rt
}

func span(lo, hi rune) *unicode.RangeTable {
	return tableOf([]pair{{lo, hi}})
}

func complement(rt *unicode.RangeTable) *unicode.RangeTable {
	var out []pair
	var next rune
	for _, p := range pairsOf(rt) {
		if p.lo > next {
			out = append(out, pair{next, p.lo - 1})
		}
		next = p.hi + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, pair{next, unicode.MaxRune})
	}
	return tableOf(out)
}

// subtract returns the code points of from that are in none of the others
func subtract(from *unicode.RangeTable, others ...*unicode.RangeTable) *unicode.RangeTable {
	removed := pairsOf(complement(rangetable.Merge(others...)))
	kept := pairsOf(from)
	var out []pair
	i, j := 0, 0
	for i < len(kept) && j < len(removed) {
		lo := max(kept[i].lo, removed[j].lo)
		hi := min(kept[i].hi, removed[j].hi)
		if lo <= hi {
			out = append(out, pair{lo, hi})
		}
		if kept[i].hi < removed[j].hi {
			i++
		} else {
			j++
		}
	}
	return tableOf(out)
}

func property(name string) *unicode.RangeTable {
	if rt, ok := unicode.Properties[name]; ok {
		return rt
	}
	return &unicode.RangeTable{}
}

func assigned() *unicode.RangeTable {
	return rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)
}

func idStart() *unicode.RangeTable {
	return subtract(
		rangetable.Merge(unicode.L, unicode.Nl, property("Other_ID_Start")),
		property("Pattern_Syntax"), property("Pattern_White_Space"))
}

func idContinue() *unicode.RangeTable {
	return subtract(
		rangetable.Merge(idStart(), unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, property("Other_ID_Continue")),
		property("Pattern_Syntax"), property("Pattern_White_Space"))
}

// derivedProperties are the binary properties Go's unicode package doesn't ship, rebuilt from their
// definitions in the UCD's DerivedCoreProperties.txt.
var derivedProperties = map[string]func() *unicode.RangeTable{
	"Any":      func() *unicode.RangeTable { return span(0, unicode.MaxRune) },
	"ASCII":    func() *unicode.RangeTable { return span(0, unicode.MaxASCII) },
	"Assigned": assigned,
	"Alphabetic": func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl,
			property("Other_Alphabetic"))
	},
	"Lowercase": func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Ll, property("Other_Lowercase"))
	},
	"Uppercase": func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Lu, property("Other_Uppercase"))
	},
	"Cased": func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt,
			property("Other_Lowercase"), property("Other_Uppercase"))
	},
	"Math": func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Sm, property("Other_Math"))
	},
	"Grapheme_Extend": func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Me, unicode.Mn, property("Other_Grapheme_Extend"))
	},
	"ID_Start":    idStart,
	"ID_Continue": idContinue,
}

// ucdProperties are the binary properties ECMAScript allows that come straight out of unicode.Properties.
// The Other_* contributory properties are deliberately absent, ECMAScript doesn't expose them.
var ucdProperties = []string{
	"ASCII_Hex_Digit", "Bidi_Control", "Dash", "Deprecated", "Diacritic", "Extender", "Hex_Digit",
	"IDS_Binary_Operator", "IDS_Trinary_Operator", "Ideographic", "Join_Control", "Logical_Order_Exception",
	"Noncharacter_Code_Point", "Pattern_Syntax", "Pattern_White_Space", "Quotation_Mark", "Radical",
	"Regional_Indicator", "Sentence_Terminal", "Soft_Dotted", "Terminal_Punctuation", "Unified_Ideograph",
	"Variation_Selector", "White_Space",
}
