package regexpu

import (
	"sort"
	"unicode"
)

// RunePair is an inclusive range of code points.
type RunePair struct {
	Lo, Hi rune
}
type RuneRange []RunePair

const runeMax = 0x10ffff

// CodePointSet is a set of code points held as a RuneRange which is always sorted, with no pair overlapping
// or abutting its neighbor. All the mutating methods return the receiver so calls can be chained.
// The zero value is an empty set.
type CodePointSet struct {
	pairs RuneRange
}

func NewCodePointSet(runes ...rune) *CodePointSet {
	s := &CodePointSet{}
	return s.AddRunes(runes...)
}

// FromRangeTable copies a unicode.RangeTable, honoring strides.
func FromRangeTable(rt *unicode.RangeTable) *CodePointSet {
	var rr RuneRange
	for _, r16 := range rt.R16 {
		rr = appendStrided(rr, rune(r16.Lo), rune(r16.Hi), rune(r16.Stride))
	}
	for _, r32 := range rt.R32 {
		rr = appendStrided(rr, rune(r32.Lo), rune(r32.Hi), rune(r32.Stride))
	}
	return &CodePointSet{pairs: simplifyRuneRange(rr)}
}

func appendStrided(rr RuneRange, lo, hi, stride rune) RuneRange {
	if stride == 1 {
		return append(rr, RunePair{lo, hi})
	}
	for r := lo; r <= hi; r += stride {
		rr = append(rr, RunePair{r, r})
	}
	return rr
}

func (s *CodePointSet) Add(r rune) *CodePointSet {
	return s.AddRange(r, r)
}

// AddRange inserts lo..hi, merging with whatever pairs it touches. An inverted range is ignored.
func (s *CodePointSet) AddRange(lo, hi rune) *CodePointSet {
	if lo > hi {
		return s
	}
	pairs := s.pairs
	i := sort.Search(len(pairs), func(i int) bool { return pairs[i].Hi+1 >= lo })
	j := i
	for j < len(pairs) && pairs[j].Lo <= hi+1 {
		lo = min(lo, pairs[j].Lo)
		hi = max(hi, pairs[j].Hi)
		j++
	}
	merged := make(RuneRange, 0, len(pairs)-(j-i)+1)
	merged = append(merged, pairs[:i]...)
	merged = append(merged, RunePair{lo, hi})
	merged = append(merged, pairs[j:]...)
	s.pairs = merged
	return s
}

// AddRunes is the cheap way to add lots of unrelated code points: one sort instead of one insert per rune.
func (s *CodePointSet) AddRunes(runes ...rune) *CodePointSet {
	if len(runes) == 0 {
		return s
	}
	rr := make(RuneRange, 0, len(s.pairs)+len(runes))
	rr = append(rr, s.pairs...)
	for _, r := range runes {
		rr = append(rr, RunePair{r, r})
	}
	s.pairs = simplifyRuneRange(rr)
	return s
}

func (s *CodePointSet) AddSet(other *CodePointSet) *CodePointSet {
	if other == nil || len(other.pairs) == 0 {
		return s
	}
	rr := make(RuneRange, 0, len(s.pairs)+len(other.pairs))
	rr = append(rr, s.pairs...)
	rr = append(rr, other.pairs...)
	s.pairs = simplifyRuneRange(rr)
	return s
}

func (s *CodePointSet) Remove(r rune) *CodePointSet {
	return s.RemoveRange(r, r)
}

func (s *CodePointSet) RemoveRange(lo, hi rune) *CodePointSet {
	if lo > hi {
		return s
	}
	var out RuneRange
	for _, pair := range s.pairs {
		if pair.Hi < lo || pair.Lo > hi {
			out = append(out, pair)
			continue
		}
		if pair.Lo < lo {
			out = append(out, RunePair{pair.Lo, lo - 1})
		}
		if pair.Hi > hi {
			out = append(out, RunePair{hi + 1, pair.Hi})
		}
	}
	s.pairs = out
	return s
}

func (s *CodePointSet) RemoveSet(other *CodePointSet) *CodePointSet {
	if other == nil || len(other.pairs) == 0 {
		return s
	}
	s.pairs = intersectRuneRanges(s.pairs, invertRuneRange(other.pairs))
	return s
}

// Intersect keeps only the code points that are also in other.
func (s *CodePointSet) Intersect(other *CodePointSet) *CodePointSet {
	if other == nil {
		s.pairs = nil
		return s
	}
	s.pairs = intersectRuneRanges(s.pairs, other.pairs)
	return s
}

// Complement replaces the set with every code point in 0..0x10FFFF that it didn't contain.
func (s *CodePointSet) Complement() *CodePointSet {
	s.pairs = invertRuneRange(s.pairs)
	return s
}

func (s *CodePointSet) Contains(r rune) bool {
	i := sort.Search(len(s.pairs), func(i int) bool { return s.pairs[i].Hi >= r })
	return i < len(s.pairs) && s.pairs[i].Lo <= r
}

func (s *CodePointSet) Clone() *CodePointSet {
	return &CodePointSet{pairs: append(RuneRange(nil), s.pairs...)}
}

func (s *CodePointSet) IsEmpty() bool {
	return len(s.pairs) == 0
}

// Len is the number of code points, not the number of pairs.
func (s *CodePointSet) Len() int {
	n := 0
	for _, pair := range s.pairs {
		n += int(pair.Hi-pair.Lo) + 1
	}
	return n
}

// Ranges returns a copy of the pairs.
func (s *CodePointSet) Ranges() RuneRange {
	return append(RuneRange(nil), s.pairs...)
}

func (s *CodePointSet) Equal(other *CodePointSet) bool {
	if len(s.pairs) != len(other.pairs) {
		return false
	}
	for i, pair := range s.pairs {
		if other.pairs[i] != pair {
			return false
		}
	}
	return true
}

// invertRuneRange expects its input sorted and merged
func invertRuneRange(rr RuneRange) RuneRange {
	var inverted RuneRange
	var point rune = 0
	for _, pair := range rr {
		if pair.Lo > point {
			inverted = append(inverted, RunePair{point, pair.Lo - 1})
		}
		point = pair.Hi + 1
	}
	if point <= runeMax {
		inverted = append(inverted, RunePair{point, runeMax})
	}
	return inverted
}

func intersectRuneRanges(a, b RuneRange) RuneRange {
	var out RuneRange
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := max(a[i].Lo, b[j].Lo)
		hi := min(a[i].Hi, b[j].Hi)
		if lo <= hi {
			out = append(out, RunePair{lo, hi})
		}
		if a[i].Hi < b[j].Hi {
			i++
		} else {
			j++
		}
	}
	return out
}

// simplifyRuneRange sorts and then merges overlapping or abutting pairs
func simplifyRuneRange(rranges RuneRange) RuneRange {
	if len(rranges) == 0 {
		return rranges
	}
	sort.Slice(rranges, func(i, j int) bool { return rranges[i].Lo < rranges[j].Lo })
	var out RuneRange
	currentPair := rranges[0]
	for i := 1; i < len(rranges); i++ {
		nextPair := rranges[i]
		if nextPair.Lo > currentPair.Hi+1 {
			out = append(out, currentPair)
			currentPair = nextPair
			continue
		}
		if nextPair.Hi <= currentPair.Hi {
			continue
		}
		currentPair.Hi = nextPair.Hi
	}
	out = append(out, currentPair)
	return out
}
