package regexpu

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var allFeatures = ParseFeatures{UnicodePropertyEscape: true, NamedGroups: true, Lookbehind: true}

func sym(r rune) *Value {
	return &Value{Kind: ValueSymbol, CodePoint: r, Raw: string(r)}
}

func TestReadTrees(t *testing.T) {
	type tree struct {
		rx     string
		flags  string
		wanted Node
	}
	trees := []tree{
		{rx: "a", wanted: sym('a')},
		{rx: "ab", wanted: &Alternative{Body: []Node{sym('a'), sym('b')}}},
		{rx: "a|b", wanted: &Disjunction{Body: []Node{sym('a'), sym('b')}}},
		{rx: "a|", wanted: &Disjunction{Body: []Node{sym('a'), &Empty{}}}},
		{rx: "", wanted: &Empty{}},
		{rx: "a*?", wanted: &Quantifier{Min: 0, Max: Unbounded, Symbol: '*', Body: sym('a')}},
		{rx: "a{2,3}", wanted: &Quantifier{Min: 2, Max: 3, Greedy: true, Body: sym('a')}},
		{rx: "a{2,}", wanted: &Quantifier{Min: 2, Max: Unbounded, Greedy: true, Body: sym('a')}},
		{rx: `(?<year>\d{4})`, wanted: &Group{Behavior: GroupNormal, Name: "year", Body: []Node{
			&Quantifier{Min: 4, Max: 4, Greedy: true, Body: &CharacterClassEscape{Value: 'd'}},
		}}},
		{rx: `[^a-z\d]`, wanted: &CharacterClass{Negative: true, Body: []Node{
			&CharacterClassRange{Min: sym('a'), Max: sym('z')},
			&CharacterClassEscape{Value: 'd'},
		}}},
		{rx: "[a-]", wanted: &CharacterClass{Body: []Node{sym('a'), sym('-')}}},
		{rx: `[\d-z]`, wanted: &CharacterClass{Body: []Node{&CharacterClassEscape{Value: 'd'}, sym('-'), sym('z')}}},
		{rx: `[\b]`, wanted: &CharacterClass{Body: []Node{&Value{Kind: ValueSingleEscape, CodePoint: 8, Raw: `\b`}}}},
		{rx: "[]", wanted: &CharacterClass{Body: []Node{}}},
		{rx: `\u{1F600}`, flags: "u", wanted: &Value{Kind: ValueUnicodeCodePointEscape, CodePoint: 0x1F600, Raw: `\u{1F600}`}},
		{rx: `\uD83D\uDE00`, flags: "u", wanted: &Value{Kind: ValueUnicodeEscape, CodePoint: 0x1F600, Raw: `\uD83D\uDE00`}},
		{rx: `\uD83D\uDE00`, wanted: &Alternative{Body: []Node{
			&Value{Kind: ValueUnicodeEscape, CodePoint: 0xD83D, Raw: `\uD83D`},
			&Value{Kind: ValueUnicodeEscape, CodePoint: 0xDE00, Raw: `\uDE00`},
		}}},
		{rx: "😀", flags: "u", wanted: &Value{Kind: ValueSymbol, CodePoint: 0x1F600, Raw: "😀"}},
		{rx: "😀", wanted: &Alternative{Body: []Node{
			&Value{Kind: ValueSymbol, CodePoint: 0xD83D},
			&Value{Kind: ValueSymbol, CodePoint: 0xDE00},
		}}},
		{rx: "😀+", wanted: &Alternative{Body: []Node{
			&Value{Kind: ValueSymbol, CodePoint: 0xD83D},
			&Quantifier{Min: 1, Max: Unbounded, Greedy: true, Symbol: '+', Body: &Value{Kind: ValueSymbol, CodePoint: 0xDE00}},
		}}},
		{rx: `\1(a)`, wanted: &Alternative{Body: []Node{&Reference{MatchIndex: 1}, &Group{Body: []Node{sym('a')}}}}},
		{rx: `(a)\1`, flags: "u", wanted: &Alternative{Body: []Node{&Group{Body: []Node{sym('a')}}, &Reference{MatchIndex: 1}}}},
		{rx: `\2(a)`, wanted: &Alternative{Body: []Node{
			&Value{Kind: ValueOctal, CodePoint: 2, Raw: `\2`},
			&Group{Body: []Node{sym('a')}},
		}}},
		{rx: `\012`, wanted: &Value{Kind: ValueOctal, CodePoint: 10, Raw: `\012`}},
		{rx: `\0`, wanted: &Value{Kind: ValueNull, Raw: `\0`}},
		{rx: `\8`, wanted: &Value{Kind: ValueIdentifier, CodePoint: '8', Raw: `\8`}},
		{rx: `\x41`, wanted: &Value{Kind: ValueHexadecimalEscape, CodePoint: 'A', Raw: `\x41`}},
		{rx: `\cJ`, wanted: &Value{Kind: ValueControlLetter, CodePoint: 10, Raw: `\cJ`}},
		{rx: `\c1`, wanted: &Alternative{Body: []Node{&Value{Kind: ValueSymbol, CodePoint: '\\', Raw: `\`}, sym('c'), sym('1')}}},
		{rx: `\n`, wanted: &Value{Kind: ValueSingleEscape, CodePoint: '\n', Raw: `\n`}},
		{rx: `\/`, flags: "u", wanted: &Value{Kind: ValueIdentifier, CodePoint: '/', Raw: `\/`}},
		{rx: `[\-]`, flags: "u", wanted: &CharacterClass{Body: []Node{&Value{Kind: ValueIdentifier, CodePoint: '-', Raw: `\-`}}}},
		{rx: "a{", wanted: &Alternative{Body: []Node{sym('a'), sym('{')}}},
		{rx: "]", wanted: sym(']')},
		{rx: `\k`, wanted: &Value{Kind: ValueIdentifier, CodePoint: 'k', Raw: `\k`}},
		{rx: `^\b$\B`, wanted: &Alternative{Body: []Node{
			&Anchor{Kind: AnchorStart}, &Anchor{Kind: AnchorBoundary}, &Anchor{Kind: AnchorEnd}, &Anchor{Kind: AnchorNotBoundary},
		}}},
		{rx: "(?=a)*", wanted: &Quantifier{Min: 0, Max: Unbounded, Greedy: true, Symbol: '*', Body: &Group{
			Behavior: GroupLookahead, Body: []Node{sym('a')},
		}}},
		{rx: "(?<!a|b)", wanted: &Group{Behavior: GroupNegativeLookbehind, Body: []Node{
			&Disjunction{Body: []Node{sym('a'), sym('b')}},
		}}},
		{rx: "()", wanted: &Group{Body: []Node{}}},
		{rx: `\p{Lu}`, flags: "u", wanted: &UnicodePropertyEscape{Value: "Lu"}},
		{rx: `\P{Script=Greek}`, flags: "u", wanted: &UnicodePropertyEscape{Negative: true, Value: "Script=Greek"}},
		{rx: `\p{Lu}`, wanted: &Alternative{Body: []Node{&Value{Kind: ValueIdentifier, CodePoint: 'p', Raw: `\p`}, sym('{'), sym('L'), sym('u'), sym('}')}}},
		{rx: `\k<x>(?<x>a)`, wanted: &Alternative{Body: []Node{&Reference{Name: "x"}, &Group{Name: "x", Body: []Node{sym('a')}}}}},
	}
	for _, tr := range trees {
		got, err := Parse(tr.rx, tr.flags, allFeatures)
		if err != nil {
			t.Errorf("/%s/%s: %s", tr.rx, tr.flags, err.Error())
			continue
		}
		if diff := cmp.Diff(tr.wanted, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("/%s/%s mismatch (-want +got):\n%s", tr.rx, tr.flags, diff)
		}
	}
}

func TestRegexpErrors(t *testing.T) {
	type bad struct {
		rx    string
		flags string
	}
	bads := []bad{
		{rx: "abc)"}, {rx: "(a"}, {rx: "[a"}, {rx: "*"}, {rx: "a**"}, {rx: "+a"}, {rx: "a{3,2}"},
		{rx: `\`}, {rx: "[z-a]"}, {rx: "(?x)"}, {rx: "(?<1a>x)"}, {rx: "(?<>x)"}, {rx: "(?<x"},
		{rx: string([]byte{'a', 0xff})},
		{rx: string([]byte{'[', 'a', '-', 0xff, ']'})},
		{rx: `\c`, flags: "u"}, {rx: `\u{110000}`, flags: "u"}, {rx: `\u{}`, flags: "u"}, {rx: `\u12`, flags: "u"},
		{rx: `\-`, flags: "u"}, {rx: `\z`, flags: "u"}, {rx: "{", flags: "u"}, {rx: "}", flags: "u"},
		{rx: "]", flags: "u"}, {rx: `\1`, flags: "u"}, {rx: "a{2", flags: "u"}, {rx: "(?=a)*", flags: "u"},
		{rx: "(?<=a)*"}, {rx: `\00`, flags: "u"}, {rx: `[\1]`, flags: "u"}, {rx: `\x4`, flags: "u"},
		{rx: `\p{}`, flags: "u"}, {rx: `\p{L`, flags: "u"}, {rx: `\p{a=b=c}`, flags: "u"}, {rx: `\pL`, flags: "u"},
		{rx: `[\d-z]`, flags: "u"}, {rx: `\k`, flags: "u"}, {rx: `\k(?<a>.)`},
		{rx: `[\k](?<a>.)`},
	}
	for _, b := range bads {
		_, err := Parse(b.rx, b.flags, allFeatures)
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("/%s/%s: wanted syntax error, got %v", b.rx, b.flags, err)
		}
	}
}

func TestErrorOffsets(t *testing.T) {
	type offset struct {
		rx     string
		wanted int
	}
	offsets := []offset{
		{rx: "abc)", wanted: 3},
		{rx: "ab[z-a]", wanted: 4},
		{rx: "a(b", wanted: 1},
		{rx: "ab**", wanted: 3},
	}
	for _, o := range offsets {
		_, err := Parse(o.rx, "", ParseFeatures{})
		var rxErr *Error
		if !errors.As(err, &rxErr) {
			t.Errorf("%s: not an *Error: %v", o.rx, err)
			continue
		}
		if rxErr.Offset != o.wanted {
			t.Errorf("%s: offset %d wanted %d (%s)", o.rx, rxErr.Offset, o.wanted, rxErr.Error())
		}
	}
}

func TestUnimplementedFeatures(t *testing.T) {
	type gated struct {
		rx       string
		flags    string
		features ParseFeatures
	}
	gates := []gated{
		{rx: "(?<x>a)"},
		{rx: `(?<x>a)\k<x>`, features: ParseFeatures{Lookbehind: true}},
		{rx: "(?<=a)b"},
		{rx: "(?<!a)b", features: ParseFeatures{NamedGroups: true}},
		{rx: `\p{L}`, flags: "u"},
	}
	for _, g := range gates {
		_, err := Parse(g.rx, g.flags, g.features)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("/%s/%s: wanted unsupported, got %v", g.rx, g.flags, err)
		}
	}
}

func TestBadFlags(t *testing.T) {
	for _, flags := range []string{"uu", "x", "gig", "U"} {
		if _, err := Parse("a", flags, ParseFeatures{}); !errors.Is(err, ErrConfig) {
			t.Errorf("flags %q: got %v", flags, err)
		}
	}
	if _, err := Parse("a", "uv", ParseFeatures{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("v flag: got %v", err)
	}
	if _, err := Parse("a", "dgimsuy", ParseFeatures{}); err != nil {
		t.Errorf("all flags: %v", err)
	}
}

func TestBasicRegexpFeatureRead(t *testing.T) {
	type fw struct {
		rx     string
		flags  string
		wanted []regexpFeature
	}

	var tfw = []fw{
		{rx: "a.b", wanted: []regexpFeature{rxfDot}},
		{rx: "ab*", wanted: []regexpFeature{rxfQuantifier}},
		{rx: "(ab)+", wanted: []regexpFeature{rxfParenGroup, rxfQuantifier}},
		{rx: "zzzz{0,3}", wanted: []regexpFeature{rxfQuantifier}},
		{rx: `a\p{Lt}`, flags: "u", wanted: []regexpFeature{rxfProperty}},
		{rx: "a[fox37é]z", wanted: []regexpFeature{rxfClass}},
		{rx: "a[^fox37é]z", wanted: []regexpFeature{rxfClass, rxfNegatedClass}},
		{rx: "(abc)|(def)", wanted: []regexpFeature{rxfOrBar, rxfParenGroup}},
		{rx: `(?:a)(?=b)(?<!c)`, wanted: []regexpFeature{rxfNonCapture, rxfLookahead, rxfLookbehind}},
		{rx: `(?<n>a)\k<n>\1`, wanted: []regexpFeature{rxfNamedGroup, rxfNamedReference, rxfBackReference}},
		{rx: `^\w$`, wanted: []regexpFeature{rxfAnchor, rxfClassEscape}},
	}

	for _, w := range tfw {
		_, found, err := Inspect(w.rx, w.flags, allFeatures)
		if err != nil {
			t.Errorf("botch on %s: %s", w.rx, err.Error())
			continue
		}
		var wanted []string
		for _, f := range w.wanted {
			wanted = append(wanted, string(f))
		}
		if diff := cmp.Diff(wanted, found, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
			t.Errorf("for %s (-want +got):\n%s", w.rx, diff)
		}
	}

	fc := newRegexpFeatureChecker(ParseFeatures{})
	fc.recordFeature(rxfDot)
	fc.recordFeature(rxfLookbehind)
	fc.recordFeature(rxfNamedGroup)
	unimpl := fc.foundUnimplemented()
	if len(unimpl) != 2 || unimpl[0] != rxfLookbehind || unimpl[1] != rxfNamedGroup {
		t.Errorf("unimplemented: %v", unimpl)
	}
}

func TestParseGenerateRoundTrip(t *testing.T) {
	type rt struct {
		rx    string
		flags string
	}
	rts := []rt{
		{rx: "abc"}, {rx: "a|b|"}, {rx: "(?:a|b)+?c{2,}d{3}e{1,4}?"}, {rx: `^\bfoo\B$`},
		{rx: `[^\d\s\w\-a-z\]]`}, {rx: `\0\012\x41A\cJ\t\n\v\f\r`}, {rx: `(a)(?<n>b)\k<n>\1\2`},
		{rx: `(?=x)(?!y)(?<=z)(?<!w)`}, {rx: `\u{1F600}\p{Lu}\P{Script=Greek}`, flags: "u"}, {rx: "a{"},
		{rx: "a{,5}"}, {rx: "]"}, {rx: `\c1`}, {rx: `[\c1]`}, {rx: `\8\9\a`}, {rx: "😀", flags: "u"},
		{rx: `\uD83D\uDE00`, flags: "u"}, {rx: `[\b]`}, {rx: "[]"}, {rx: "[^]"}, {rx: `a\/b`},
	}
	for _, r := range rts {
		tree, err := Parse(r.rx, r.flags, allFeatures)
		if err != nil {
			t.Errorf("/%s/%s: %s", r.rx, r.flags, err.Error())
			continue
		}
		got, err := Generate(tree)
		if err != nil {
			t.Errorf("/%s/%s: %s", r.rx, r.flags, err.Error())
			continue
		}
		if got != r.rx {
			t.Errorf("/%s/%s regenerated as /%s/", r.rx, r.flags, got)
		}
	}
}

func TestGenerateWithoutRaw(t *testing.T) {
	type gen struct {
		tree   Node
		wanted string
	}
	gens := []gen{
		{tree: &Alternative{Body: []Node{&Value{Kind: ValueSymbol, CodePoint: 0xD83D}, &Value{Kind: ValueSymbol, CodePoint: 0xDE00}}},
			wanted: `\uD83D\uDE00`},
		{tree: &Value{Kind: ValueSymbol, CodePoint: '.'}, wanted: `\.`},
		{tree: &Value{Kind: ValueOctal, CodePoint: 10}, wanted: `\12`},
		{tree: &Value{Kind: ValueControlLetter, CodePoint: 10}, wanted: `\cJ`},
		{tree: &Value{Kind: ValueHexadecimalEscape, CodePoint: 0xe9}, wanted: `\xE9`},
		{tree: &Value{Kind: ValueUnicodeCodePointEscape, CodePoint: 0x1F600}, wanted: `\u{1F600}`},
		{tree: &Value{Kind: ValueSingleEscape, CodePoint: 8}, wanted: `\b`},
		{tree: &Alternative{Body: []Node{&Reference{MatchIndex: 1}, sym('2')}}, wanted: `\1(?:)2`},
		{tree: &Alternative{Body: []Node{&Reference{Name: "x"}, sym('2')}}, wanted: `\k<x>2`},
		{tree: &Alternative{Body: []Node{&Value{Kind: ValueNull}, sym('1')}}, wanted: `\0(?:)1`},
		{tree: &Quantifier{Min: 0, Max: Unbounded, Greedy: true, Body: sym('a')}, wanted: `a{0,}`},
		{tree: &Group{Behavior: GroupIgnore, Body: []Node{&Disjunction{Body: []Node{sym('a'), sym('b')}}}}, wanted: `(?:a|b)`},
	}
	for _, g := range gens {
		got, err := Generate(g.tree)
		if err != nil {
			t.Errorf("%s: %s", g.wanted, err.Error())
		}
		if got != g.wanted {
			t.Errorf("got %s wanted %s", got, g.wanted)
		}
	}
	if _, err := Generate(&CharacterClassRange{Min: sym('a'), Max: sym('b')}); !errors.Is(err, ErrStructural) {
		t.Errorf("range outside class: %v", err)
	}
	if _, err := Generate(&CharacterClass{Body: []Node{&Dot{}}}); !errors.Is(err, ErrStructural) {
		t.Errorf("dot inside class: %v", err)
	}
}

func TestNodeKinds(t *testing.T) {
	tree, err := Parse("^a$", "", ParseFeatures{})
	if err != nil {
		t.Fatal(err.Error())
	}
	alt, ok := tree.(*Alternative)
	if !ok || len(alt.Body) != 3 {
		t.Fatalf("unexpected tree %#v", tree)
	}
	wanted := []NodeKind{KindAnchor, KindValue, KindAnchor}
	for i, n := range alt.Body {
		if n.NodeKind() != wanted[i] {
			t.Errorf("%d: got %s wanted %s", i, n.NodeKind(), wanted[i])
		}
	}
	if alt.Body[0].(*Anchor).Kind != AnchorStart {
		t.Error("anchor kind")
	}
	if v := alt.Body[1].(*Value); v.Kind != ValueSymbol || v.CodePoint != 'a' {
		t.Errorf("value %#v", v)
	}
}
