package regexpu

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestPP(t *testing.T) {
	tree, err := Parse(`a(?:b|c)*?\1(x)`, "", ParseFeatures{})
	if err != nil {
		t.Fatal(err.Error())
	}
	wanted := `alternative
  value symbol U+0061 "a"
  quantifier {0,∞} lazy
    group ignore
      disjunction
        value symbol U+0062 "b"
        value symbol U+0063 "c"
  reference \1
  group normal
    value symbol U+0078 "x"
`
	if got := DumpTree(tree); got != wanted {
		t.Errorf("LONG: wanted\n<%s>\ngot\n<%s>\n", wanted, got)
	}

	pp := newPrettyPrinter(1)
	class := &CharacterClass{Body: []Node{&CharacterClassRange{
		Min: &Value{Kind: ValueSymbol, CodePoint: '0', Raw: "0"},
		Max: &Value{Kind: ValueSymbol, CodePoint: '9', Raw: "9"},
	}}}
	pp.labelNode(class, "START HERE")
	serial := rand.NewSource(1).Int63()%500 + 500
	short := fmt.Sprintf("%d[START HERE]", serial)
	if got := pp.shortPrintNode(class); got != short {
		t.Errorf("SHORT: wanted <%s> got <%s>", short, got)
	}
	wanted = "characterClass " + short + "\n" + `  characterClassRange symbol U+0030 "0"…symbol U+0039 "9"` + "\n"
	if got := pp.printTree(class); got != wanted {
		t.Errorf("LABELED: wanted\n<%s>\ngot\n<%s>\n", wanted, got)
	}
}

func TestDumpRewrite(t *testing.T) {
	got, err := DumpRewrite(`\d+(?<n>x)`, "u", Options{NamedGroup: true})
	if err != nil {
		t.Fatal(err.Error())
	}
	// two substitutions, [0-9] then x, each labeled with a serial drawn from the seed-0 source
	src := rand.NewSource(0)
	first := src.Int63()%500 + 500
	second := src.Int63()%500 + 500
	wanted := fmt.Sprintf(`alternative
  quantifier {1,∞}
    characterClass %d[[0-9]]
      characterClassRange symbol U+0030 "0"…symbol U+0039 "9"
  group normal
    value symbol U+0078 "x" %d[x]
`, first, second)
	if got != wanted {
		t.Errorf("wanted\n<%s>\ngot\n<%s>\n", wanted, got)
	}

	if _, err := DumpRewrite(`(?<n>a)(?<n>b)`, "", Options{}); err == nil {
		t.Error("accepted duplicate names")
	}
}

func TestNullPP(t *testing.T) {
	np := &nullPrinter{}
	v := &Value{CodePoint: 'a'}
	np.labelNode(v, "foo")
	if np.printTree(v) != noPP || np.shortPrintNode(v) != noPP {
		t.Error("didn't get noPP")
	}
}
