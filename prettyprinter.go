package regexpu

import (
	"fmt"
	"math/rand"
	"strings"
)

// printer is an interface used to generate representations of pattern trees to facilitate debugging.
// It's an interface rather than a type so that a null implementation can be provided for production
// that should incur very little performance cost.
type printer interface {
	labelNode(n Node, label string)
	printTree(n Node) string
	shortPrintNode(n Node) string
}

// nullPrinter is what the name says, a do-nothing implementation of the printer interface which ideally
// should consume close to zero CPU cycles.
type nullPrinter struct{}

const noPP = "prettyprinting not enabled"

func (*nullPrinter) labelNode(_ Node, _ string) {
}
func (*nullPrinter) printTree(_ Node) string {
	return noPP
}
func (*nullPrinter) shortPrintNode(_ Node) string {
	return noPP
}

var sharedNullPrinter = &nullPrinter{}

// prettyPrinter makes a human-readable, indented representation of a tree, one node per line; each node
// may be given a label and as a side effect will get a random 3-digit serial number. The rewriter labels
// every node it substitutes with the source it was read from. For an example of the output, see TestPP in
// prettyprinter_test.go
type prettyPrinter struct {
	randInts    rand.Source
	nodeLabels  map[Node]string
	nodeSerials map[Node]uint
}

func newPrettyPrinter(seed int) *prettyPrinter {
	return &prettyPrinter{
		randInts:    rand.NewSource(int64(seed)),
		nodeLabels:  make(map[Node]string),
		nodeSerials: make(map[Node]uint),
	}
}

// DumpTree renders a tree one node per line, children indented under their parents.
func DumpTree(tree Node) string {
	return newPrettyPrinter(0).printTree(tree)
}

// DumpRewrite is DumpTree for the tree RewritePattern would generate from, with each substituted node
// labeled by the source it was built from.
func DumpRewrite(pattern, flags string, opts Options) (string, error) {
	pp := newPrettyPrinter(0)
	tree, err := rewriteTree(pattern, flags, opts, pp)
	if err != nil {
		return "", err
	}
	return pp.printTree(tree), nil
}

func (pp *prettyPrinter) labelNode(n Node, label string) {
	pp.nodeLabels[n] = label
	newSerial := pp.randInts.Int63()%500 + 500
	//nolint:gosec
	pp.nodeSerials[n] = uint(newSerial)
}

func (pp *prettyPrinter) printTree(n Node) string {
	var b strings.Builder
	pp.printTreeStep(&b, n, 0)
	return b.String()
}

func (pp *prettyPrinter) printTreeStep(b *strings.Builder, n Node, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(describeNode(n))
	if _, ok := pp.nodeLabels[n]; ok {
		b.WriteString(" " + pp.shortPrintNode(n))
	}
	b.WriteByte('\n')
	for _, child := range children(n) {
		pp.printTreeStep(b, child, indent+1)
	}
}

func (pp *prettyPrinter) shortPrintNode(n Node) string {
	return fmt.Sprintf("%d[%s]", pp.nodeSerials[n], pp.nodeLabels[n])
}

func children(n Node) []Node {
	switch n := n.(type) {
	case *CharacterClass:
		return n.Body
	case *Group:
		return n.Body
	case *Alternative:
		return n.Body
	case *Disjunction:
		return n.Body
	case *Quantifier:
		return []Node{n.Body}
	}
	return nil
}

func describeNode(n Node) string {
	switch n := n.(type) {
	case *CharacterClass:
		if n.Negative {
			return "characterClass negative"
		}
	case *CharacterClassRange:
		return fmt.Sprintf("characterClassRange %s…%s", describeValue(n.Min), describeValue(n.Max))
	case *CharacterClassEscape:
		return fmt.Sprintf(`characterClassEscape \%c`, n.Value)
	case *UnicodePropertyEscape:
		return "unicodePropertyEscape " + propertyEscapeSource(n)
	case *Group:
		if n.Name != "" {
			return fmt.Sprintf("group %s <%s>", n.Behavior, n.Name)
		}
		return "group " + n.Behavior.String()
	case *Quantifier:
		upper := "∞"
		if n.Max != Unbounded {
			upper = fmt.Sprint(n.Max)
		}
		s := fmt.Sprintf("quantifier {%d,%s}", n.Min, upper)
		if !n.Greedy {
			s += " lazy"
		}
		return s
	case *Value:
		return "value " + describeValue(n)
	case *Reference:
		if n.Name != "" {
			return `reference \k<` + n.Name + ">"
		}
		return fmt.Sprintf(`reference \%d`, n.MatchIndex)
	case *Anchor:
		return "anchor " + n.Kind.String()
	}
	return string(n.NodeKind())
}

func describeValue(v *Value) string {
	return fmt.Sprintf("%s U+%04X %q", v.Kind, v.CodePoint, valueSource(v))
}
