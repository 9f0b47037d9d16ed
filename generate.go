package regexpu

import (
	"fmt"
	"strconv"
	"strings"
)

// Generate writes a tree back out as pattern source, without delimiters or flags. Values that carry Raw
// text are written exactly as they were read, so a tree nobody touched regenerates the input.
func Generate(tree Node) (string, error) {
	var b strings.Builder
	if err := generateNode(&b, tree); err != nil {
		return "", err
	}
	return b.String(), nil
}

func generateNode(b *strings.Builder, n Node) error {
	switch n := n.(type) {
	case *Dot:
		b.WriteByte('.')
	case *Empty:
	case *Anchor:
		b.WriteString(anchorSource(n.Kind))
	case *Disjunction:
		for i, alt := range n.Body {
			if i > 0 {
				b.WriteByte('|')
			}
			if err := generateNode(b, alt); err != nil {
				return err
			}
		}
	case *Alternative:
		return generateSequence(b, n.Body)
	case *Group:
		b.WriteByte('(')
		b.WriteString(groupPrefix(n))
		if err := generateSequence(b, n.Body); err != nil {
			return err
		}
		b.WriteByte(')')
	case *Quantifier:
		if err := generateNode(b, n.Body); err != nil {
			return err
		}
		b.WriteString(quantifierSource(n))
	case *CharacterClass:
		b.WriteByte('[')
		if n.Negative {
			b.WriteByte('^')
		}
		for _, member := range n.Body {
			if err := generateClassMember(b, member); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *CharacterClassEscape:
		b.WriteByte('\\')
		b.WriteByte(n.Value)
	case *UnicodePropertyEscape:
		b.WriteString(propertyEscapeSource(n))
	case *Value:
		b.WriteString(valueSource(n))
	case *Reference:
		if n.Name != "" {
			b.WriteString(`\k<` + n.Name + `>`)
		} else {
			b.WriteString(`\` + strconv.Itoa(n.MatchIndex))
		}
	case *CharacterClassRange:
		return structuralf("character class range outside a character class")
	default:
		return structuralf("unknown node type %T", n)
	}
	return nil
}

// generateSequence writes terms one after another. A numbered back-reference or a \0 followed by
// something that starts with a digit would read back as something else, so (?:) goes between them.
func generateSequence(b *strings.Builder, terms []Node) error {
	digitSensitive := false
	for _, term := range terms {
		var part strings.Builder
		if err := generateNode(&part, term); err != nil {
			return err
		}
		text := part.String()
		if digitSensitive && text != "" && isDecimalDigit(rune(text[0])) {
			b.WriteString("(?:)")
		}
		b.WriteString(text)
		digitSensitive = false
		switch t := term.(type) {
		case *Reference:
			digitSensitive = t.Name == ""
		case *Value:
			digitSensitive = t.Kind == ValueNull
		}
	}
	return nil
}

func generateClassMember(b *strings.Builder, member Node) error {
	switch m := member.(type) {
	case *Value:
		b.WriteString(valueSource(m))
	case *CharacterClassRange:
		b.WriteString(valueSource(m.Min))
		b.WriteByte('-')
		b.WriteString(valueSource(m.Max))
	case *CharacterClassEscape, *UnicodePropertyEscape:
		return generateNode(b, m)
	default:
		return structuralf("%s node inside a character class", member.NodeKind())
	}
	return nil
}

func anchorSource(kind AnchorKind) string {
	switch kind {
	case AnchorStart:
		return "^"
	case AnchorEnd:
		return "$"
	case AnchorBoundary:
		return `\b`
	}
	return `\B`
}

func groupPrefix(g *Group) string {
	switch g.Behavior {
	case GroupIgnore:
		return "?:"
	case GroupLookahead:
		return "?="
	case GroupNegativeLookahead:
		return "?!"
	case GroupLookbehind:
		return "?<="
	case GroupNegativeLookbehind:
		return "?<!"
	}
	if g.Name != "" {
		return "?<" + g.Name + ">"
	}
	return ""
}

func quantifierSource(q *Quantifier) string {
	var s string
	switch {
	case q.Symbol != 0:
		s = string(q.Symbol)
	case q.Max == Unbounded:
		s = fmt.Sprintf("{%d,}", q.Min)
	case q.Min == q.Max:
		s = fmt.Sprintf("{%d}", q.Min)
	default:
		s = fmt.Sprintf("{%d,%d}", q.Min, q.Max)
	}
	if !q.Greedy {
		s += "?"
	}
	return s
}

func propertyEscapeSource(p *UnicodePropertyEscape) string {
	if p.Negative {
		return `\P{` + p.Value + `}`
	}
	return `\p{` + p.Value + `}`
}

var singleEscapeLetters = map[rune]byte{'\f': 'f', '\n': 'n', '\r': 'r', '\t': 't', '\v': 'v', 0x08: 'b'}

// valueSource spells out a Value. Values built by hand or split from an astral literal have no Raw text,
// so each kind has a canonical spelling.
func valueSource(v *Value) string {
	if v.Raw != "" {
		return v.Raw
	}
	cp := v.CodePoint
	switch v.Kind {
	case ValueSingleEscape:
		if letter, ok := singleEscapeLetters[cp]; ok {
			return `\` + string(letter)
		}
	case ValueNull:
		return `\0`
	case ValueOctal:
		return `\` + strconv.FormatInt(int64(cp), 8)
	case ValueHexadecimalEscape:
		return fmt.Sprintf(`\x%02X`, cp)
	case ValueUnicodeEscape:
		if cp > bmpMax {
			high, low := surrogates(cp)
			return fmt.Sprintf(`\u%04X\u%04X`, high, low)
		}
		return fmt.Sprintf(`\u%04X`, cp)
	case ValueUnicodeCodePointEscape:
		return fmt.Sprintf(`\u{%X}`, cp)
	case ValueControlLetter:
		if cp >= 1 && cp <= 26 {
			return `\c` + string('A'+cp-1)
		}
	case ValueIdentifier:
		return `\` + string(cp)
	}
	return codePointToString(cp)
}
