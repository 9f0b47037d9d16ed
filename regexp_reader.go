package regexpu

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Reads ECMAScript regular expression source, as in the Pattern production of ECMA-262 22.2.1, including
// the Annex B leniencies that apply when the u flag is absent. The result is a tree of Nodes.
//
// Go strings are UTF-8, so patterns can't contain lone surrogates as literal characters; they can only
// be written as \uD800-style escapes. Without the u flag a pattern is a sequence of UTF-16 code units, so a
// literal astral character is read as two Values, its high and low surrogates.

// ParseFeatures turns on syntax that not every target engine accepts. Using a feature that is present in
// the pattern but not turned on here is an ErrUnsupported failure.
type ParseFeatures struct {
	UnicodePropertyEscape bool
	NamedGroups           bool
	Lookbehind            bool
}

type regexpFeature string

const (
	rxfDot            regexpFeature = "'.' single-character matcher"
	rxfClass          regexpFeature = "[]-enclosed character-class matcher"
	rxfNegatedClass   regexpFeature = "[^]-enclosed negative character-class matcher"
	rxfClassEscape    regexpFeature = `\d \s \w character-class escapes`
	rxfProperty       regexpFeature = `\p{} and \P{} Unicode property escapes`
	rxfParenGroup     regexpFeature = "() capturing group"
	rxfNonCapture     regexpFeature = "(?:) non-capturing group"
	rxfNamedGroup     regexpFeature = "(?<name>) named capturing group"
	rxfLookahead      regexpFeature = "(?=) and (?!) lookahead assertions"
	rxfLookbehind     regexpFeature = "(?<=) and (?<!) lookbehind assertions"
	rxfBackReference  regexpFeature = `\1-style numbered back-reference`
	rxfNamedReference regexpFeature = `\k<name> named back-reference`
	rxfQuantifier     regexpFeature = "*, +, ?, and {}-enclosed quantifiers"
	rxfOrBar          regexpFeature = "|-separated logical alternatives"
	rxfAnchor         regexpFeature = `^, $, \b, and \B assertions`
)

type regexpFeatureChecker struct {
	implemented map[regexpFeature]bool
	found       map[regexpFeature]bool
}

func newRegexpFeatureChecker(features ParseFeatures) *regexpFeatureChecker {
	implemented := map[regexpFeature]bool{
		rxfDot:           true,
		rxfClass:         true,
		rxfNegatedClass:  true,
		rxfClassEscape:   true,
		rxfParenGroup:    true,
		rxfNonCapture:    true,
		rxfLookahead:     true,
		rxfBackReference: true,
		rxfQuantifier:    true,
		rxfOrBar:         true,
		rxfAnchor:        true,
	}
	if features.UnicodePropertyEscape {
		implemented[rxfProperty] = true
	}
	if features.NamedGroups {
		implemented[rxfNamedGroup] = true
		implemented[rxfNamedReference] = true
	}
	if features.Lookbehind {
		implemented[rxfLookbehind] = true
	}
	return &regexpFeatureChecker{implemented: implemented, found: make(map[regexpFeature]bool)}
}

func (fc *regexpFeatureChecker) recordFeature(feature regexpFeature) {
	fc.found[feature] = true
}

func (fc *regexpFeatureChecker) foundUnimplemented() []regexpFeature {
	var unimplemented []regexpFeature
	for feature := range fc.found {
		if !fc.implemented[feature] {
			unimplemented = append(unimplemented, feature)
		}
	}
	sort.Slice(unimplemented, func(i, j int) bool { return unimplemented[i] < unimplemented[j] })
	return unimplemented
}

func (fc *regexpFeatureChecker) foundList() []string {
	var found []string
	for feature := range fc.found {
		found = append(found, string(feature))
	}
	sort.Strings(found)
	return found
}

var errRegexpEOF = errors.New("end of string")

// Parse reads pattern under the given flags. Only the u flag changes the grammar; the other flags are
// checked for validity and otherwise ignored.
func Parse(pattern, flags string, features ParseFeatures) (Node, error) {
	tree, _, err := Inspect(pattern, flags, features)
	return tree, err
}

// Inspect is Parse that also reports, sorted, the syntax features the pattern uses.
func Inspect(pattern, flags string, features ParseFeatures) (Node, []string, error) {
	fs, err := parseFlags(flags)
	if err != nil {
		return nil, nil, err
	}
	parse := newRxParseState([]byte(pattern), fs.unicode, features)
	tree, err := readRegexp(parse)
	if err != nil {
		return nil, nil, err
	}
	unimplemented := parse.features.foundUnimplemented()
	if len(unimplemented) != 0 {
		problem := "found unimplemented features:"
		for _, ui := range unimplemented {
			problem += " " + string(ui)
		}
		return nil, nil, unsupportedf("%s", problem)
	}
	return tree, parse.features.foundList(), nil
}

// recursive-descent starts here
func readRegexp(parse *regexpParse) (Node, error) {
	parse.prescanGroups()
	tree, err := readDisjunction(parse)
	if err != nil {
		return nil, err
	}
	if !parse.isEmpty() {
		// readAlternative only stops early on ')'
		return nil, syntaxErrorf(parse.offset(), "unbalanced ')' at %d", parse.offset())
	}
	return tree, nil
}

// Disjunction :: Alternative ( "|" Alternative )*
func readDisjunction(parse *regexpParse) (Node, error) {
	first, err := readAlternative(parse)
	if err != nil {
		return nil, err
	}
	alternatives := []Node{first}
	for parse.peek() == '|' && parse.pendingLow == 0 {
		_, _ = parse.nextRune()
		parse.features.recordFeature(rxfOrBar)
		next, err := readAlternative(parse)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, next)
	}
	if len(alternatives) == 1 {
		return first, nil
	}
	return &Disjunction{Body: alternatives}, nil
}

// Alternative :: Term*
func readAlternative(parse *regexpParse) (Node, error) {
	var terms []Node
	for !parse.isEmpty() {
		if parse.pendingLow == 0 {
			if r := parse.peek(); r == '|' || r == ')' {
				break
			}
		}
		term, err := readTerm(parse)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	switch len(terms) {
	case 0:
		return &Empty{}, nil
	case 1:
		return terms[0], nil
	}
	return &Alternative{Body: terms}, nil
}

// Term :: Assertion | Atom Quantifier?
func readTerm(parse *regexpParse) (Node, error) {
	if parse.pendingLow != 0 {
		low := parse.pendingLow
		parse.pendingLow = 0
		return readQuantifier(parse, &Value{Kind: ValueSymbol, CodePoint: low})
	}
	start := parse.offset()
	b, err := parse.nextRune()
	if err != nil {
		return nil, err
	}
	switch b {
	case '^':
		parse.features.recordFeature(rxfAnchor)
		return &Anchor{Kind: AnchorStart}, nil
	case '$':
		parse.features.recordFeature(rxfAnchor)
		return &Anchor{Kind: AnchorEnd}, nil
	case '\\':
		switch parse.peek() {
		case 'b':
			_, _ = parse.nextRune()
			parse.features.recordFeature(rxfAnchor)
			return &Anchor{Kind: AnchorBoundary}, nil
		case 'B':
			_, _ = parse.nextRune()
			parse.features.recordFeature(rxfAnchor)
			return &Anchor{Kind: AnchorNotBoundary}, nil
		}
	case '(':
		if parse.lookingAt("?=") || parse.lookingAt("?!") {
			group, err := readGroup(parse, start)
			if err != nil {
				return nil, err
			}
			// Annex B lets lookaheads take quantifiers, but only without the u flag
			if parse.unicode {
				return group, noQuantifierAllowed(parse)
			}
			return readQuantifier(parse, group)
		}
		if parse.lookingAt("?<=") || parse.lookingAt("?<!") {
			group, err := readGroup(parse, start)
			if err != nil {
				return nil, err
			}
			return group, noQuantifierAllowed(parse)
		}
	}
	parse.rewind(start)
	atom, err := readAtom(parse)
	if err != nil {
		return nil, err
	}
	return readQuantifier(parse, atom)
}

func noQuantifierAllowed(parse *regexpParse) error {
	switch parse.peek() {
	case '*', '+', '?':
		return syntaxErrorf(parse.offset(), "nothing to repeat at %d", parse.offset())
	case '{':
		if _, _, _, ok := scanBraceQuantifier(parse); ok {
			return syntaxErrorf(parse.offset(), "nothing to repeat at %d", parse.offset())
		}
	}
	return nil
}

// Atom :: PatternCharacter | "." | "\" AtomEscape | CharacterClass | "(" GroupSpecifier? Disjunction ")"
func readAtom(parse *regexpParse) (Node, error) {
	start := parse.offset()
	b, err := parse.nextRune()
	if err != nil {
		return nil, err
	}
	switch b {
	case '.':
		parse.features.recordFeature(rxfDot)
		return &Dot{}, nil
	case '(':
		return readGroup(parse, start)
	case '[':
		return readCharClass(parse)
	case '\\':
		return readAtomEscape(parse, start)
	case '*', '+', '?':
		return nil, syntaxErrorf(start, "nothing to repeat at %d", start)
	case '{':
		if parse.unicode {
			return nil, syntaxErrorf(start, "lone quantifier brackets at %d", start)
		}
		parse.backup1(b)
		if _, _, _, ok := scanBraceQuantifier(parse); ok {
			return nil, syntaxErrorf(start, "nothing to repeat at %d", start)
		}
		_, _ = parse.nextRune()
		return &Value{Kind: ValueSymbol, CodePoint: b, Raw: "{"}, nil
	case '}', ']':
		if parse.unicode {
			return nil, syntaxErrorf(start, "lone '%c' at %d", b, start)
		}
		return &Value{Kind: ValueSymbol, CodePoint: b, Raw: string(b)}, nil
	case ')':
		return nil, syntaxErrorf(start, "unbalanced ')' at %d", start)
	}
	return literalValue(parse, b, start), nil
}

// literalValue handles a PatternCharacter or ClassCharacter; outside u-mode, an astral character yields
// its high surrogate now and queues the low one.
func literalValue(parse *regexpParse, b rune, start int) *Value {
	if b > bmpMax && !parse.unicode {
		high, low := surrogates(b)
		parse.pendingLow = low
		return &Value{Kind: ValueSymbol, CodePoint: high}
	}
	return &Value{Kind: ValueSymbol, CodePoint: b, Raw: parse.since(start)}
}

// readGroup starts after the "("
func readGroup(parse *regexpParse, start int) (Node, error) {
	group := &Group{Behavior: GroupNormal}
	if parse.bypassOptional('?') {
		c, err := parse.nextRune()
		if err == errRegexpEOF {
			return nil, syntaxErrorf(start, "invalid group at %d", start)
		}
		if err != nil {
			return nil, err
		}
		switch c {
		case ':':
			parse.features.recordFeature(rxfNonCapture)
			group.Behavior = GroupIgnore
		case '=':
			parse.features.recordFeature(rxfLookahead)
			group.Behavior = GroupLookahead
		case '!':
			parse.features.recordFeature(rxfLookahead)
			group.Behavior = GroupNegativeLookahead
		case '<':
			switch {
			case parse.bypassOptional('='):
				parse.features.recordFeature(rxfLookbehind)
				group.Behavior = GroupLookbehind
			case parse.bypassOptional('!'):
				parse.features.recordFeature(rxfLookbehind)
				group.Behavior = GroupNegativeLookbehind
			default:
				parse.features.recordFeature(rxfNamedGroup)
				name, err := readGroupName(parse)
				if err != nil {
					return nil, err
				}
				group.Name = name
			}
		default:
			return nil, syntaxErrorf(parse.lastOffset(), "invalid group at %d", start)
		}
	} else {
		parse.features.recordFeature(rxfParenGroup)
	}
	body, err := readDisjunction(parse)
	if err != nil {
		return nil, err
	}
	if err = parse.require(')'); err != nil {
		return nil, syntaxErrorf(start, "unterminated group opened at %d", start)
	}
	switch b := body.(type) {
	case *Alternative:
		group.Body = b.Body
	case *Empty:
		group.Body = []Node{}
	default:
		group.Body = []Node{body}
	}
	return group, nil
}

// readGroupName reads RegExpIdentifierName ">", after the "<"
func readGroupName(parse *regexpParse) (string, error) {
	start := parse.offset()
	var name strings.Builder
	for {
		c, err := parse.nextRune()
		if err == errRegexpEOF {
			return "", syntaxErrorf(start, "unterminated group name at %d", start)
		}
		if err != nil {
			return "", err
		}
		if c == '>' {
			break
		}
		if name.Len() == 0 && !isIdentifierStart(c) || name.Len() > 0 && !isIdentifierPart(c) {
			return "", syntaxErrorf(parse.lastOffset(), "invalid character '%c' in group name at %d", c, parse.lastOffset())
		}
		name.WriteRune(c)
	}
	if name.Len() == 0 {
		return "", syntaxErrorf(start, "empty group name at %d", start)
	}
	return name.String(), nil
}

func isIdentifierStart(c rune) bool {
	return c == '$' || c == '_' || unicode.IsLetter(c) || unicode.Is(unicode.Nl, c)
}

func isIdentifierPart(c rune) bool {
	return isIdentifierStart(c) || unicode.IsDigit(c) || unicode.In(c, unicode.Mn, unicode.Mc, unicode.Pc) ||
		c == 0x200c || c == 0x200d
}

// readAtomEscape starts after the "\"
func readAtomEscape(parse *regexpParse, start int) (Node, error) {
	c, err := parse.nextRune()
	if err == errRegexpEOF {
		return nil, syntaxErrorf(start, `\ at end of pattern`)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case c >= '1' && c <= '9':
		parse.backup1(c)
		digits := readDigits(parse)
		n := atoiSaturating(digits)
		if n <= parse.captureCount {
			parse.features.recordFeature(rxfBackReference)
			return &Reference{MatchIndex: n}, nil
		}
		if parse.unicode {
			return nil, syntaxErrorf(start, "invalid escape at %d, no group %d", start, n)
		}
		parse.rewind(start + 1)
		return readLegacyEscape(parse, start)
	case c == 'k':
		if parse.unicode || parse.hasNamedGroups {
			if err := parse.require('<'); err != nil {
				return nil, syntaxErrorf(start, `invalid named reference at %d`, start)
			}
			name, err := readGroupName(parse)
			if err != nil {
				return nil, err
			}
			parse.features.recordFeature(rxfNamedReference)
			return &Reference{Name: name}, nil
		}
		return &Value{Kind: ValueIdentifier, CodePoint: 'k', Raw: parse.since(start)}, nil
	}
	parse.backup1(c)
	return readClassOrCharEscape(parse, start, false)
}

// readClassOrCharEscape reads what may follow a "\" both inside and outside a class, other than back
// references. It's positioned on the character after the "\".
func readClassOrCharEscape(parse *regexpParse, start int, inClass bool) (Node, error) {
	c, err := parse.nextRune()
	if err == errRegexpEOF {
		return nil, syntaxErrorf(start, `\ at end of pattern`)
	}
	if err != nil {
		return nil, err
	}
	switch c {
	case 'd', 'D', 's', 'S', 'w', 'W':
		parse.features.recordFeature(rxfClassEscape)
		return &CharacterClassEscape{Value: byte(c)}, nil
	case 'p', 'P':
		if !parse.unicode {
			return &Value{Kind: ValueIdentifier, CodePoint: c, Raw: parse.since(start)}, nil
		}
		parse.features.recordFeature(rxfProperty)
		return readPropertyEscape(parse, start, c == 'P')
	case 'f', 'n', 'r', 't', 'v':
		return &Value{Kind: ValueSingleEscape, CodePoint: controlEscapes[c], Raw: parse.since(start)}, nil
	case 'b':
		// only reachable inside a class, where it means backspace
		return &Value{Kind: ValueSingleEscape, CodePoint: 0x08, Raw: parse.since(start)}, nil
	case '-':
		if parse.unicode && !inClass {
			return nil, syntaxErrorf(start, `invalid escape \- at %d`, start)
		}
		return &Value{Kind: ValueIdentifier, CodePoint: c, Raw: parse.since(start)}, nil
	case 'c':
		letter := parse.peek()
		if isASCIILetter(letter) || (inClass && !parse.unicode && (isDecimalDigit(letter) || letter == '_')) {
			_, _ = parse.nextRune()
			return &Value{Kind: ValueControlLetter, CodePoint: letter % 32, Raw: parse.since(start)}, nil
		}
		if parse.unicode {
			return nil, syntaxErrorf(start, `invalid unicode escape \c at %d`, start)
		}
		// Annex B: the backslash stands for itself and the c is read again
		parse.rewind(start + 1)
		return &Value{Kind: ValueSymbol, CodePoint: '\\', Raw: `\`}, nil
	case '0':
		if !isDecimalDigit(parse.peek()) {
			return &Value{Kind: ValueNull, CodePoint: 0, Raw: parse.since(start)}, nil
		}
		if parse.unicode {
			return nil, syntaxErrorf(start, "invalid decimal escape at %d", start)
		}
		parse.rewind(start + 1)
		return readLegacyEscape(parse, start)
	case 'x':
		if hex, ok := readHexDigits(parse, 2); ok {
			return &Value{Kind: ValueHexadecimalEscape, CodePoint: hex, Raw: parse.since(start)}, nil
		}
		if parse.unicode {
			return nil, syntaxErrorf(start, `invalid escape \x at %d`, start)
		}
		return &Value{Kind: ValueIdentifier, CodePoint: 'x', Raw: parse.since(start)}, nil
	case 'u':
		return readUnicodeEscape(parse, start)
	}
	if isDecimalDigit(c) {
		// \1-\9 inside a class
		if parse.unicode {
			return nil, syntaxErrorf(start, "invalid class escape at %d", start)
		}
		parse.rewind(start + 1)
		return readLegacyEscape(parse, start)
	}
	if parse.unicode {
		if !isSyntaxCharacter(c) && c != '/' {
			return nil, syntaxErrorf(start, `invalid escape \%c at %d`, c, start)
		}
	} else if c == 'k' && parse.hasNamedGroups {
		return nil, syntaxErrorf(start, `invalid escape \k at %d`, start)
	}
	return &Value{Kind: ValueIdentifier, CodePoint: c, Raw: parse.since(start)}, nil
}

var controlEscapes = map[rune]rune{'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v'}

// readLegacyEscape is Annex B's LegacyOctalEscapeSequence and the \8 \9 identity escapes; it's positioned on
// the first digit
func readLegacyEscape(parse *regexpParse, start int) (Node, error) {
	first, _ := parse.nextRune()
	if first == '8' || first == '9' {
		return &Value{Kind: ValueIdentifier, CodePoint: first, Raw: parse.since(start)}, nil
	}
	value := first - '0'
	maxDigits := 2
	if first <= '3' {
		maxDigits = 3
	}
	for i := 1; i < maxDigits && isOctalDigit(parse.peek()); i++ {
		d, _ := parse.nextRune()
		value = value*8 + (d - '0')
	}
	return &Value{Kind: ValueOctal, CodePoint: value, Raw: parse.since(start)}, nil
}

// readUnicodeEscape follows "\u"
func readUnicodeEscape(parse *regexpParse, start int) (Node, error) {
	if parse.unicode && parse.bypassOptional('{') {
		digitsStart := parse.offset()
		for isHexDigit(parse.peek()) {
			_, _ = parse.nextRune()
		}
		digits := parse.since(digitsStart)
		if digits == "" || !parse.bypassOptional('}') {
			return nil, syntaxErrorf(start, `invalid \u{} escape at %d`, start)
		}
		cp, err := strconv.ParseInt(digits, 16, 64)
		if err != nil || cp > runeMax {
			return nil, syntaxErrorf(start, `code point out of range in \u{} escape at %d`, start)
		}
		return &Value{Kind: ValueUnicodeCodePointEscape, CodePoint: rune(cp), Raw: parse.since(start)}, nil
	}
	lead, ok := readHexDigits(parse, 4)
	if !ok {
		if parse.unicode {
			return nil, syntaxErrorf(start, `invalid \u escape at %d`, start)
		}
		return &Value{Kind: ValueIdentifier, CodePoint: 'u', Raw: parse.since(start)}, nil
	}
	if parse.unicode && lead >= highSurrogateMin && lead <= highSurrogateMax && parse.lookingAt(`\u`) {
		mark := parse.offset()
		parse.rewind(mark + 2)
		trail, ok := readHexDigits(parse, 4)
		if ok && trail >= lowSurrogateMin && trail <= lowSurrogateMax {
			cp := (lead-highSurrogateMin)<<10 + (trail - lowSurrogateMin) + 0x10000
			return &Value{Kind: ValueUnicodeEscape, CodePoint: cp, Raw: parse.since(start)}, nil
		}
		parse.rewind(mark)
	}
	return &Value{Kind: ValueUnicodeEscape, CodePoint: lead, Raw: parse.since(start)}, nil
}

// readPropertyEscape follows "\p" or "\P"
func readPropertyEscape(parse *regexpParse, start int, negative bool) (Node, error) {
	if !parse.bypassOptional('{') {
		return nil, syntaxErrorf(start, "invalid property name at %d", start)
	}
	bodyStart := parse.offset()
	equals := 0
	for {
		c := parse.peek()
		if c == '}' {
			break
		}
		if c == '=' {
			equals++
		} else if !(isASCIILetter(c) || isDecimalDigit(c) || c == '_') {
			return nil, syntaxErrorf(start, "invalid property name at %d", start)
		}
		_, _ = parse.nextRune()
	}
	body := parse.since(bodyStart)
	_, _ = parse.nextRune()
	if body == "" || equals > 1 || strings.HasPrefix(body, "=") || strings.HasSuffix(body, "=") {
		return nil, syntaxErrorf(start, "invalid property name at %d", start)
	}
	return &UnicodePropertyEscape{Negative: negative, Value: body}, nil
}

// readCharClass follows the "["
func readCharClass(parse *regexpParse) (Node, error) {
	classStart := parse.lastOffset()
	parse.features.recordFeature(rxfClass)
	class := &CharacterClass{Body: []Node{}}
	if parse.bypassOptional('^') {
		parse.features.recordFeature(rxfNegatedClass)
		class.Negative = true
	}
	for {
		if parse.pendingLow == 0 {
			switch parse.peek() {
			case -1:
				return nil, syntaxErrorf(classStart, "unterminated character class at %d", classStart)
			case ']':
				_, _ = parse.nextRune()
				return class, nil
			}
		}
		lo, err := readClassAtom(parse)
		if err != nil {
			return nil, err
		}
		if parse.pendingLow != 0 || parse.peek() != '-' || parse.peekAt(1) == ']' || parse.peekAt(1) == -1 {
			class.Body = append(class.Body, lo)
			continue
		}
		_, _ = parse.nextRune() // the '-'
		dashOffset := parse.lastOffset()
		hi, err := readClassAtom(parse)
		if err != nil {
			return nil, err
		}
		loValue, loOK := lo.(*Value)
		hiValue, hiOK := hi.(*Value)
		if !loOK || !hiOK {
			if parse.unicode {
				return nil, syntaxErrorf(dashOffset, "invalid character class range at %d", dashOffset)
			}
			class.Body = append(class.Body, lo, &Value{Kind: ValueSymbol, CodePoint: '-', Raw: "-"}, hi)
			continue
		}
		if loValue.CodePoint > hiValue.CodePoint {
			return nil, syntaxErrorf(dashOffset, "range out of order in character class at %d", dashOffset)
		}
		class.Body = append(class.Body, &CharacterClassRange{Min: loValue, Max: hiValue})
	}
}

func readClassAtom(parse *regexpParse) (Node, error) {
	if parse.pendingLow != 0 {
		low := parse.pendingLow
		parse.pendingLow = 0
		return &Value{Kind: ValueSymbol, CodePoint: low}, nil
	}
	start := parse.offset()
	c, err := parse.nextRune()
	if err == errRegexpEOF {
		return nil, syntaxErrorf(start, "unterminated character class at %d", start)
	}
	if err != nil {
		return nil, err
	}
	if c == '\\' {
		return readClassOrCharEscape(parse, start, true)
	}
	return literalValue(parse, c, start), nil
}

// readQuantifier attaches a quantifier to atom if one follows
func readQuantifier(parse *regexpParse, atom Node) (Node, error) {
	if parse.pendingLow != 0 {
		return atom, nil
	}
	q := &Quantifier{Greedy: true, Body: atom}
	switch parse.peek() {
	case '*':
		q.Min, q.Max, q.Symbol = 0, Unbounded, '*'
	case '+':
		q.Min, q.Max, q.Symbol = 1, Unbounded, '+'
	case '?':
		q.Min, q.Max, q.Symbol = 0, 1, '?'
	case '{':
		start := parse.offset()
		lo, hi, end, ok := scanBraceQuantifier(parse)
		if !ok {
			if parse.unicode {
				return nil, syntaxErrorf(start, "incomplete quantifier at %d", start)
			}
			return atom, nil
		}
		if hi != Unbounded && hi < lo {
			return nil, syntaxErrorf(start, "numbers out of order in {} quantifier at %d", start)
		}
		q.Min, q.Max = lo, hi
		parse.rewind(end)
	default:
		return atom, nil
	}
	if q.Symbol != 0 {
		_, _ = parse.nextRune()
	}
	if parse.bypassOptional('?') {
		q.Greedy = false
	}
	parse.features.recordFeature(rxfQuantifier)
	return q, nil
}

// scanBraceQuantifier looks for {n}, {n,} or {n,m} without consuming anything. end is the offset just past
// the "}".
func scanBraceQuantifier(parse *regexpParse) (lo, hi, end int, ok bool) {
	start := parse.offset()
	defer parse.rewind(start)
	if !parse.bypassOptional('{') {
		return 0, 0, 0, false
	}
	loDigits := readDigits(parse)
	if loDigits == "" {
		return 0, 0, 0, false
	}
	lo = atoiSaturating(loDigits)
	hi = lo
	if parse.bypassOptional(',') {
		hiDigits := readDigits(parse)
		if hiDigits == "" {
			hi = Unbounded
		} else {
			hi = atoiSaturating(hiDigits)
		}
	}
	if !parse.bypassOptional('}') {
		return 0, 0, 0, false
	}
	return lo, hi, parse.offset(), true
}

func readDigits(parse *regexpParse) string {
	start := parse.offset()
	for isDecimalDigit(parse.peek()) {
		_, _ = parse.nextRune()
	}
	return parse.since(start)
}

// atoiSaturating reads a run of decimal digits, topping out at MaxInt32
func atoiSaturating(digits string) int {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return math.MaxInt32
	}
	return int(n)
}

// readHexDigits consumes exactly n hex digits, or nothing
func readHexDigits(parse *regexpParse, n int) (rune, bool) {
	start := parse.offset()
	var value rune
	for i := 0; i < n; i++ {
		c := parse.peek()
		if !isHexDigit(c) {
			parse.rewind(start)
			return 0, false
		}
		_, _ = parse.nextRune()
		d, _ := strconv.ParseInt(string(c), 16, 32)
		value = value*16 + rune(d)
	}
	return value, true
}

func isDecimalDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isOctalDigit(c rune) bool {
	return c >= '0' && c <= '7'
}

func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isSyntaxCharacter - ^ $ \ . * + ? ( ) [ ] { } |
func isSyntaxCharacter(c rune) bool {
	return strings.ContainsRune(`^$\.*+?()[]{}|`, c)
}
