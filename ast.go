package regexpu

// Node is one element of a parsed pattern. The set of node kinds is closed; the marker method keeps
// other packages from adding their own, so a type switch over the kinds below plus a default branch
// that reports a structural error covers everything.
type Node interface {
	NodeKind() NodeKind
	node()
}

type NodeKind string

const (
	KindDot                   NodeKind = "dot"
	KindCharacterClass        NodeKind = "characterClass"
	KindCharacterClassRange   NodeKind = "characterClassRange"
	KindCharacterClassEscape  NodeKind = "characterClassEscape"
	KindUnicodePropertyEscape NodeKind = "unicodePropertyEscape"
	KindGroup                 NodeKind = "group"
	KindAlternative           NodeKind = "alternative"
	KindDisjunction           NodeKind = "disjunction"
	KindQuantifier            NodeKind = "quantifier"
	KindValue                 NodeKind = "value"
	KindReference             NodeKind = "reference"
	KindAnchor                NodeKind = "anchor"
	KindEmpty                 NodeKind = "empty"
)

// Unbounded is the Max of a quantifier with no upper limit, e.g. * or {2,}
const Unbounded = -1

type GroupBehavior int

const (
	GroupNormal GroupBehavior = iota
	GroupIgnore
	GroupLookahead
	GroupNegativeLookahead
	GroupLookbehind
	GroupNegativeLookbehind
)

func (b GroupBehavior) String() string {
	switch b {
	case GroupNormal:
		return "normal"
	case GroupIgnore:
		return "ignore"
	case GroupLookahead:
		return "lookahead"
	case GroupNegativeLookahead:
		return "negativeLookahead"
	case GroupLookbehind:
		return "lookbehind"
	case GroupNegativeLookbehind:
		return "negativeLookbehind"
	}
	return "unknown"
}

// ValueKind records how a single code point was spelled in the source, so it can be spelled the same way again.
type ValueKind int

const (
	ValueSymbol ValueKind = iota
	ValueSingleEscape
	ValueNull
	ValueOctal
	ValueHexadecimalEscape
	ValueUnicodeEscape
	ValueUnicodeCodePointEscape
	ValueControlLetter
	ValueIdentifier
)

func (k ValueKind) String() string {
	switch k {
	case ValueSymbol:
		return "symbol"
	case ValueSingleEscape:
		return "singleEscape"
	case ValueNull:
		return "null"
	case ValueOctal:
		return "octal"
	case ValueHexadecimalEscape:
		return "hexadecimalEscape"
	case ValueUnicodeEscape:
		return "unicodeEscape"
	case ValueUnicodeCodePointEscape:
		return "unicodeCodePointEscape"
	case ValueControlLetter:
		return "controlLetter"
	case ValueIdentifier:
		return "identifier"
	}
	return "unknown"
}

type AnchorKind int

const (
	AnchorStart AnchorKind = iota
	AnchorEnd
	AnchorBoundary
	AnchorNotBoundary
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorStart:
		return "start"
	case AnchorEnd:
		return "end"
	case AnchorBoundary:
		return "boundary"
	case AnchorNotBoundary:
		return "not-boundary"
	}
	return "unknown"
}

type Dot struct{}

type CharacterClass struct {
	Negative bool
	Body     []Node
}

type CharacterClassRange struct {
	Min, Max *Value
}

// CharacterClassEscape is one of \d \D \s \S \w \W
type CharacterClassEscape struct {
	Value byte
}

// UnicodePropertyEscape is \p{Value} or, if Negative, \P{Value}. Value is either a lone name or Name=Value.
type UnicodePropertyEscape struct {
	Negative bool
	Value    string
}

// Group covers capturing, non-capturing, and lookaround groups. Name is only set on named capture groups.
type Group struct {
	Behavior GroupBehavior
	Name     string
	Body     []Node
}

type Alternative struct {
	Body []Node
}

type Disjunction struct {
	Body []Node
}

// Quantifier repeats Body between Min and Max times. Symbol is '*', '+' or '?' when the quantifier was
// written that way, 0 for the {} forms.
type Quantifier struct {
	Min, Max int
	Greedy   bool
	Symbol   rune
	Body     Node
}

// Value is a single code point. Raw, if not empty, is the exact source text it was read from.
type Value struct {
	Kind      ValueKind
	CodePoint rune
	Raw       string
}

// Reference is a back-reference, by number or, while Name is set, by group name.
type Reference struct {
	MatchIndex int
	Name       string
}

type Anchor struct {
	Kind AnchorKind
}

type Empty struct{}

func (*Dot) NodeKind() NodeKind                   { return KindDot }
func (*CharacterClass) NodeKind() NodeKind        { return KindCharacterClass }
func (*CharacterClassRange) NodeKind() NodeKind   { return KindCharacterClassRange }
func (*CharacterClassEscape) NodeKind() NodeKind  { return KindCharacterClassEscape }
func (*UnicodePropertyEscape) NodeKind() NodeKind { return KindUnicodePropertyEscape }
func (*Group) NodeKind() NodeKind                 { return KindGroup }
func (*Alternative) NodeKind() NodeKind           { return KindAlternative }
func (*Disjunction) NodeKind() NodeKind           { return KindDisjunction }
func (*Quantifier) NodeKind() NodeKind            { return KindQuantifier }
func (*Value) NodeKind() NodeKind                 { return KindValue }
func (*Reference) NodeKind() NodeKind             { return KindReference }
func (*Anchor) NodeKind() NodeKind                { return KindAnchor }
func (*Empty) NodeKind() NodeKind                 { return KindEmpty }

func (*Dot) node()                   {}
func (*CharacterClass) node()        {}
func (*CharacterClassRange) node()   {}
func (*CharacterClassEscape) node()  {}
func (*UnicodePropertyEscape) node() {}
func (*Group) node()                 {}
func (*Alternative) node()           {}
func (*Disjunction) node()           {}
func (*Quantifier) node()            {}
func (*Value) node()                 {}
func (*Reference) node()             {}
func (*Anchor) node()                {}
func (*Empty) node()                 {}
