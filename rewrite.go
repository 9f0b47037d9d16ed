package regexpu

import (
	"sort"
	"strings"
)

// RewritePattern rewrites an ECMAScript pattern so that an engine lacking some features (the u flag, the s
// flag, named groups, property escapes) gives the same results as one that has them. The result is
// pattern source without delimiters or flags; which flags to run it with is up to the caller, who
// normally drops the flags that were emulated.
//
// Every call works on its own state; RewritePattern is safe for concurrent use as long as
// opts.Properties and opts.OnNamedGroup are.
func RewritePattern(pattern, flags string, opts Options) (string, error) {
	tree, err := rewriteTree(pattern, flags, opts, sharedNullPrinter)
	if err != nil {
		return "", err
	}
	return Generate(tree)
}

func rewriteTree(pattern, flags string, opts Options, pp printer) (Node, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	fs, err := parseFlags(flags)
	if err != nil {
		return nil, err
	}
	tree, err := Parse(pattern, flags, ParseFeatures{
		UnicodePropertyEscape: fs.unicode,
		NamedGroups:           true,
		Lookbehind:            opts.Lookbehind,
	})
	if err != nil {
		return nil, err
	}
	state := newRewriteState(fs, opts, pp)
	tree, err = state.processTerm(tree)
	if err != nil {
		return nil, err
	}
	if err = state.assertNoUnmatchedReferences(); err != nil {
		return nil, err
	}
	return tree, nil
}

// rewriteState is everything one RewritePattern call knows. It's created per call and thrown away.
type rewriteState struct {
	opts       Options
	unicode    bool
	ignoreCase bool
	dotAll     bool
	// emulate is true when the pattern has the u flag but the output will run without it
	emulate          bool
	foldCase         bool
	expandProperties bool
	format           FormatOptions
	properties       PropertyProvider
	pp               printer

	// the named-group table
	lastIndex      int
	names          map[string]int
	unmatched      map[string][]*Reference
	unmatchedOrder []string
}

func newRewriteState(fs flagSet, opts Options, pp printer) *rewriteState {
	s := &rewriteState{
		opts:       opts,
		unicode:    fs.unicode,
		ignoreCase: fs.ignoreCase,
		dotAll:     opts.DotAllFlag && fs.dotAll,
		emulate:    fs.unicode && !opts.UseUnicodeFlag,
		format:     FormatOptions{BMPOnly: !fs.unicode, HasUnicodeFlag: opts.UseUnicodeFlag},
		properties: opts.Properties,
		pp:         pp,
		names:      make(map[string]int),
		unmatched:  make(map[string][]*Reference),
	}
	s.foldCase = s.ignoreCase && s.emulate
	s.expandProperties = opts.UnicodePropertyEscape || s.emulate
	if s.properties == nil {
		s.properties = defaultPropertyProvider()
	}
	return s
}

// processTerm returns n, possibly changed in place, or a node to put where n was
func (s *rewriteState) processTerm(n Node) (Node, error) {
	switch n := n.(type) {
	case *Dot:
		switch {
		case s.opts.UseDotAllFlag:
			return n, nil
		case s.unicode:
			return s.update(unicodeDotSet(s.dotAll).String(s.format))
		case s.dotAll:
			return s.update(`[\s\S]`)
		}
		return n, nil

	case *CharacterClass:
		if !s.emulate && !(s.expandProperties && holdsPropertyEscape(n)) {
			return n, nil
		}
		return s.processCharacterClass(n)

	case *UnicodePropertyEscape:
		if !s.expandProperties {
			return n, nil
		}
		set, err := s.propertySet(n)
		if err != nil {
			return nil, err
		}
		return s.update(set.String(s.format))

	case *CharacterClassEscape:
		if !s.emulate {
			return n, nil
		}
		set, err := characterClassEscapeSet(n.Value, s.unicode, s.ignoreCase)
		if err != nil {
			return nil, err
		}
		return s.update(set.String(s.format))

	case *Value:
		if !s.emulate {
			return n, nil
		}
		set := NewCodePointSet(n.CodePoint)
		if s.foldCase {
			set.AddRunes(caseFold(n.CodePoint)...)
		}
		return s.update(set.String(s.format))

	case *Group:
		if n.Behavior == GroupNormal {
			s.lastIndex++
			if n.Name != "" {
				if err := s.registerName(n); err != nil {
					return nil, err
				}
			}
		}
		return n, s.processBody(n.Body)

	case *Alternative:
		return n, s.processBody(n.Body)

	case *Disjunction:
		return n, s.processBody(n.Body)

	case *Quantifier:
		body, err := s.processTerm(n.Body)
		if err != nil {
			return nil, err
		}
		n.Body = body
		return n, nil

	case *Reference:
		if n.Name == "" {
			return n, nil
		}
		if index, ok := s.names[n.Name]; ok {
			s.resolveReference(n, index)
			return n, nil
		}
		if _, seen := s.unmatched[n.Name]; !seen {
			s.unmatchedOrder = append(s.unmatchedOrder, n.Name)
		}
		s.unmatched[n.Name] = append(s.unmatched[n.Name], n)
		return n, nil

	case *Anchor, *Empty:
		return n, nil

	case *CharacterClassRange:
		return nil, structuralf("character class range outside a character class")
	}
	return nil, structuralf("unknown term type %T", n)
}

func (s *rewriteState) processBody(body []Node) error {
	for i, term := range body {
		replacement, err := s.processTerm(term)
		if err != nil {
			return err
		}
		body[i] = replacement
	}
	return nil
}

// registerName puts a named group in the table. Its index is the count of capturing groups opened so far,
// including itself, in left-to-right order of their opening parentheses.
func (s *rewriteState) registerName(g *Group) error {
	name := g.Name
	if _, dup := s.names[name]; dup {
		return structuralf("multiple groups with the same name (%s) are not allowed", name)
	}
	index := s.lastIndex
	s.names[name] = index
	if s.opts.OnNamedGroup != nil {
		s.opts.OnNamedGroup(name, index)
	}
	for _, ref := range s.unmatched[name] {
		s.resolveReference(ref, index)
	}
	delete(s.unmatched, name)
	if s.opts.NamedGroup {
		g.Name = ""
	}
	return nil
}

func (s *rewriteState) resolveReference(ref *Reference, index int) {
	if s.opts.NamedGroup {
		ref.Name = ""
		ref.MatchIndex = index
	}
}

func (s *rewriteState) assertNoUnmatchedReferences() error {
	var missing []string
	for _, name := range s.unmatchedOrder {
		if _, ok := s.unmatched[name]; ok {
			missing = append(missing, name)
		}
	}
	if len(missing) != 0 {
		return structuralf("unknown group names: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *rewriteState) processCharacterClass(class *CharacterClass) (Node, error) {
	set := NewCodePointSet()
	for _, member := range class.Body {
		switch m := member.(type) {
		case *Value:
			set.Add(m.CodePoint)
			if s.foldCase {
				set.AddRunes(caseFold(m.CodePoint)...)
			}
		case *CharacterClassRange:
			set.AddRange(m.Min.CodePoint, m.Max.CodePoint)
			if s.foldCase {
				iuAddRange(set, m.Min.CodePoint, m.Max.CodePoint)
			}
		case *CharacterClassEscape:
			escapeSet, err := characterClassEscapeSet(m.Value, s.unicode, s.ignoreCase)
			if err != nil {
				return nil, err
			}
			set.AddSet(escapeSet)
		case *UnicodePropertyEscape:
			propSet, err := s.propertySet(m)
			if err != nil {
				return nil, err
			}
			set.AddSet(propSet)
		default:
			return nil, structuralf("unknown term type %T in character class", member)
		}
	}
	if !class.Negative {
		return s.update(set.String(s.format))
	}
	if s.emulate {
		// a negated class can't be expressed over UTF-16 code units, so match any one code point the set
		// doesn't start with
		all := NewCodePointSet().AddRange(0, runeMax)
		return s.update("(?:(?!" + set.String(s.format) + ")(?:" + all.String(s.format) + "))")
	}
	return s.update("[^" + set.classBody(s.format) + "]")
}

func (s *rewriteState) propertySet(p *UnicodePropertyEscape) (*CodePointSet, error) {
	set, err := propertyEscapeSet(s.properties, p.Value, p.Negative)
	if err != nil {
		return nil, err
	}
	if s.foldCase {
		iuAddSet(set)
	}
	return set, nil
}

// update reads rewritten source back into a tree, so what replaces the old node is a proper node. Anything
// that isn't a single class, group, or value is wrapped in (?:) to stay atomic under a quantifier.
func (s *rewriteState) update(source string) (Node, error) {
	flags := ""
	if s.opts.UseUnicodeFlag {
		flags = "u"
	}
	tree, err := Parse(source, flags, ParseFeatures{})
	if err != nil {
		return nil, structuralf("rewritten source %q does not parse: %v", source, err)
	}
	var replacement Node
	switch t := tree.(type) {
	case *CharacterClass, *Group, *Value:
		replacement = t
	case *Alternative:
		replacement = &Group{Behavior: GroupIgnore, Body: t.Body}
	default:
		replacement = &Group{Behavior: GroupIgnore, Body: []Node{tree}}
	}
	s.pp.labelNode(replacement, source)
	return replacement, nil
}

func holdsPropertyEscape(class *CharacterClass) bool {
	for _, member := range class.Body {
		if _, ok := member.(*UnicodePropertyEscape); ok {
			return true
		}
	}
	return false
}

// line terminators, which . doesn't match without dot-all
var lineTerminators = []rune{'\n', '\r', 0x2028, 0x2029}

func unicodeDotSet(dotAll bool) *CodePointSet {
	set := NewCodePointSet().AddRange(0, runeMax)
	if !dotAll {
		for _, lt := range lineTerminators {
			set.Remove(lt)
		}
	}
	return set
}

// NamedGroups reports the named capturing groups of a pattern and their indexes, in index order, without
// rewriting anything.
func NamedGroups(pattern, flags string) ([]NamedGroup, error) {
	var groups []NamedGroup
	_, err := RewritePattern(pattern, flags, Options{
		Lookbehind:     true,
		UseUnicodeFlag: true,
		OnNamedGroup: func(name string, index int) {
			groups = append(groups, NamedGroup{Name: name, Index: index})
		},
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Index < groups[j].Index })
	return groups, nil
}

type NamedGroup struct {
	Name  string
	Index int
}
