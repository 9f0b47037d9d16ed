package regexpu

import (
	"unicode/utf8"
)

// regexpParse represents the state of one read of one pattern. Nothing in it outlives the call to Parse.
type regexpParse struct {
	bytes     []byte
	index     int
	lastIndex int
	unicode   bool
	features  *regexpFeatureChecker
	// from the prescan: the total number of capturing groups, and whether any of them is named
	captureCount   int
	hasNamedGroups bool
	// set when an astral character was read outside u-mode; its low surrogate is the next atom
	pendingLow rune
}

func newRxParseState(t []byte, unicodeMode bool, features ParseFeatures) *regexpParse {
	return &regexpParse{
		bytes:    t,
		unicode:  unicodeMode,
		features: newRegexpFeatureChecker(features),
	}
}

func (p *regexpParse) nextRune() (rune, error) {
	if p.index >= len(p.bytes) {
		return 0, errRegexpEOF
	}
	p.lastIndex = p.index
	c, length := utf8.DecodeRune(p.bytes[p.index:])
	if c == utf8.RuneError && length <= 1 {
		return 0, syntaxErrorf(p.lastOffset(), "UTF-8 encoding error at offset %d", p.lastOffset())
	}
	p.index += length
	return c, nil
}

// peek returns the next rune without consuming it, -1 at the end
func (p *regexpParse) peek() rune {
	return p.peekAt(0)
}

// peekAt looks n runes ahead without consuming anything, -1 if that's past the end
func (p *regexpParse) peekAt(n int) rune {
	index := p.index
	for {
		if index >= len(p.bytes) {
			return -1
		}
		c, length := utf8.DecodeRune(p.bytes[index:])
		if n == 0 {
			return c
		}
		index += length
		n--
	}
}

// require checks to see if the first rune matches the supplied argument. If it fails, it doesn't back up or
// recover or anything, on the assumption that you're giving up.
func (p *regexpParse) require(wanted rune) error {
	got, err := p.nextRune()
	if err == errRegexpEOF {
		return syntaxErrorf(p.offset(), "unexpected end of pattern at %d, wanted '%c'", p.offset(), wanted)
	}
	if err != nil {
		return err
	}
	if got != wanted {
		return syntaxErrorf(p.lastOffset(), "incorrect character at %d; got '%c' wanted '%c'", p.lastOffset(), got, wanted)
	}
	return nil
}

func (p *regexpParse) bypassOptional(c rune) bool {
	if p.peek() == c {
		_, _ = p.nextRune()
		return true
	}
	return false
}

// lookingAt reports whether the unread input starts with s
func (p *regexpParse) lookingAt(s string) bool {
	return len(p.bytes)-p.index >= len(s) && string(p.bytes[p.index:p.index+len(s)]) == s
}

func (p *regexpParse) backup1(oneRune rune) {
	p.index -= utf8.RuneLen(oneRune)
}

// rewind goes back to an offset recorded earlier with offset()
func (p *regexpParse) rewind(offset int) {
	p.index = offset
}

func (p *regexpParse) offset() int {
	return p.index
}
func (p *regexpParse) lastOffset() int {
	return p.lastIndex
}

func (p *regexpParse) isEmpty() bool {
	return p.index >= len(p.bytes) && p.pendingLow == 0
}

// since is the source text from start up to the current position
func (p *regexpParse) since(start int) string {
	return string(p.bytes[start:p.index])
}

// prescanGroups counts capturing groups and notes whether any is named. Decimal escapes and \k both
// depend on this, and they can refer forward.
func (p *regexpParse) prescanGroups() {
	inClass := false
	b := p.bytes
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if inClass {
				continue
			}
			if i+1 < len(b) && b[i+1] == '?' {
				if i+2 < len(b) && b[i+2] == '<' && i+3 < len(b) && b[i+3] != '=' && b[i+3] != '!' {
					p.captureCount++
					p.hasNamedGroups = true
				}
				continue
			}
			p.captureCount++
		}
	}
}
