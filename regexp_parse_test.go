package regexpu

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestBasicRunelist(t *testing.T) {
	bytes := []byte("foo")
	r := newRxParseState(bytes, false, ParseFeatures{})
	for i, b := range bytes {
		next, err := r.nextRune()
		if err != nil {
			t.Errorf("err at %d", i)
		}
		if next != rune(b) {
			t.Errorf("mismatch at %d", i)
		}
	}
	_, err := r.nextRune()
	if !errors.Is(err, errRegexpEOF) {
		t.Error("missed EOF")
	}
	if !r.isEmpty() {
		t.Error("missed empty")
	}
	if r.peek() != -1 {
		t.Error("peek past end")
	}
}

func TestBadUTF8(t *testing.T) {
	bad := []byte{0xF8}
	ps := newRxParseState(bad, false, ParseFeatures{})
	_, err := ps.nextRune()
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("bad UTF8 gave %v", err)
	}
}

func TestVariablePlaneRunelist(t *testing.T) {
	runes := []rune{'&', 0x416, 0x4E2D, 0x10346}
	lengths := []int{1, 2, 3, 4}
	list := newRxParseState([]byte(string(runes)), true, ParseFeatures{})
	read := 0
	for i := range runes {
		if list.peekAt(3-i) != runes[3] {
			t.Errorf("peekAt mismatch at %d", i)
		}
		r, err := list.nextRune()
		read += utf8.RuneLen(r)
		if err != nil {
			t.Errorf("err at %d", i)
		}
		if r != runes[i] {
			t.Errorf("mismatch at %d", i)
		}
		if utf8.RuneLen(r) != lengths[i] {
			t.Errorf("length mismatch at %d", i)
		}
		if read != list.offset() {
			t.Errorf("wrong length at %d", i)
		}
	}
	if !list.isEmpty() {
		t.Error("Missed empty")
	}
	for i := 3; i >= 0; i-- {
		list.backup1(runes[i])
		read -= utf8.RuneLen(runes[i])
		if list.offset() != read {
			t.Errorf("wrong offset at %d", i)
		}
	}
	if list.offset() != 0 {
		t.Error("offset not 0")
	}
}

func TestRuneListRequire(t *testing.T) {
	r := newRxParseState([]byte("foo"), false, ParseFeatures{})
	err := r.require('f')
	if err != nil {
		t.Error("require mode 1")
	}
	r = newRxParseState([]byte("foo"), false, ParseFeatures{})
	err = r.require('É')
	if err == nil {
		t.Error("require mode 2")
	}
	r = newRxParseState([]byte("Éé"), false, ParseFeatures{})
	err = r.require('É')
	if err != nil {
		t.Error("require mode 3")
	}
	r = newRxParseState([]byte("Éé"), false, ParseFeatures{})
	err = r.require('é')
	if err == nil {
		t.Error("require mode 4")
	}
	r = newRxParseState([]byte(""), false, ParseFeatures{})
	if err = r.require(')'); !errors.Is(err, ErrSyntax) {
		t.Error("require mode 5")
	}
}

func TestRuneListBypass(t *testing.T) {
	r := newRxParseState([]byte("Éé"), false, ParseFeatures{})
	if r.bypassOptional('é') {
		t.Error("bypass mode 1")
	}
	next, err := r.nextRune()
	if err != nil || next != 'É' {
		t.Error("bypass mode 2")
	}
	r = newRxParseState([]byte("Éé"), false, ParseFeatures{})
	if !r.bypassOptional('É') {
		t.Error("bypass mode 3")
	}
	next, err = r.nextRune()
	if err != nil || next != 'é' {
		t.Error("bypass mode 4")
	}
}

func TestLookingAtAndRewind(t *testing.T) {
	r := newRxParseState([]byte(`(?<=x)`), false, ParseFeatures{})
	if !r.lookingAt("(?<=") || r.lookingAt("(?<!") || r.lookingAt("(?<=x)y") {
		t.Error("lookingAt")
	}
	_, _ = r.nextRune()
	_, _ = r.nextRune()
	if r.since(0) != "(?" {
		t.Errorf("since: %q", r.since(0))
	}
	r.rewind(0)
	if r.peek() != '(' {
		t.Error("rewind")
	}
}

func TestPrescanGroups(t *testing.T) {
	type prescan struct {
		rx       string
		count    int
		hasNamed bool
	}
	scans := []prescan{
		{rx: "abc", count: 0},
		{rx: "(a)(b)", count: 2},
		{rx: "(?:a)(?=b)(?!c)(?<=d)(?<!e)", count: 0},
		{rx: "(?<x>a)(b)", count: 2, hasNamed: true},
		{rx: `\((a)`, count: 1},
		{rx: `[(](a)`, count: 1},
		{rx: `[\](](a)`, count: 1},
		{rx: "((((a))))", count: 4},
	}
	for _, scan := range scans {
		p := newRxParseState([]byte(scan.rx), false, ParseFeatures{})
		p.prescanGroups()
		if p.captureCount != scan.count || p.hasNamedGroups != scan.hasNamed {
			t.Errorf("%s: got %d/%t wanted %d/%t", scan.rx, p.captureCount, p.hasNamedGroups, scan.count, scan.hasNamed)
		}
	}
}
