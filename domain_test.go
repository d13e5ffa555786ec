package gobanlist

import (
	"testing"
)

func TestNewDomainReversed(t *testing.T) {
	tests := []struct {
		raw      string
		reversed string
	}{
		{"math.gdz.ru", "ru.gdz.math"},
		{"gdz.ru", "ru.gdz"},
		{"ru", "ru"},
		{"", ""},
		{"a.b.c.d", "d.c.b.a"},
		// Empty labels are preserved exactly as the split produces them.
		{"a..b", "b..a"},
		{".ru", "ru."},
		{"gdz.ru.", ".ru.gdz"},
		// No case folding, no trimming.
		{"GDZ.Ru", "Ru.GDZ"},
		{" gdz.ru ", "ru . gdz"},
	}
	for _, tt := range tests {
		if got := NewDomain(tt.raw).Reversed(); got != tt.reversed {
			t.Errorf("NewDomain(%q).Reversed() = %q, want %q", tt.raw, got, tt.reversed)
		}
	}
}

func TestDomainStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"math.gdz.ru", "ru", "", "a..b", ".ru", "gdz.ru.", "GDZ.Ru"} {
		if got := NewDomain(raw).String(); got != raw {
			t.Errorf("NewDomain(%q).String() = %q, reversal must be lossless", raw, got)
		}
	}
}

func TestDomainDeterminism(t *testing.T) {
	a := NewDomain("maps.me")
	b := NewDomain("maps.me")
	if !a.Equal(b) {
		t.Error("constructing the same domain twice must yield equal Domains")
	}
	if a.Reversed() != b.Reversed() {
		t.Error("reversed forms of equal domains must be identical")
	}
}

func TestDomainEqual(t *testing.T) {
	if NewDomain("gdz.ru").Equal(NewDomain("gdz.su")) {
		t.Error("gdz.ru and gdz.su must not be equal")
	}
	if NewDomain("GDZ.ru").Equal(NewDomain("gdz.ru")) {
		t.Error("comparison is byte-exact, no case folding")
	}
}

func TestDomainLess(t *testing.T) {
	// Ordering is on the reversed form, so subdomains sort right after
	// their ancestor.
	a := NewDomain("gdz.ru")      // ru.gdz
	b := NewDomain("math.gdz.ru") // ru.gdz.math
	c := NewDomain("gdz.su")      // su.gdz
	if !a.Less(b) {
		t.Error("gdz.ru must sort before math.gdz.ru")
	}
	if !b.Less(c) {
		t.Error("math.gdz.ru must sort before gdz.su")
	}
	if b.Less(a) {
		t.Error("Less must be a strict order")
	}
}
