package gobanlist

import (
	"strings"
)

// Domain is a fully-qualified domain name stored in reversed label order,
// so "math.gdz.ru" is kept as "ru.gdz.math". In this form "A is an ancestor
// of B" becomes "reversed(A) is a label-prefix of reversed(B)", which lets a
// flat set of strings answer suffix queries without a trie.
//
// Domain is an immutable value. Copy it freely.
type Domain struct {
	reversed string
}

// NewDomain builds a Domain from a raw name. It never fails: the input is
// split on '.' exactly as written, empty labels included, with no trimming,
// validation or case folding. Reversing is lossless, so String returns the
// original input.
func NewDomain(raw string) Domain {
	labels := strings.Split(raw, ".")
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := len(labels) - 1; i >= 0; i-- {
		if i < len(labels)-1 {
			sb.WriteByte('.')
		}
		sb.WriteString(labels[i])
	}
	return Domain{reversed: sb.String()}
}

// Reversed returns the comparison key: the labels joined by '.' in reverse
// order, top-level label first.
func (d Domain) Reversed() string {
	return d.reversed
}

// String returns the domain in natural writing order.
func (d Domain) String() string {
	labels := strings.Split(d.reversed, ".")
	var sb strings.Builder
	sb.Grow(len(d.reversed))
	for i := len(labels) - 1; i >= 0; i-- {
		if i < len(labels)-1 {
			sb.WriteByte('.')
		}
		sb.WriteString(labels[i])
	}
	return sb.String()
}

// Equal reports whether two domains have identical reversed forms.
func (d Domain) Equal(other Domain) bool {
	return d.reversed == other.reversed
}

// Less orders domains lexicographically on the reversed form. The only
// meaningful consequence is that subdomains group after their ancestors;
// it exists to allow sorted storage, not to rank domains.
func (d Domain) Less(other Domain) bool {
	return d.reversed < other.reversed
}
