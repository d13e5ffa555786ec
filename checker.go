package gobanlist

import (
	"strings"
)

// Checker answers whether a domain, or any of its ancestor domains, is on
// the banlist. It keeps one reversed form per forbidden domain in a flat
// set; a query probes each of its own suffixes (in reversed form, each a
// label-prefix) against that set, so lookups cost O(labels) with no tree.
//
// Build it fully before sharing: Add is not safe concurrently with
// IsForbidden, but a finished Checker may be read from any number of
// goroutines.
type Checker struct {
	forbidden map[string]struct{}
}

// NewChecker builds a Checker from the given forbidden domains.
// Duplicates collapse silently. With no arguments it forbids nothing.
func NewChecker(forbidden ...Domain) *Checker {
	c := &Checker{
		forbidden: make(map[string]struct{}, len(forbidden)),
	}
	for _, d := range forbidden {
		c.Add(d)
	}
	return c
}

// Add inserts one more forbidden domain.
func (c *Checker) Add(d Domain) {
	c.forbidden[d.Reversed()] = struct{}{}
}

// Len returns the number of distinct forbidden domains.
func (c *Checker) Len() int {
	return len(c.forbidden)
}

// IsForbidden reports whether d or any ancestor of d is forbidden.
// It walks the reversed form label by label, growing a cumulative prefix
// ("ru", "ru.gdz", "ru.gdz.math") and returns on the first set hit.
// Comparisons happen on whole labels only, so "gdz.ru" does not forbid
// "freegdz.ru".
func (c *Checker) IsForbidden(d Domain) bool {
	rev := d.Reversed()
	var end int
	for {
		next := strings.IndexByte(rev[end:], '.')
		if next == -1 {
			end = len(rev)
		} else {
			end += next
		}
		if _, ok := c.forbidden[rev[:end]]; ok {
			return true
		}
		if end == len(rev) {
			return false
		}
		end++ // step over the separator
	}
}
