package gobanlist

import (
	"sync/atomic"
)

// Holder hands out the active Checker and lets the reloader swap in a new
// one without stopping readers. One writer, any number of readers.
type Holder struct {
	value atomic.Pointer[Checker]
}

func NewHolder(initial *Checker) *Holder {
	h := &Holder{}
	if initial == nil {
		initial = NewChecker()
	}
	h.value.Store(initial)
	return h
}

func (h *Holder) Get() *Checker {
	return h.value.Load()
}

func (h *Holder) Set(c *Checker) {
	h.value.Store(c)
}
