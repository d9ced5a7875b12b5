// This file is part of PicoVerse.
//
// PicoVerse is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// PicoVerse is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with PicoVerse.  If not, see <https://www.gnu.org/licenses/>.

// Package handoff provides the hand-off types used between the two
// execution cores of the emulated firmware. On the real hardware these are
// bare flag words in shared SRAM, written by one core and read by the
// other. Here each flag is a type that enforces the single-writer rule: a
// Slot has exactly one posting side and one taking side, and a Latest has
// exactly one publishing side.
//
// Neither core ever blocks on a hand-off. Post(), Take() and Load() all
// return immediately. The channel and atomic operations underneath provide
// the memory ordering guarantee required of a completion flag: a value
// taken from a Slot is fully visible to the taker, including any buffer
// contents carried inside it.
package handoff

import "sync/atomic"

// Slot is a one-value hand-off between a single producer and a single
// consumer. A posted value stays in the slot until the consumer takes it.
type Slot[T any] struct {
	ch chan T
}

// NewSlot is the preferred method of initialisation for the Slot type.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Post places a value in the slot. Returns false without blocking if the
// previous value has not yet been taken.
func (s *Slot[T]) Post(v T) bool {
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}

// Take removes and returns the value in the slot. The second return value
// is false if the slot is empty.
func (s *Slot[T]) Take() (T, bool) {
	select {
	case v := <-s.ch:
		return v, true
	default:
		var none T
		return none, false
	}
}

// Posted returns true if a value is waiting in the slot. Only meaningful to
// the producing side, which can use it to avoid preparing a value that
// cannot be posted.
func (s *Slot[T]) Posted() bool {
	return len(s.ch) > 0
}

// Latest is a published value with a single writer. Readers always see the
// most recent complete value, never a partial write.
type Latest[T any] struct {
	v atomic.Pointer[T]
}

// Publish replaces the current value.
func (l *Latest[T]) Publish(v T) {
	l.v.Store(&v)
}

// Load returns the most recently published value. The second return value
// is false if nothing has been published yet.
func (l *Latest[T]) Load() (T, bool) {
	p := l.v.Load()
	if p == nil {
		var none T
		return none, false
	}
	return *p, true
}
