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

package msxbus

import "sync/atomic"

// FIFO is a fixed-capacity ring with one producing side and one consuming
// side, mirroring the hardware FIFOs between the coprocessor and the
// firmware core. Push and Pop never block: a push to a full FIFO reports
// failure, which on the real hardware is a silent drop.
type FIFO[T any] struct {
	buf []T

	// head is advanced by the consumer, tail by the producer. the atomic
	// accesses give the consumer a coherent view of buf entries written
	// before the matching tail advance
	head atomic.Uint32
	tail atomic.Uint32
}

// NewFIFO is the preferred method of initialisation for the FIFO type.
func NewFIFO[T any](capacity int) *FIFO[T] {
	// one slot is sacrificed to distinguish full from empty
	return &FIFO[T]{buf: make([]T, capacity+1)}
}

// Push adds a value. Returns false if the FIFO is full, in which case the
// value is lost.
func (f *FIFO[T]) Push(v T) bool {
	tail := f.tail.Load()
	next := (tail + 1) % uint32(len(f.buf))
	if next == f.head.Load() {
		return false
	}
	f.buf[tail] = v
	f.tail.Store(next)
	return true
}

// Pop removes and returns the oldest value. The second return value is
// false if the FIFO is empty.
func (f *FIFO[T]) Pop() (T, bool) {
	head := f.head.Load()
	if head == f.tail.Load() {
		var none T
		return none, false
	}
	v := f.buf[head]
	f.head.Store((head + 1) % uint32(len(f.buf)))
	return v, true
}

// Len returns the number of queued values.
func (f *FIFO[T]) Len() int {
	head := f.head.Load()
	tail := f.tail.Load()
	if tail >= head {
		return int(tail - head)
	}
	return len(f.buf) - int(head-tail)
}
