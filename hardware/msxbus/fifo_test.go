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

package msxbus_test

import (
	"testing"

	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/msxbus"
	"github.com/PanykSystem/msx-picoverse-public-sub000/test"
)

func TestFIFOCapacity(t *testing.T) {
	f := msxbus.NewFIFO[int](4)
	test.Equate(t, f.Len(), 0)

	for i := 0; i < 4; i++ {
		test.ExpectSuccess(t, f.Push(i))
	}
	test.Equate(t, f.Len(), 4)

	// a push to a full FIFO fails and disturbs nothing already queued
	test.ExpectFailure(t, f.Push(100))
	test.Equate(t, f.Len(), 4)

	for i := 0; i < 4; i++ {
		v, ok := f.Pop()
		test.ExpectSuccess(t, ok)
		test.Equate(t, v, i)
	}

	_, ok := f.Pop()
	test.ExpectFailure(t, ok)
}

func TestFIFOWrapAround(t *testing.T) {
	f := msxbus.NewFIFO[int](3)

	// cycle enough values through the FIFO for the indices to wrap several
	// times
	for i := 0; i < 20; i++ {
		test.ExpectSuccess(t, f.Push(i))
		v, ok := f.Pop()
		test.ExpectSuccess(t, ok)
		test.Equate(t, v, i)
	}
	test.Equate(t, f.Len(), 0)
}

func TestTokenPacking(t *testing.T) {
	tk := msxbus.NewToken(0x5a, true)
	test.Equate(t, tk.Data(), 0x5a)
	test.ExpectSuccess(t, tk.Driven())

	// an unclaimed read drives nothing, whatever the data byte
	tk = msxbus.NewToken(0x5a, false)
	test.ExpectFailure(t, tk.Driven())
	test.Equate(t, tk.Data(), 0)
}
