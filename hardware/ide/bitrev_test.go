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

package ide

import (
	"testing"

	"github.com/PanykSystem/msx-picoverse-public-sub000/test"
)

func TestReverseSegment(t *testing.T) {
	expected := []uint8{
		0b000: 0b000,
		0b001: 0b100,
		0b010: 0b010,
		0b011: 0b110,
		0b100: 0b001,
		0b101: 0b101,
		0b110: 0b011,
		0b111: 0b111,
	}

	for v := uint8(0); v < 8; v++ {
		test.Equate(t, reverseSegment(v), expected[v])

		// the transform is its own inverse
		test.Equate(t, reverseSegment(reverseSegment(v)), v)
	}
}
