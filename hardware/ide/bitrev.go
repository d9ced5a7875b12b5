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

// reverseSegment un-reverses the 3-bit segment field of the control
// register. The hardware being emulated wires the segment bits to the flash
// banking logic in reverse order, so a raw value of 0b_ABC selects segment
// 0b_CBA. The transform is its own inverse.
func reverseSegment(v uint8) uint8 {
	return (v&0x01)<<2 | (v & 0x02) | (v&0x04)>>2
}

// ControlValue composes the raw byte a host writes to the control register
// to select a flash segment and set the IDE overlay enable. This is the
// host driver's side of the reversed-bit convention.
func ControlValue(segment uint8, enable bool) uint8 {
	v := reverseSegment(segment&0x07) << ControlSegmentShft
	if enable {
		v |= ControlEnable
	}
	return v
}
