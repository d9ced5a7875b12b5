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

import "github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"

// sectorBuffer is the 512-byte staging area between the data port and the
// USB bridge. The cursor only ever moves through the bounds-checked word
// operations, keeping the invariant index <= length <= 512.
type sectorBuffer struct {
	data   [usbdrive.SectorSize]uint8
	index  int
	length int
}

// clear empties the buffer. no data can be read from or written to a
// cleared buffer.
func (b *sectorBuffer) clear() {
	b.index = 0
	b.length = 0
}

// fill loads the buffer for reading by the host. data shorter than a full
// sector leaves the remainder zeroed.
func (b *sectorBuffer) fill(data []byte) {
	for i := range b.data {
		b.data[i] = 0
	}
	copy(b.data[:], data)
	b.index = 0
	b.length = usbdrive.SectorSize
}

// stage prepares the buffer for writing by the host. the buffer is full
// when the cursor reaches the staged length.
func (b *sectorBuffer) stage() {
	b.index = 0
	b.length = usbdrive.SectorSize
}

// peekWord returns the word at the cursor without advancing. ok is false
// if fewer than two bytes remain.
func (b *sectorBuffer) peekWord() (lo uint8, hi uint8, ok bool) {
	if b.index+1 >= b.length {
		return 0, 0, false
	}
	return b.data[b.index], b.data[b.index+1], true
}

// putWord stores a word at the cursor and advances. returns false if fewer
// than two bytes of space remain.
func (b *sectorBuffer) putWord(lo uint8, hi uint8) bool {
	if b.index+1 >= b.length {
		return false
	}
	b.data[b.index] = lo
	b.data[b.index+1] = hi
	b.index += 2
	return true
}

// advance moves the cursor past the word last returned by peekWord().
func (b *sectorBuffer) advance() {
	if b.index+2 <= b.length {
		b.index += 2
	}
}

// exhausted is true when the cursor has consumed the full staged length.
func (b *sectorBuffer) exhausted() bool {
	return b.index >= b.length
}
