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
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
	"github.com/PanykSystem/msx-picoverse-public-sub000/logger"
)

// dataRead resolves a read of the 16-bit data port. An even address fetches
// the word at the cursor and returns the low byte, latching the high byte;
// the odd address returns the latched byte and advances the cursor. The
// split is per access pattern, not per address: the host may use any
// even/odd pair in the port range.
func (cart *Cartridge) dataRead(addr uint16) uint8 {
	if cart.state != ReadData {
		return 0xff
	}

	if addr&0x0001 == 0 {
		lo, hi, ok := cart.buffer.peekWord()
		if !ok {
			return 0xff
		}
		cart.latch = hi
		cart.latchValid = true
		return lo
	}

	if !cart.latchValid {
		return 0xff
	}

	data := cart.latch
	cart.latchValid = false
	cart.buffer.advance()

	if cart.buffer.exhausted() {
		cart.readExhausted()
	}

	return data
}

// readExhausted decides what follows a fully consumed read buffer: the
// next sector of a multi-sector transfer or the end of the command.
func (cart *Cartridge) readExhausted() {
	if cart.sectorsRemaining > 0 {
		cart.sectorsRemaining--
		cart.incrementLBA()
		cart.requestRead()
		return
	}

	cart.status = StatusReady | StatusSeekComplete
	cart.state = Idle
}

// dataWrite resolves a write to the 16-bit data port. The even address
// latches the low byte; the odd address completes the word and stores it.
func (cart *Cartridge) dataWrite(addr uint16, data uint8) {
	if cart.state != WriteData {
		return
	}

	if addr&0x0001 == 0 {
		cart.latch = data
		cart.latchValid = true
		return
	}

	if !cart.latchValid {
		return
	}

	lo := cart.latch
	cart.latchValid = false

	if !cart.buffer.putWord(lo, data) {
		return
	}

	if cart.buffer.exhausted() {
		cart.flushSector()
	}
}

// requestRead posts a read for the current block address and parks the
// device in the Busy state until the bridge answers.
func (cart *Cartridge) requestRead() {
	cart.status = StatusBusy
	cart.state = Busy
	if !cart.pipes.ReadReq.Post(cart.lba()) {
		// a request can only be outstanding while the device is Busy, so
		// the slot is always free here
		logger.Log("ide", "read request slot occupied")
		cart.abort()
	}
}

// flushSector hands the completed write buffer to the bridge and parks the
// device in the Busy state until the bridge answers.
func (cart *Cartridge) flushSector() {
	req := usbdrive.SectorWrite{LBA: cart.lba()}
	copy(req.Data[:], cart.buffer.data[:])

	cart.status = StatusBusy
	cart.state = Busy
	if !cart.pipes.WriteReq.Post(req) {
		logger.Log("ide", "write request slot occupied")
		cart.abort()
	}
}
