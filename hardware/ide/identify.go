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
	"fmt"
	"strings"

	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
)

// legacy CHS geometry reported for any capacity. cylinders are derived from
// the block count.
const (
	identifyHeads   = 16
	identifySectors = 63
)

// buildIdentify constructs the 512-byte response to the IDENTIFY DEVICE
// command from the capacity and SCSI identity of the mounted drive. The
// data port returns low byte first, so each 16-bit word is stored low byte
// at the even offset. String fields are the exception: the ATA convention
// packs the first of each character pair in the high byte of the word.
func buildIdentify(info usbdrive.DriveInfo) [usbdrive.SectorSize]byte {
	var id [usbdrive.SectorSize]byte

	putWord := func(word int, v uint16) {
		id[word*2] = byte(v)
		id[word*2+1] = byte(v >> 8)
	}

	putString := func(word int, words int, s string) {
		b := make([]byte, words*2)
		for i := range b {
			b[i] = ' '
		}
		copy(b, s)
		for i := 0; i < words; i++ {
			id[(word+i)*2] = b[i*2+1]
			id[(word+i)*2+1] = b[i*2]
		}
	}

	blocks := info.Blocks
	cylinders := blocks / (identifyHeads * identifySectors)
	if cylinders > 0xffff {
		cylinders = 0xffff
	}
	chsBlocks := cylinders * identifyHeads * identifySectors

	// word 0: general configuration. fixed, non-removable device
	putWord(0, 0x0040)

	// words 1/3/6: default CHS translation
	putWord(1, uint16(cylinders))
	putWord(3, identifyHeads)
	putWord(6, identifySectors)

	// words 10-19: serial number, 20 characters. derived from the capacity
	// so that the same stick enumerates with the same serial
	putString(10, 10, fmt.Sprintf("PV%08X", blocks))

	// words 23-26: firmware revision, 8 characters
	putString(23, 4, info.Inquiry.Revision)

	// words 27-46: model, 40 characters. vendor and product as reported by
	// the SCSI inquiry
	model := strings.TrimSpace(strings.TrimSpace(info.Inquiry.Vendor) + " " + strings.TrimSpace(info.Inquiry.Product))
	putString(27, 20, model)

	// word 47: sectors per interrupt
	putWord(47, 0x0001)

	// word 49: LBA supported
	putWord(49, 0x0200)

	// word 53: words 54-58 are valid
	putWord(53, 0x0001)

	// words 54-58: current CHS translation and capacity
	putWord(54, uint16(cylinders))
	putWord(55, identifyHeads)
	putWord(56, identifySectors)
	putWord(57, uint16(chsBlocks))
	putWord(58, uint16(chsBlocks>>16))

	// words 60-61: total addressable sectors in LBA mode, low word first
	putWord(60, uint16(blocks))
	putWord(61, uint16(blocks>>16))

	return id
}
