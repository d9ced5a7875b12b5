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

package usbdrive

// SectorSize is the unit of transfer between the bridge and the IDE
// register machine. Block devices with a smaller native block size are
// zero-padded up to this size; devices with a larger block size are
// rejected.
const SectorSize = 512

// Inquiry is the identity of a block device as reported by a SCSI INQUIRY.
type Inquiry struct {
	Vendor   string
	Product  string
	Revision string
}

// BlockDevice is the bridge's view of an attached mass-storage unit. The
// interface covers exactly what the firmware asks of the USB host stack:
// capacity, identity and single-block transfers.
type BlockDevice interface {
	// BlockSize returns the size of a native block in bytes.
	BlockSize() uint32

	// BlockCount returns the number of addressable blocks.
	BlockCount() uint32

	// ReadBlock fills buf with the contents of the block at lba. len(buf)
	// is the device's block size.
	ReadBlock(lba uint32, buf []byte) error

	// WriteBlock writes data to the block at lba. len(data) is the
	// device's block size.
	WriteBlock(lba uint32, data []byte) error

	// Inquiry returns the SCSI identification strings for the device.
	Inquiry() Inquiry
}
