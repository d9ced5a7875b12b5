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

import (
	"github.com/PanykSystem/msx-picoverse-public-sub000/curated"
)

// error patterns for the MemoryDisk type.
const (
	BlockOutOfRange = "memorydisk: block %d out of range"
	TransferFailure = "memorydisk: simulated transfer failure"
)

// MemoryDisk is a BlockDevice backed by a byte slice. It exists for tests
// and for scratch sessions of the command line harness.
type MemoryDisk struct {
	data      []byte
	blockSize uint32
	inquiry   Inquiry

	// simulated transfer failures. when set, every ReadBlock/WriteBlock
	// returns an error without touching the data
	FailReads  bool
	FailWrites bool
}

// NewMemoryDisk creates a MemoryDisk of the specified number of 512-byte
// blocks.
func NewMemoryDisk(blocks uint32) *MemoryDisk {
	return NewMemoryDiskBlockSize(blocks, SectorSize)
}

// NewMemoryDiskBlockSize creates a MemoryDisk with a non-standard block
// size. Used to exercise the zero-padding fallback for devices reporting
// blocks smaller than a sector.
func NewMemoryDiskBlockSize(blocks uint32, blockSize uint32) *MemoryDisk {
	return &MemoryDisk{
		data:      make([]byte, int(blocks)*int(blockSize)),
		blockSize: blockSize,
		inquiry: Inquiry{
			Vendor:   "PICOVERS",
			Product:  "MEMORY DISK",
			Revision: "1.00",
		},
	}
}

// BlockSize implements the BlockDevice interface.
func (dsk *MemoryDisk) BlockSize() uint32 {
	return dsk.blockSize
}

// BlockCount implements the BlockDevice interface.
func (dsk *MemoryDisk) BlockCount() uint32 {
	return uint32(len(dsk.data)) / dsk.blockSize
}

// ReadBlock implements the BlockDevice interface.
func (dsk *MemoryDisk) ReadBlock(lba uint32, buf []byte) error {
	if dsk.FailReads {
		return curated.Errorf(TransferFailure)
	}
	if lba >= dsk.BlockCount() {
		return curated.Errorf(BlockOutOfRange, lba)
	}
	copy(buf, dsk.data[lba*dsk.blockSize:(lba+1)*dsk.blockSize])
	return nil
}

// WriteBlock implements the BlockDevice interface.
func (dsk *MemoryDisk) WriteBlock(lba uint32, data []byte) error {
	if dsk.FailWrites {
		return curated.Errorf(TransferFailure)
	}
	if lba >= dsk.BlockCount() {
		return curated.Errorf(BlockOutOfRange, lba)
	}
	copy(dsk.data[lba*dsk.blockSize:(lba+1)*dsk.blockSize], data)
	return nil
}

// Inquiry implements the BlockDevice interface.
func (dsk *MemoryDisk) Inquiry() Inquiry {
	return dsk.inquiry
}
