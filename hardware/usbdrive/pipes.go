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
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/handoff"
)

// DriveInfo is published by the bridge whenever the mount state changes.
// The IDE register machine keeps the most recent value as its view of the
// attached drive.
type DriveInfo struct {
	Mounted bool
	Blocks  uint32
	Inquiry Inquiry
}

// SectorWrite is a request to write one sector.
type SectorWrite struct {
	LBA  uint32
	Data [SectorSize]byte
}

// SectorResult is the completion of a sector read. Data is only meaningful
// when OK is true.
type SectorResult struct {
	OK   bool
	Data [SectorSize]byte
}

// Pipes is the complete set of hand-off points between the IDE register
// machine (core A) and the bridge (core B). Each field has exactly one
// writing side:
//
//	ReadReq, WriteReq   posted by the IDE machine, taken by the bridge
//	ReadDone, WriteDone posted by the bridge, taken by the IDE machine
//	Drive               published by the bridge, read by the IDE machine
//
// There are no other shared fields. This is the entire cross-core surface.
type Pipes struct {
	ReadReq   *handoff.Slot[uint32]
	WriteReq  *handoff.Slot[SectorWrite]
	ReadDone  *handoff.Slot[SectorResult]
	WriteDone *handoff.Slot[bool]
	Drive     *handoff.Latest[DriveInfo]
}

// NewPipes is the preferred method of initialisation for the Pipes type.
func NewPipes() *Pipes {
	return &Pipes{
		ReadReq:   handoff.NewSlot[uint32](),
		WriteReq:  handoff.NewSlot[SectorWrite](),
		ReadDone:  handoff.NewSlot[SectorResult](),
		WriteDone: handoff.NewSlot[bool](),
		Drive:     &handoff.Latest[DriveInfo]{},
	}
}
