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

// The cartridge occupies MSX page 1. The control register and both IDE
// windows live inside the page; every other address in the page reads from
// the currently selected flash segment.
const (
	WindowOrigin = 0x4000
	WindowMemtop = 0x7fff

	// write-only. reads of this address return flash data
	ControlAddr = 0x4104

	// 16-bit data port, low byte on even addresses
	DataOrigin = 0x7c00
	DataMemtop = 0x7dff

	// task-file block, 16 registers mirrored through the range
	TaskOrigin = 0x7e00
	TaskMemtop = 0x7eff
)

// control register layout.
const (
	ControlEnable      = 0x01 // bit 0: IDE register overlay enable
	ControlSegmentShft = 5    // bits 7:5: flash segment, reversed bit order
)

// task-file register offsets within the 16-byte block.
const (
	RegData         = 0  // unused. the data port is the 16-bit window
	RegError        = 1  // read: error. write: feature
	RegSectorCount  = 2
	RegSector       = 3
	RegCylinderLow  = 4
	RegCylinderHigh = 5
	RegDeviceHead   = 6
	RegStatus       = 7  // read: status. write: command
	RegAltStatus    = 14 // read: status, no side effects. write: device control
)

// device/head register bits.
const (
	DeviceSlave = 0x10 // set when the host addresses the second unit
	DeviceLBA   = 0x40
)

// status register bits.
const (
	StatusBusy         = 0x80 // BSY
	StatusReady        = 0x40 // DRDY
	StatusSeekComplete = 0x10 // DSC
	StatusDataRequest  = 0x08 // DRQ
	StatusError        = 0x01 // ERR
)

// error register bits.
const (
	ErrorAborted = 0x04 // ABRT

	// power-on/post-diagnostic signature value
	ErrorDiagnostic = 0x01
)

// device control register bits.
const ControlSRST = 0x04

// command opcodes. the subset a real MSX-side driver issues.
const (
	CmdDeviceReset      = 0x08
	CmdRecalibrate      = 0x10
	CmdReadSectors      = 0x20
	CmdWriteSectors     = 0x30
	CmdDeviceDiagnostic = 0x90
	CmdInitParams       = 0x91
	CmdIdentify         = 0xec
	CmdSetFeatures      = 0xef
)
