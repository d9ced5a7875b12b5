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

	"github.com/PanykSystem/msx-picoverse-public-sub000/curated"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
)

// flash geometry. the segment field of the control register selects one of
// eight 16KiB segments.
const (
	SegmentSize = 0x4000
	NumSegments = 8
)

// error patterns for cartridge creation.
const ROMTooLarge = "ide: ROM image is %d bytes, maximum is %d"

// Cartridge is the emulated IDE cartridge: flash ROM, control register,
// ATA shadow register file and the sector staging buffer. It implements
// the msxbus.Handler interface and lives entirely on the bus-servicing
// core; the only way storage is reached is through the cross-core pipes.
type Cartridge struct {
	banks [][]uint8

	// control register state
	segment    uint8
	ideEnabled bool

	// ATA shadow registers
	feature     uint8
	sectorCount uint8
	sector      uint8
	cylLow      uint8
	cylHigh     uint8
	deviceHead  uint8
	status      uint8
	errorReg    uint8

	// device control register shadow, for SRST edge detection
	devControl uint8

	// the 16-bit data port is emulated over the 8-bit slot bus. the low
	// byte of each word is held here until the matching high-byte access
	latch      uint8
	latchValid bool

	buffer           sectorBuffer
	sectorsRemaining int

	state State

	// IDENTIFY arrived before the drive mounted. completed by Step() when
	// the mount is published
	identifyPending bool

	pipes *usbdrive.Pipes

	// most recently published mount state. updated by Step()
	drive usbdrive.DriveInfo
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. The ROM image is padded to the full flash size.
func NewCartridge(rom []byte, pipes *usbdrive.Pipes) (*Cartridge, error) {
	if len(rom) > SegmentSize*NumSegments {
		return nil, curated.Errorf(ROMTooLarge, len(rom), SegmentSize*NumSegments)
	}

	cart := &Cartridge{
		banks: make([][]uint8, NumSegments),
		pipes: pipes,
	}

	for b := 0; b < NumSegments; b++ {
		cart.banks[b] = make([]uint8, SegmentSize)
		o := b * SegmentSize
		if o < len(rom) {
			copy(cart.banks[b], rom[o:])
		}
	}

	cart.Reset()

	return cart, nil
}

func (cart *Cartridge) String() string {
	return fmt.Sprintf("%s: segment %d, ide %v, %s, status %02x, error %02x",
		cart.ID(), cart.segment, cart.ideEnabled, cart.state, cart.status, cart.errorReg)
}

// ID identifies the emulated mapper type.
func (cart *Cartridge) ID() string {
	return "sunrise-ide"
}

// Reset the cartridge to its power-on state. The mount state is hardware,
// not register state, and survives the reset.
func (cart *Cartridge) Reset() {
	cart.segment = 0
	cart.ideEnabled = false
	cart.devControl = 0
	cart.signatureReset()
}

// signatureReset places the power-on/post-diagnostic signature in the
// register file and abandons any transfer in progress.
func (cart *Cartridge) signatureReset() {
	cart.feature = 0
	cart.sectorCount = 1
	cart.sector = 1
	cart.cylLow = 0
	cart.cylHigh = 0
	cart.deviceHead = 0
	cart.status = StatusReady | StatusSeekComplete
	cart.errorReg = ErrorDiagnostic
	cart.latchValid = false
	cart.buffer.clear()
	cart.sectorsRemaining = 0
	cart.identifyPending = false
	cart.state = Idle
}

// Access implements the msxbus.Handler interface.
func (cart *Cartridge) Access(addr uint16) (uint8, bool) {
	if addr < WindowOrigin || addr > WindowMemtop {
		return 0, false
	}

	if cart.ideEnabled {
		switch {
		case addr >= DataOrigin && addr <= DataMemtop:
			return cart.dataRead(addr), true
		case addr >= TaskOrigin && addr <= TaskMemtop:
			return cart.taskRead(addr), true
		}
	}

	// everything else in the window, the control register address
	// included, reads from the selected flash segment
	return cart.banks[cart.segment][addr-WindowOrigin], true
}

// Write implements the msxbus.Handler interface.
func (cart *Cartridge) Write(addr uint16, data uint8) {
	if addr == ControlAddr {
		cart.segment = reverseSegment(data >> ControlSegmentShft)
		cart.ideEnabled = data&ControlEnable == ControlEnable
		return
	}

	if !cart.ideEnabled {
		return
	}

	switch {
	case addr >= DataOrigin && addr <= DataMemtop:
		cart.dataWrite(addr, data)
	case addr >= TaskOrigin && addr <= TaskMemtop:
		cart.taskWrite(addr, data)
	}
}

func (cart *Cartridge) taskRead(addr uint16) uint8 {
	switch addr & 0x000f {
	case RegError:
		return cart.errorReg
	case RegSectorCount:
		return cart.sectorCount
	case RegSector:
		return cart.sector
	case RegCylinderLow:
		return cart.cylLow
	case RegCylinderHigh:
		return cart.cylHigh
	case RegDeviceHead:
		return cart.deviceHead
	case RegStatus, RegAltStatus:
		return cart.status
	}

	// the data register offset and the undefined offsets
	return 0xff
}

func (cart *Cartridge) taskWrite(addr uint16, data uint8) {
	switch addr & 0x000f {
	case RegError:
		cart.feature = data
	case RegSectorCount:
		cart.sectorCount = data
	case RegSector:
		cart.sector = data
	case RegCylinderLow:
		cart.cylLow = data
	case RegCylinderHigh:
		cart.cylHigh = data
	case RegDeviceHead:
		cart.deviceHead = data
	case RegStatus:
		cart.command(data)
	case RegAltStatus:
		cart.deviceControl(data)
	}
}

// deviceControl handles writes to the device control register. The device
// resets to the diagnostic signature when SRST is released.
func (cart *Cartridge) deviceControl(data uint8) {
	if cart.devControl&ControlSRST != 0 && data&ControlSRST == 0 {
		cart.signatureReset()
	} else if data&ControlSRST != 0 {
		cart.status = StatusBusy
	}
	cart.devControl = data
}

// lba composes the logical block address from the four register fields.
func (cart *Cartridge) lba() uint32 {
	return uint32(cart.sector) |
		uint32(cart.cylLow)<<8 |
		uint32(cart.cylHigh)<<16 |
		uint32(cart.deviceHead&0x0f)<<24
}

// incrementLBA advances the block address by one sector, carrying through
// the four register fields.
func (cart *Cartridge) incrementLBA() {
	cart.sector++
	if cart.sector != 0 {
		return
	}
	cart.cylLow++
	if cart.cylLow != 0 {
		return
	}
	cart.cylHigh++
	if cart.cylHigh != 0 {
		return
	}
	cart.deviceHead = (cart.deviceHead & 0xf0) | ((cart.deviceHead + 1) & 0x0f)
}

// Registers is a copy of the visible register state, for the monitor and
// for tests.
type Registers struct {
	Feature      uint8
	SectorCount  uint8
	Sector       uint8
	CylinderLow  uint8
	CylinderHigh uint8
	DeviceHead   uint8
	Status       uint8
	Error        uint8
	Segment      uint8
	Enabled      bool
	State        State
}

// Registers returns a copy of the visible register state.
func (cart *Cartridge) Registers() Registers {
	return Registers{
		Feature:      cart.feature,
		SectorCount:  cart.sectorCount,
		Sector:       cart.sector,
		CylinderLow:  cart.cylLow,
		CylinderHigh: cart.cylHigh,
		DeviceHead:   cart.deviceHead,
		Status:       cart.status,
		Error:        cart.errorReg,
		Segment:      cart.segment,
		Enabled:      cart.ideEnabled,
		State:        cart.state,
	}
}
