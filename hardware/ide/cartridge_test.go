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

	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
	"github.com/PanykSystem/msx-picoverse-public-sub000/test"
)

// newTestCart prepares a cartridge with the IDE overlay enabled. the tests
// play the part of the storage bridge, answering requests on the pipes by
// hand.
func newTestCart(t *testing.T, mounted bool) (*Cartridge, *usbdrive.Pipes) {
	t.Helper()

	pipes := usbdrive.NewPipes()
	cart, err := NewCartridge(nil, pipes)
	test.ExpectSuccess(t, err)

	cart.Write(ControlAddr, ControlValue(0, true))

	if mounted {
		pipes.Drive.Publish(usbdrive.DriveInfo{Mounted: true, Blocks: 4096})
		cart.Step()
	}

	return cart, pipes
}

// setLBA programs the task file for a transfer through the register
// interface, as the MSX-side driver would.
func setLBA(cart *Cartridge, lba uint32, count uint8) {
	cart.Write(TaskOrigin+RegDeviceHead, DeviceLBA|uint8(lba>>24)&0x0f)
	cart.Write(TaskOrigin+RegSectorCount, count)
	cart.Write(TaskOrigin+RegSector, uint8(lba))
	cart.Write(TaskOrigin+RegCylinderLow, uint8(lba>>8))
	cart.Write(TaskOrigin+RegCylinderHigh, uint8(lba>>16))
}

// readSector consumes one sector from the data port, byte pairs in bus
// order.
func readSector(t *testing.T, cart *Cartridge) []byte {
	t.Helper()

	buf := make([]byte, usbdrive.SectorSize)
	for i := 0; i < usbdrive.SectorSize; i += 2 {
		lo, ok := cart.Access(DataOrigin)
		test.ExpectSuccess(t, ok)
		hi, ok := cart.Access(DataOrigin + 1)
		test.ExpectSuccess(t, ok)
		buf[i] = lo
		buf[i+1] = hi
	}
	return buf
}

// writeSector pushes one sector into the data port.
func writeSector(cart *Cartridge, data []byte) {
	for i := 0; i < usbdrive.SectorSize; i += 2 {
		cart.Write(DataOrigin, data[i])
		cart.Write(DataOrigin+1, data[i+1])
	}
}

func TestControlRegister(t *testing.T) {
	cart, _ := newTestCart(t, false)

	// raw segment field 0b001 selects segment 4 through the reversed wiring
	cart.Write(ControlAddr, 0x01<<ControlSegmentShft|ControlEnable)
	regs := cart.Registers()
	test.Equate(t, regs.Segment, 4)
	test.ExpectSuccess(t, regs.Enabled)

	// the round trip through ControlValue is the identity
	for s := uint8(0); s < NumSegments; s++ {
		cart.Write(ControlAddr, ControlValue(s, true))
		test.Equate(t, cart.Registers().Segment, int(s))
	}

	// with the overlay disabled the task file reads as flash (zeroes for
	// the empty test ROM)
	cart.Write(ControlAddr, ControlValue(0, false))
	v, ok := cart.Access(TaskOrigin + RegStatus)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, 0x00)
}

func TestDiagnosticSignature(t *testing.T) {
	cart, _ := newTestCart(t, true)

	// scramble the register file first
	setLBA(cart, 0x00aabbcc, 99)

	cart.Write(TaskOrigin+RegStatus, CmdDeviceDiagnostic)

	regs := cart.Registers()
	test.Equate(t, regs.Error, ErrorDiagnostic)
	test.Equate(t, regs.SectorCount, 1)
	test.Equate(t, regs.Sector, 1)
	test.Equate(t, regs.CylinderLow, 0)
	test.Equate(t, regs.CylinderHigh, 0)
	test.Equate(t, regs.Status, StatusReady|StatusSeekComplete)
	test.Equate(t, regs.State.String(), Idle.String())
}

func TestDiagnosticIgnoresUnitSelect(t *testing.T) {
	cart, _ := newTestCart(t, true)

	// the diagnostic command runs even when the second unit is addressed
	cart.Write(TaskOrigin+RegDeviceHead, DeviceSlave)
	cart.Write(TaskOrigin+RegStatus, CmdDeviceDiagnostic)
	test.Equate(t, cart.Registers().Error, ErrorDiagnostic)
}

func TestSlaveCommandsAbort(t *testing.T) {
	cart, _ := newTestCart(t, true)

	cart.Write(TaskOrigin+RegDeviceHead, DeviceSlave)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusError)
	test.Equate(t, regs.Error, ErrorAborted)
	test.Equate(t, regs.State.String(), Idle.String())
}

func TestReadSector(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 5, 1)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	// the device is busy until the bridge answers
	test.Equate(t, cart.Registers().Status, StatusBusy)

	lba, ok := pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)
	test.Equate(t, lba, 5)

	var res usbdrive.SectorResult
	res.OK = true
	for i := range res.Data {
		res.Data[i] = byte(i * 3)
	}
	test.ExpectSuccess(t, pipes.ReadDone.Post(res))
	cart.Step()

	test.Equate(t, cart.Registers().Status, StatusReady|StatusSeekComplete|StatusDataRequest)

	buf := readSector(t, cart)
	for i := range buf {
		test.Equate(t, buf[i], int(byte(i*3)))
	}

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusSeekComplete)
	test.Equate(t, regs.State.String(), Idle.String())
}

func TestMultiSectorRead(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 0x000000ff, 2)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	lba, ok := pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)
	test.Equate(t, lba, 0xff)

	test.ExpectSuccess(t, pipes.ReadDone.Post(usbdrive.SectorResult{OK: true}))
	cart.Step()
	_ = readSector(t, cart)

	// consuming the first sector requests the next block. the address
	// carries into the cylinder-low register
	lba, ok = pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)
	test.Equate(t, lba, 0x100)
	test.Equate(t, cart.Registers().Sector, 0x00)
	test.Equate(t, cart.Registers().CylinderLow, 0x01)

	test.ExpectSuccess(t, pipes.ReadDone.Post(usbdrive.SectorResult{OK: true}))
	cart.Step()
	_ = readSector(t, cart)

	test.Equate(t, cart.Registers().State.String(), Idle.String())
}

func TestZeroSectorCount(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 0, 0)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	_, ok := pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)

	// a zero count asks for the full 256 sectors
	test.Equate(t, cart.sectorsRemaining, 255)
}

func TestReadFailure(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 10, 1)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	_, ok := pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)

	test.ExpectSuccess(t, pipes.ReadDone.Post(usbdrive.SectorResult{OK: false}))
	cart.Step()

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusError)
	test.Equate(t, regs.Error, ErrorAborted)
	test.Equate(t, regs.State.String(), Idle.String())
}

func TestWriteSector(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 7, 1)
	cart.Write(TaskOrigin+RegStatus, CmdWriteSectors)

	// write commands raise DRQ immediately
	test.Equate(t, cart.Registers().Status, StatusReady|StatusSeekComplete|StatusDataRequest)

	data := make([]byte, usbdrive.SectorSize)
	for i := range data {
		data[i] = byte(i ^ 0x55)
	}
	writeSector(cart, data)

	test.Equate(t, cart.Registers().Status, StatusBusy)

	req, ok := pipes.WriteReq.Take()
	test.ExpectSuccess(t, ok)
	test.Equate(t, req.LBA, 7)
	for i := range req.Data {
		test.Equate(t, req.Data[i], int(byte(i^0x55)))
	}

	test.ExpectSuccess(t, pipes.WriteDone.Post(true))
	cart.Step()

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusSeekComplete)
	test.Equate(t, regs.State.String(), Idle.String())
}

func TestMultiSectorWrite(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 20, 2)
	cart.Write(TaskOrigin+RegStatus, CmdWriteSectors)

	data := make([]byte, usbdrive.SectorSize)
	writeSector(cart, data)

	req, ok := pipes.WriteReq.Take()
	test.ExpectSuccess(t, ok)
	test.Equate(t, req.LBA, 20)

	test.ExpectSuccess(t, pipes.WriteDone.Post(true))
	cart.Step()

	// the device asks for the second sector
	test.Equate(t, cart.Registers().Status, StatusReady|StatusSeekComplete|StatusDataRequest)

	writeSector(cart, data)

	req, ok = pipes.WriteReq.Take()
	test.ExpectSuccess(t, ok)
	test.Equate(t, req.LBA, 21)

	test.ExpectSuccess(t, pipes.WriteDone.Post(true))
	cart.Step()

	test.Equate(t, cart.Registers().State.String(), Idle.String())
}

func TestWriteFailure(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 30, 1)
	cart.Write(TaskOrigin+RegStatus, CmdWriteSectors)
	writeSector(cart, make([]byte, usbdrive.SectorSize))

	_, ok := pipes.WriteReq.Take()
	test.ExpectSuccess(t, ok)

	test.ExpectSuccess(t, pipes.WriteDone.Post(false))
	cart.Step()

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusError)
	test.Equate(t, regs.Error, ErrorAborted)
}

func TestIdentifyBeforeMount(t *testing.T) {
	cart, pipes := newTestCart(t, false)

	cart.Write(TaskOrigin+RegStatus, CmdIdentify)

	// the device holds the host off rather than aborting
	test.Equate(t, cart.Registers().Status, StatusBusy)

	pipes.Drive.Publish(usbdrive.DriveInfo{Mounted: true, Blocks: 8192})
	cart.Step()

	// the pending IDENTIFY completed without a retry from the host
	test.Equate(t, cart.Registers().Status, StatusReady|StatusSeekComplete|StatusDataRequest)

	buf := readSector(t, cart)
	test.Equate(t, uint16(buf[0])|uint16(buf[1])<<8, 0x0040)
	test.Equate(t, uint16(buf[120])|uint16(buf[121])<<8, 0x2000) // word 60
	test.Equate(t, cart.Registers().State.String(), Idle.String())
}

func TestTransferCommandsBeforeMount(t *testing.T) {
	cart, _ := newTestCart(t, false)

	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)
	test.Equate(t, cart.Registers().Error, ErrorAborted)

	cart.Write(TaskOrigin+RegStatus, CmdWriteSectors)
	test.Equate(t, cart.Registers().Error, ErrorAborted)
}

func TestUnmountMidCommand(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 40, 1)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)
	test.Equate(t, cart.Registers().Status, StatusBusy)

	pipes.Drive.Publish(usbdrive.DriveInfo{})
	cart.Step()

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusError)
	test.Equate(t, regs.Error, ErrorAborted)
	test.Equate(t, regs.State.String(), Idle.String())
}

func TestStaleCompletionDiscarded(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 50, 1)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	_, ok := pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)

	// the command is abandoned before its completion arrives
	cart.Write(TaskOrigin+RegStatus, CmdDeviceReset)

	test.ExpectSuccess(t, pipes.ReadDone.Post(usbdrive.SectorResult{OK: true}))
	cart.Step()

	// the late completion must not disturb the reset state
	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusSeekComplete)
	test.Equate(t, regs.State.String(), Idle.String())
	test.ExpectFailure(t, pipes.ReadDone.Posted())
}

func TestSoftReset(t *testing.T) {
	cart, _ := newTestCart(t, true)

	setLBA(cart, 60, 9)

	cart.Write(TaskOrigin+RegAltStatus, ControlSRST)
	test.Equate(t, cart.Registers().Status, StatusBusy)

	cart.Write(TaskOrigin+RegAltStatus, 0x00)

	regs := cart.Registers()
	test.Equate(t, regs.Error, ErrorDiagnostic)
	test.Equate(t, regs.SectorCount, 1)
	test.Equate(t, regs.Sector, 1)
	test.Equate(t, regs.Status, StatusReady|StatusSeekComplete)
}

func TestDataPortOutsideTransfer(t *testing.T) {
	cart, _ := newTestCart(t, true)

	v, ok := cart.Access(DataOrigin)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, 0xff)
}

func TestTaskFileMirror(t *testing.T) {
	cart, _ := newTestCart(t, true)

	// the 16-byte block repeats through the whole task range
	cart.Write(TaskOrigin+0x13, 0xab)
	v, ok := cart.Access(TaskOrigin + RegSector)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, 0xab)

	v, ok = cart.Access(TaskOrigin + 0xf0 + RegSector)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, 0xab)
}

func TestAlternateStatus(t *testing.T) {
	cart, pipes := newTestCart(t, true)

	setLBA(cart, 70, 1)
	cart.Write(TaskOrigin+RegStatus, CmdReadSectors)

	// the alternate status register reads the same value as the status
	// register and perturbs nothing
	s1, _ := cart.Access(TaskOrigin + RegAltStatus)
	s2, _ := cart.Access(TaskOrigin + RegStatus)
	test.Equate(t, s1, s2)
	test.Equate(t, s1, StatusBusy)
	test.Equate(t, cart.Registers().State.String(), Busy.String())

	_, ok := pipes.ReadReq.Take()
	test.ExpectSuccess(t, ok)
}

func TestRecalibrate(t *testing.T) {
	cart, _ := newTestCart(t, true)

	for _, cmd := range []uint8{CmdRecalibrate, CmdInitParams, CmdSetFeatures} {
		cart.Write(TaskOrigin+RegStatus, cmd)
		regs := cart.Registers()
		test.Equate(t, regs.Status, StatusReady|StatusSeekComplete)
		test.Equate(t, regs.Error, 0x00)
	}
}

func TestUnknownCommand(t *testing.T) {
	cart, _ := newTestCart(t, true)

	cart.Write(TaskOrigin+RegStatus, 0xc8)

	regs := cart.Registers()
	test.Equate(t, regs.Status, StatusReady|StatusError)
	test.Equate(t, regs.Error, ErrorAborted)
}

func TestLBAWrap(t *testing.T) {
	cart, _ := newTestCart(t, true)

	setLBA(cart, 0x00ffffff, 1)
	cart.incrementLBA()

	regs := cart.Registers()
	test.Equate(t, regs.Sector, 0x00)
	test.Equate(t, regs.CylinderLow, 0x00)
	test.Equate(t, regs.CylinderHigh, 0x00)
	test.Equate(t, regs.DeviceHead&0x0f, 0x01)

	// the mode and unit bits are preserved through the carry
	test.Equate(t, regs.DeviceHead&0xf0, DeviceLBA)
}

func TestROMTooLarge(t *testing.T) {
	pipes := usbdrive.NewPipes()
	_, err := NewCartridge(make([]byte, SegmentSize*NumSegments+1), pipes)
	test.ExpectFailure(t, err)
}
