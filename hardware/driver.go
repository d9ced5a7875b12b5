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

package hardware

import (
	"runtime"

	"github.com/PanykSystem/msx-picoverse-public-sub000/curated"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/ide"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
)

// error patterns for the Driver type.
const (
	DriverTimeout = "driver: device did not become ready"
	DriverFault   = "driver: command failed (status %#02x, error %#02x)"
	DriverCount   = "driver: transfer length must be 1 to 256 sectors"
)

// a wedged device shows up as a timeout error rather than a hung harness.
const pollLimit = 1 << 24

// Driver issues ATA commands through the slot interface the way the
// MSX-side disk driver does: program the task file, write the command,
// poll the status register, move data through the 16-bit port.
type Driver struct {
	mc *Machine
}

// NewDriver is the preferred method of initialisation for the Driver type.
func NewDriver(mc *Machine) *Driver {
	return &Driver{mc: mc}
}

// Enable switches the IDE register overlay on and selects a flash segment.
func (drv *Driver) Enable(segment uint8) {
	drv.mc.Write(ide.ControlAddr, ide.ControlValue(segment, true))
}

func (drv *Driver) status() uint8 {
	s, _ := drv.mc.Read(ide.TaskOrigin + ide.RegStatus)
	return s
}

// waitNotBusy polls the status register until BSY clears. Every poll is a
// full bus read cycle, so the service loop keeps running underneath, and
// the scheduler yield gives the bridge core its chance to answer.
func (drv *Driver) waitNotBusy() (uint8, error) {
	for i := 0; i < pollLimit; i++ {
		s := drv.status()
		if s&ide.StatusBusy == 0 {
			return s, nil
		}
		runtime.Gosched()
	}
	return 0, curated.Errorf(DriverTimeout)
}

// waitDataRequest polls until the device asks for a data transfer. A
// command that ended in error is surfaced here.
func (drv *Driver) waitDataRequest() error {
	s, err := drv.waitNotBusy()
	if err != nil {
		return err
	}
	if s&ide.StatusError != 0 || s&ide.StatusDataRequest == 0 {
		e, _ := drv.mc.Read(ide.TaskOrigin + ide.RegError)
		return curated.Errorf(DriverFault, s, e)
	}
	return nil
}

// program the task file for a transfer starting at lba. a count of 256 is
// written as zero per the ATA convention.
func (drv *Driver) setupTransfer(lba uint32, count int) {
	drv.mc.Write(ide.TaskOrigin+ide.RegDeviceHead, ide.DeviceLBA|uint8(lba>>24)&0x0f)
	drv.mc.Write(ide.TaskOrigin+ide.RegSectorCount, uint8(count))
	drv.mc.Write(ide.TaskOrigin+ide.RegSector, uint8(lba))
	drv.mc.Write(ide.TaskOrigin+ide.RegCylinderLow, uint8(lba>>8))
	drv.mc.Write(ide.TaskOrigin+ide.RegCylinderHigh, uint8(lba>>16))
}

// move one sector out of the data port.
func (drv *Driver) readData(buf []byte) {
	for i := 0; i < usbdrive.SectorSize; i += 2 {
		lo, _ := drv.mc.Read(ide.DataOrigin)
		hi, _ := drv.mc.Read(ide.DataOrigin + 1)
		buf[i] = lo
		buf[i+1] = hi
	}
}

// move one sector into the data port.
func (drv *Driver) writeData(data []byte) {
	for i := 0; i < usbdrive.SectorSize; i += 2 {
		drv.mc.Write(ide.DataOrigin, data[i])
		drv.mc.Write(ide.DataOrigin+1, data[i+1])
	}
}

// Identify issues the IDENTIFY DEVICE command and returns the 512-byte
// identification block. If the drive has not mounted yet the device holds
// BSY and this function polls until it completes, as the real MSX driver
// does during boot.
func (drv *Driver) Identify() ([]byte, error) {
	drv.mc.Write(ide.TaskOrigin+ide.RegDeviceHead, 0x00)
	drv.mc.Write(ide.TaskOrigin+ide.RegStatus, ide.CmdIdentify)

	if err := drv.waitDataRequest(); err != nil {
		return nil, err
	}

	buf := make([]byte, usbdrive.SectorSize)
	drv.readData(buf)
	return buf, nil
}

// ReadSectors reads count sectors starting at lba.
func (drv *Driver) ReadSectors(lba uint32, count int) ([]byte, error) {
	if count < 1 || count > 256 {
		return nil, curated.Errorf(DriverCount)
	}

	drv.setupTransfer(lba, count)
	drv.mc.Write(ide.TaskOrigin+ide.RegStatus, ide.CmdReadSectors)

	buf := make([]byte, count*usbdrive.SectorSize)
	for s := 0; s < count; s++ {
		if err := drv.waitDataRequest(); err != nil {
			return nil, err
		}
		drv.readData(buf[s*usbdrive.SectorSize:])
	}

	return buf, nil
}

// WriteSectors writes data, a whole number of sectors long, starting at
// lba.
func (drv *Driver) WriteSectors(lba uint32, data []byte) error {
	count := len(data) / usbdrive.SectorSize
	if count < 1 || count > 256 || len(data)%usbdrive.SectorSize != 0 {
		return curated.Errorf(DriverCount)
	}

	drv.setupTransfer(lba, count)
	drv.mc.Write(ide.TaskOrigin+ide.RegStatus, ide.CmdWriteSectors)

	for s := 0; s < count; s++ {
		if err := drv.waitDataRequest(); err != nil {
			return err
		}
		drv.writeData(data[s*usbdrive.SectorSize:])
	}

	// the final sector completes asynchronously
	s, err := drv.waitNotBusy()
	if err != nil {
		return err
	}
	if s&ide.StatusError != 0 {
		e, _ := drv.mc.Read(ide.TaskOrigin + ide.RegError)
		return curated.Errorf(DriverFault, s, e)
	}

	return nil
}
