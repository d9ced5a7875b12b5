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
	"github.com/PanykSystem/msx-picoverse-public-sub000/logger"
)

// command executes a write to the command register.
func (cart *Cartridge) command(cmd uint8) {
	// the reset commands execute whichever unit is selected
	switch cmd {
	case CmdDeviceReset, CmdDeviceDiagnostic:
		cart.signatureReset()
		return
	}

	// we emulate the first unit on the cable. commands addressed to the
	// second unit abort
	if cart.deviceHead&DeviceSlave == DeviceSlave {
		cart.abort()
		return
	}

	switch cmd {
	case CmdRecalibrate, CmdInitParams, CmdSetFeatures:
		// accepted and ignored. real drives on this bus have nothing to
		// recalibrate and the geometry is fixed
		cart.errorReg = 0
		cart.status = StatusReady | StatusSeekComplete
		cart.state = Idle

	case CmdIdentify:
		if !cart.drive.Mounted {
			// the MSX-side driver polls for readiness for several seconds
			// after power-on. the mount usually completes within that
			// window, so hold the host off with BSY instead of aborting
			cart.identifyPending = true
			cart.status = StatusBusy
			cart.state = Busy
			return
		}
		cart.stageIdentify()

	case CmdReadSectors:
		if !cart.drive.Mounted {
			cart.abort()
			return
		}
		cart.errorReg = 0
		cart.latchValid = false
		cart.sectorsRemaining = cart.transferCount() - 1
		cart.requestRead()

	case CmdWriteSectors:
		if !cart.drive.Mounted {
			cart.abort()
			return
		}
		cart.errorReg = 0
		cart.latchValid = false
		cart.sectorsRemaining = cart.transferCount() - 1
		cart.buffer.stage()
		cart.status = StatusReady | StatusSeekComplete | StatusDataRequest
		cart.state = WriteData

	default:
		logger.Logf("ide", "unknown command (%#02x)", cmd)
		cart.abort()
	}
}

// stageIdentify builds the identification block from the mounted drive and
// presents it for reading.
func (cart *Cartridge) stageIdentify() {
	id := buildIdentify(cart.drive)
	cart.buffer.fill(id[:])
	cart.latchValid = false
	cart.sectorsRemaining = 0
	cart.errorReg = 0
	cart.status = StatusReady | StatusSeekComplete | StatusDataRequest
	cart.state = ReadData
}

// transferCount interprets the sector count register: zero asks for the
// maximum of 256 sectors.
func (cart *Cartridge) transferCount() int {
	if cart.sectorCount == 0 {
		return 256
	}
	return int(cart.sectorCount)
}

// abort ends the current command with the aborted error code. every error
// path leads here and leaves the device ready for the next command.
func (cart *Cartridge) abort() {
	cart.status = StatusReady | StatusError
	cart.errorReg = ErrorAborted
	cart.latchValid = false
	cart.buffer.clear()
	cart.sectorsRemaining = 0
	cart.identifyPending = false
	cart.state = Idle
}
