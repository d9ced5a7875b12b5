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

// Step implements the msxbus.Handler interface. Called once per bus
// service pass, it consumes whatever the bridge has published since the
// last pass: mount state first, then at most one read and one write
// completion. It never blocks.
func (cart *Cartridge) Step() {
	if info, ok := cart.pipes.Drive.Load(); ok {
		wasMounted := cart.drive.Mounted
		cart.drive = info

		if info.Mounted && !wasMounted {
			logger.Logf("ide", "drive ready (%d blocks)", info.Blocks)
			if cart.identifyPending {
				// the IDENTIFY the host has been polling on can now
				// complete. no host retry is required
				cart.identifyPending = false
				cart.stageIdentify()
			}
		}

		if !info.Mounted && wasMounted && cart.state != Idle {
			logger.Log("ide", "drive unmounted mid-command")
			cart.abort()
		}
	}

	if res, ok := cart.pipes.ReadDone.Take(); ok {
		switch {
		case cart.state != Busy:
			// the command this completion answers has already been
			// abandoned, by unmount or reset
			logger.Log("ide", "stale read completion discarded")
		case res.OK:
			cart.buffer.fill(res.Data[:])
			cart.latchValid = false
			cart.errorReg = 0
			cart.status = StatusReady | StatusSeekComplete | StatusDataRequest
			cart.state = ReadData
		default:
			cart.abort()
		}
	}

	if ok, taken := cart.pipes.WriteDone.Take(); taken {
		switch {
		case cart.state != Busy:
			logger.Log("ide", "stale write completion discarded")
		case ok:
			if cart.sectorsRemaining > 0 {
				cart.sectorsRemaining--
				cart.incrementLBA()
				cart.buffer.stage()
				cart.status = StatusReady | StatusSeekComplete | StatusDataRequest
				cart.state = WriteData
			} else {
				cart.status = StatusReady | StatusSeekComplete
				cart.state = Idle
			}
		default:
			cart.abort()
		}
	}
}
