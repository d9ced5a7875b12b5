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

// State is the transfer phase of the emulated device.
type State int

// List of valid State values. Idle is the power-on state. Busy means a USB
// operation (or the mount the device is waiting for) has not yet completed.
const (
	Idle State = iota
	ReadData
	WriteData
	Busy
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ReadData:
		return "read data"
	case WriteData:
		return "write data"
	case Busy:
		return "busy"
	}
	return "unknown"
}
