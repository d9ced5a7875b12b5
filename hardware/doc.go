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

// Package hardware ties the emulated firmware together: the bus-interface
// coprocessor and its service loop, the IDE cartridge, and the USB storage
// bridge on the second core. The Machine type also provides the host's
// view of the cartridge slot, so that a harness (or a test) can play the
// part of the MSX.
package hardware
