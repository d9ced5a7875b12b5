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

// Package ide emulates a Sunrise-style IDE cartridge: a single ATA device
// behind the register windows of a 16KiB MSX cartridge page, with a flash
// ROM occupying the rest of the page.
//
// The Cartridge type implements the msxbus.Handler interface. Slot writes
// mutate the shadow register file and may start a command; slot reads
// resolve to the control window (always flash data), the 16-bit data port
// or the task-file block, depending on the address and whether the IDE
// overlay is enabled.
//
// ATA commands that need storage post single-sector requests to the USB
// bridge on the other core and park the device in the Busy state. The
// completion is consumed by Step(), which the bus event loop calls once per
// service pass. Nothing in this package ever blocks: a wedged transfer
// leaves the device Busy, which the MSX-side driver observes as a
// non-responding drive until its own timeout fires.
//
// Only the command subset a real MSX IDE driver issues is implemented.
// Unknown commands abort, exactly as a real drive would report them.
package ide
