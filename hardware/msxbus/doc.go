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

// Package msxbus models the boundary between the firmware and the
// bus-interface coprocessor that samples the MSX cartridge slot. The
// coprocessor itself is fixed-function hardware outside this project; what
// is modelled here is its FIFO interface and the service loop on the
// firmware side of that interface.
//
// The coprocessor raises three kinds of traffic:
//
//   - a write event for every slot write (address and data byte)
//   - a read request for every slot read (address only). The coprocessor
//     holds the MSX wait line asserted until a response token arrives
//   - the response token, carrying the data byte and a drive-enable mask
//     for the data bus pins. A zero mask means the address is not claimed
//     and the bus is left undriven
//
// The write event FIFO is eight entries deep, matching the reference
// hardware. An overflow silently drops a write, and a dropped register
// write corrupts the emulated command stream with no detectable symptom.
// The Loop type therefore treats draining the write FIFO as a liveness
// requirement: writes are drained on every pass and again on both sides of
// read resolution, so the FIFO can never sit full while the loop is busy
// with a read. A single ATA command arrives as a burst of up to ten writes
// with no interleaved read; a loop that blocked waiting for reads would
// overflow mid-burst.
package msxbus
