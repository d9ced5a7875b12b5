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

package msxbus

import "runtime"

// Handler is the device on the firmware side of the bus: the cartridge
// being emulated.
type Handler interface {
	// Access resolves a slot read. The second return value is the drive
	// decision: false means the address is not claimed and the data bus is
	// left undriven.
	Access(addr uint16) (uint8, bool)

	// Write applies a slot write.
	Write(addr uint16, data uint8)

	// Step is called once per service pass, whether or not there was bus
	// traffic. The handler polls its asynchronous completions here.
	Step()
}

// Loop is the bus event service loop. It owns the firmware side of the
// coprocessor FIFOs.
type Loop struct {
	cop     *Coprocessor
	handler Handler
}

// NewLoop is the preferred method of initialisation for the Loop type.
func NewLoop(cop *Coprocessor, handler Handler) *Loop {
	return &Loop{
		cop:     cop,
		handler: handler,
	}
}

// drainWrites applies every queued write event. Dispatch by address is the
// handler's concern; ordering is this function's concern.
func (lp *Loop) drainWrites() {
	for {
		ev, ok := lp.cop.popWrite()
		if !ok {
			return
		}
		lp.handler.Write(ev.Addr, ev.Data)
	}
}

// Step performs one pass of the service loop. Writes are drained before a
// read request is considered and again after it has been consumed: writes
// that arrived while the read was waiting must be applied first because
// they precede the read in bus order, and writes that arrive during
// resolution must not be left to accumulate. The loop never blocks on
// either FIFO.
func (lp *Loop) Step() {
	lp.drainWrites()

	if addr, ok := lp.cop.popRead(); ok {
		lp.drainWrites()

		data, drive := lp.handler.Access(addr)
		lp.cop.respond(NewToken(data, drive))

		lp.drainWrites()
	}

	lp.handler.Step()
}

// Run services the bus until the quit channel is closed. Like the firmware
// core it emulates it never sleeps, but it yields to the Go scheduler every
// pass.
func (lp *Loop) Run(quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		default:
		}
		lp.Step()
		runtime.Gosched()
	}
}
