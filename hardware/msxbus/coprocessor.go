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

import "github.com/PanykSystem/msx-picoverse-public-sub000/logger"

// WriteEventDepth is the depth of the write event FIFO in the reference
// hardware.
const WriteEventDepth = 8

// DrivenPins is the drive-enable mask for a claimed read: every data bus
// pin driven. Use DrivenPins rather than 0xff. Where the cartridge does not
// claim the address the mask is zero and the bus is left undriven.
const DrivenPins = 0xff

// WriteEvent is one slot write as sampled by the coprocessor.
type WriteEvent struct {
	Addr uint16
	Data uint8
}

// Token packs the response to a read request: the data byte in bits 7:0
// and the drive-enable mask in bits 15:8.
type Token uint16

// NewToken packs a data byte and the drive decision into a Token.
func NewToken(data uint8, drive bool) Token {
	if !drive {
		return 0
	}
	return Token(data) | Token(DrivenPins)<<8
}

// Data returns the data byte carried by the token.
func (tk Token) Data() uint8 {
	return uint8(tk)
}

// Driven returns true if the token drives the data bus.
func (tk Token) Driven() bool {
	return uint8(tk>>8) != 0
}

// Coprocessor is the FIFO boundary with the bus-interface coprocessor. The
// coprocessor side of the boundary (the Bus* functions) is exercised by the
// machine's host accessors and by tests standing in for the MSX; the
// firmware side (the pop/respond functions) is owned by the Loop type.
type Coprocessor struct {
	writes *FIFO[WriteEvent]
	reads  *FIFO[uint16]
	tokens *FIFO[Token]
}

// NewCoprocessor is the preferred method of initialisation for the
// Coprocessor type.
func NewCoprocessor() *Coprocessor {
	return &Coprocessor{
		writes: NewFIFO[WriteEvent](WriteEventDepth),
		reads:  NewFIFO[uint16](1),
		tokens: NewFIFO[Token](1),
	}
}

// BusWrite queues a slot write. Returns false if the write event FIFO is
// full and the event has been dropped, which is the silent failure the
// service loop exists to prevent.
func (cop *Coprocessor) BusWrite(addr uint16, data uint8) bool {
	if !cop.writes.Push(WriteEvent{Addr: addr, Data: data}) {
		logger.Logf("msxbus", "write event dropped (%#04x = %#02x)", addr, data)
		return false
	}
	return true
}

// BusRead queues a slot read request. The coprocessor holds the wait line
// until the response token is collected with BusToken(). Returns false if a
// read is already outstanding.
func (cop *Coprocessor) BusRead(addr uint16) bool {
	return cop.reads.Push(addr)
}

// BusToken collects the response to the outstanding read request.
func (cop *Coprocessor) BusToken() (Token, bool) {
	return cop.tokens.Pop()
}

// WritesQueued returns the number of write events waiting to be serviced.
func (cop *Coprocessor) WritesQueued() int {
	return cop.writes.Len()
}

// firmware side of the boundary.

func (cop *Coprocessor) popWrite() (WriteEvent, bool) {
	return cop.writes.Pop()
}

func (cop *Coprocessor) popRead() (uint16, bool) {
	return cop.reads.Pop()
}

func (cop *Coprocessor) respond(tk Token) {
	// the response FIFO is as deep as the read request FIFO so this can
	// never fail while the wait line works as intended
	if !cop.tokens.Push(tk) {
		logger.Log("msxbus", "response token dropped")
	}
}
