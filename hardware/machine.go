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
	"github.com/PanykSystem/msx-picoverse-public-sub000/curated"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/ide"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/msxbus"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
)

// Machine is the assembled firmware: one core servicing the bus, one core
// servicing storage, and the hand-off pipes between them.
type Machine struct {
	Cop    *msxbus.Coprocessor
	Loop   *msxbus.Loop
	Cart   *ide.Cartridge
	Bridge *usbdrive.Bridge
	Pipes  *usbdrive.Pipes
}

// NewMachine is the preferred method of initialisation for the Machine
// type. The ROM image is the MSX-side driver ROM presented through the
// flash window.
func NewMachine(rom []byte) (*Machine, error) {
	pipes := usbdrive.NewPipes()

	cart, err := ide.NewCartridge(rom, pipes)
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	cop := msxbus.NewCoprocessor()

	return &Machine{
		Cop:    cop,
		Loop:   msxbus.NewLoop(cop, cart),
		Cart:   cart,
		Bridge: usbdrive.NewBridge(pipes),
		Pipes:  pipes,
	}, nil
}

// Start runs the storage bridge on its own core, mirroring the dual-core
// arrangement of the firmware. The bus service loop is advanced by the
// host accessors (or by Loop.Run on a core of its own).
func (mc *Machine) Start(quit <-chan struct{}) {
	go mc.Bridge.Run(quit)
}

// Write performs one slot write cycle as the MSX would: the coprocessor
// samples the write and the service loop drains it.
func (mc *Machine) Write(addr uint16, data uint8) {
	mc.Cop.BusWrite(addr, data)
	mc.Loop.Step()
}

// Read performs one slot read cycle. The service loop responds within one
// pass, which is the emulation of the coprocessor holding the wait line
// for the duration.
func (mc *Machine) Read(addr uint16) (uint8, bool) {
	mc.Cop.BusRead(addr)
	mc.Loop.Step()

	tk, ok := mc.Cop.BusToken()
	if !ok {
		// the loop answers every read request in the pass that consumes
		// it, so this cannot happen
		return 0, false
	}
	return tk.Data(), tk.Driven()
}
