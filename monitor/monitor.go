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

// Package monitor is a single-key console for poking at a running machine.
// It plays the part of the MSX: every key maps to a command sequence the
// real driver would issue through the cartridge slot.
package monitor

import (
	"fmt"
	"io"

	"github.com/pkg/term"

	"github.com/PanykSystem/msx-picoverse-public-sub000/curated"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware"
	"github.com/PanykSystem/msx-picoverse-public-sub000/logger"
)

// error patterns for the Monitor type.
const TerminalError = "monitor: %v"

// Monitor couples a terminal in cbreak mode to an ATA driver.
type Monitor struct {
	mc  *hardware.Machine
	drv *hardware.Driver
	out io.Writer

	// the sector the next read command targets
	sector uint32
}

// NewMonitor is the preferred method of initialisation for the Monitor
// type.
func NewMonitor(mc *hardware.Machine, out io.Writer) *Monitor {
	return &Monitor{
		mc:  mc,
		drv: hardware.NewDriver(mc),
		out: out,
	}
}

// Run the monitor until the quit key. The controlling terminal is placed
// in cbreak mode for the duration.
func (mon *Monitor) Run() error {
	t, err := term.Open("/dev/tty")
	if err != nil {
		return curated.Errorf(TerminalError, err)
	}
	defer t.Restore()

	if err := term.CBreakMode(t); err != nil {
		return curated.Errorf(TerminalError, err)
	}

	mon.drv.Enable(0)
	mon.help()

	buf := make([]byte, 1)
	for {
		n, err := t.Read(buf)
		if err != nil {
			return curated.Errorf(TerminalError, err)
		}
		if n == 0 {
			continue
		}

		switch buf[0] {
		case 'q', 0x03: // ctrl-c
			fmt.Fprintln(mon.out)
			return nil
		case 'h', '?':
			mon.help()
		case 'i':
			mon.identify()
		case 'r':
			mon.readSector()
		case 'n':
			mon.sector++
			fmt.Fprintf(mon.out, "sector %d\n", mon.sector)
		case 'p':
			if mon.sector > 0 {
				mon.sector--
			}
			fmt.Fprintf(mon.out, "sector %d\n", mon.sector)
		case 's':
			mon.registers()
		case 'l':
			logger.Tail(mon.out, 10)
		}
	}
}

func (mon *Monitor) help() {
	fmt.Fprint(mon.out, `i  identify device
r  read current sector
n  next sector
p  previous sector
s  register dump
l  recent log entries
q  quit
`)
}

func (mon *Monitor) identify() {
	id, err := mon.drv.Identify()
	if err != nil {
		fmt.Fprintf(mon.out, "%v\n", err)
		return
	}

	// model string, words 27 to 46, first character of each pair in the
	// high byte
	model := make([]byte, 40)
	for i := 0; i < 20; i++ {
		model[i*2] = id[(27+i)*2+1]
		model[i*2+1] = id[(27+i)*2]
	}

	blocks := uint32(id[120]) | uint32(id[121])<<8 | uint32(id[122])<<16 | uint32(id[123])<<24

	fmt.Fprintf(mon.out, "model: %s\n", model)
	fmt.Fprintf(mon.out, "capacity: %d sectors (%d bytes)\n", blocks, int64(blocks)*512)
}

func (mon *Monitor) readSector() {
	data, err := mon.drv.ReadSectors(mon.sector, 1)
	if err != nil {
		fmt.Fprintf(mon.out, "%v\n", err)
		return
	}

	fmt.Fprintf(mon.out, "sector %d\n", mon.sector)
	hexDump(mon.out, data)
}

func (mon *Monitor) registers() {
	regs := mon.mc.Cart.Registers()
	fmt.Fprintf(mon.out, "status %02x  error %02x  %s\n", regs.Status, regs.Error, regs.State)
	fmt.Fprintf(mon.out, "count %02x  sector %02x  cyl %02x%02x  dev/head %02x\n",
		regs.SectorCount, regs.Sector, regs.CylinderHigh, regs.CylinderLow, regs.DeviceHead)
	fmt.Fprintf(mon.out, "segment %d  ide %v\n", regs.Segment, regs.Enabled)
}

func hexDump(w io.Writer, data []byte) {
	for o := 0; o < len(data); o += 16 {
		fmt.Fprintf(w, "%04x  ", o)

		end := o + 16
		if end > len(data) {
			end = len(data)
		}

		for i := o; i < end; i++ {
			fmt.Fprintf(w, "%02x ", data[i])
		}
		fmt.Fprint(w, " ")
		for i := o; i < end; i++ {
			if data[i] >= 0x20 && data[i] < 0x7f {
				fmt.Fprintf(w, "%c", data[i])
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprintln(w)
	}
}
