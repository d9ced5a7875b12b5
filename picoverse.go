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

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware"
	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
	"github.com/PanykSystem/msx-picoverse-public-sub000/logger"
	"github.com/PanykSystem/msx-picoverse-public-sub000/modalflag"
	"github.com/PanykSystem/msx-picoverse-public-sub000/monitor"
	"github.com/PanykSystem/msx-picoverse-public-sub000/statsview"
	"github.com/PanykSystem/msx-picoverse-public-sub000/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "MONITOR", "DUMP")

	stats := md.AddBool("statsview", false, "run live stats server")
	log := md.AddBool("log", false, "echo log entries to stderr")
	ver := md.AddBool("version", false, "print version and exit")

	r, err := md.Parse()
	switch r {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}

	if *ver {
		v, rev := version.Version()
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, v, rev)
		os.Exit(0)
	}

	if *log {
		logger.SetEcho(os.Stderr)
	}
	if *stats {
		statsview.Launch(os.Stdout)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "MONITOR":
		err = monitorMode(md)
	case "DUMP":
		err = dump(md)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}

// storageFlags declares the flags shared by the modes that exercise the
// storage path.
type storageFlags struct {
	rom    *string
	image  *string
	blocks *uint
}

func addStorageFlags(md *modalflag.Modes) storageFlags {
	return storageFlags{
		rom:    md.AddString("rom", "", "driver ROM image presented through the flash window"),
		image:  md.AddString("image", "", "disk image to mount (default: scratch memory disk)"),
		blocks: md.AddUint("blocks", 16384, "capacity of the scratch memory disk in sectors"),
	}
}

// assemble a machine and the block device to mount on it, per the storage
// flags.
func assemble(fl storageFlags) (*hardware.Machine, usbdrive.BlockDevice, error) {
	var rom []byte
	if *fl.rom != "" {
		var err error
		rom, err = os.ReadFile(*fl.rom)
		if err != nil {
			return nil, nil, err
		}
	}

	mc, err := hardware.NewMachine(rom)
	if err != nil {
		return nil, nil, err
	}

	if *fl.image != "" {
		img, err := usbdrive.NewImageFile(*fl.image)
		if err != nil {
			return nil, nil, err
		}
		return mc, img, nil
	}

	return mc, usbdrive.NewMemoryDisk(uint32(*fl.blocks)), nil
}

// run exercises the full storage path: identify the drive, write a test
// pattern and read it back.
func run(md *modalflag.Modes) error {
	md.NewMode()
	fl := addStorageFlags(md)
	lba := md.AddUint("lba", 0, "first sector of the test area")
	sectors := md.AddInt("sectors", 16, "number of sectors to exercise")
	md.AdditionalHelp("The RUN mode drives the emulated cartridge the way the MSX-side driver would: IDENTIFY, WRITE SECTORS, READ SECTORS, verify.")

	r, err := md.Parse()
	switch r {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	mc, dev, err := assemble(fl)
	if err != nil {
		return err
	}

	quit := make(chan struct{})
	defer close(quit)
	mc.Start(quit)
	mc.Bridge.Attach(dev)

	drv := hardware.NewDriver(mc)
	drv.Enable(0)

	id, err := drv.Identify()
	if err != nil {
		return err
	}
	blocks := uint32(id[120]) | uint32(id[121])<<8 | uint32(id[122])<<16 | uint32(id[123])<<24
	fmt.Printf("drive ready: %d sectors\n", blocks)

	if *sectors < 1 || *sectors > 256 {
		return fmt.Errorf("sectors must be 1 to 256")
	}

	// a different pattern for every sector in the test area
	data := make([]byte, *sectors*usbdrive.SectorSize)
	for i := range data {
		data[i] = byte(i) ^ byte(i/usbdrive.SectorSize)
	}

	if err := drv.WriteSectors(uint32(*lba), data); err != nil {
		return err
	}
	fmt.Printf("wrote %d sectors at %d\n", *sectors, *lba)

	got, err := drv.ReadSectors(uint32(*lba), *sectors)
	if err != nil {
		return err
	}
	for i := range got {
		if got[i] != data[i] {
			return fmt.Errorf("verify failed at sector %d offset %d", *lba+uint(i/usbdrive.SectorSize), i%usbdrive.SectorSize)
		}
	}
	fmt.Printf("verified %d sectors at %d\n", *sectors, *lba)

	return nil
}

// monitorMode hands the assembled machine to the interactive monitor.
func monitorMode(md *modalflag.Modes) error {
	md.NewMode()
	fl := addStorageFlags(md)

	r, err := md.Parse()
	switch r {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	mc, dev, err := assemble(fl)
	if err != nil {
		return err
	}

	quit := make(chan struct{})
	defer close(quit)
	mc.Start(quit)
	mc.Bridge.Attach(dev)

	return monitor.NewMonitor(mc, os.Stdout).Run()
}

// dump writes a graphviz rendering of the assembled machine state. Useful
// when reasoning about what lives on which core.
func dump(md *modalflag.Modes) error {
	md.NewMode()
	fl := addStorageFlags(md)
	output := md.AddString("o", "", "write dot output to file (default: stdout)")

	r, err := md.Parse()
	switch r {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	mc, dev, err := assemble(fl)
	if err != nil {
		return err
	}

	// mount synchronously so the dump shows a populated bridge session
	mc.Bridge.Attach(dev)
	mc.Bridge.Service()
	mc.Loop.Step()

	buf := &bytes.Buffer{}
	memviz.Map(buf, mc)

	if *output == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(*output, buf.Bytes(), 0644)
}
