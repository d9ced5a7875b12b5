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

package usbdrive

import (
	"runtime"

	"github.com/PanykSystem/msx-picoverse-public-sub000/logger"
)

// session is the bridge's record of the currently mounted device. It is
// owned entirely by the bridge core and is invalidated the moment the
// device unmounts.
type session struct {
	mounted    bool
	dev        BlockDevice
	blockCount uint32
	blockSize  uint32
	inquiry    Inquiry

	// transfer buffers. one for each direction
	readBuf  [SectorSize]byte
	writeBuf [SectorSize]byte
}

func (s *session) invalidate() {
	s.mounted = false
	s.dev = nil
	s.blockCount = 0
	s.blockSize = 0
	s.inquiry = Inquiry{}
}

// Bridge services sector requests from the IDE register machine against the
// mounted block device. It runs on its own core: the only way in is the
// Pipes struct and the Attach()/Detach() mount notifications.
type Bridge struct {
	pipes   *Pipes
	session session

	// mount/unmount notifications. a nil device means unmount
	plug chan BlockDevice
}

// NewBridge is the preferred method of initialisation for the Bridge type.
func NewBridge(pipes *Pipes) *Bridge {
	return &Bridge{
		pipes: pipes,
		plug:  make(chan BlockDevice, 8),
	}
}

// Attach notifies the bridge that a mass-storage device has been mounted.
// The equivalent of the USB host stack's mount callback.
func (brd *Bridge) Attach(dev BlockDevice) {
	brd.plug <- dev
}

// Detach notifies the bridge that the mass-storage device has been
// unmounted.
func (brd *Bridge) Detach() {
	brd.plug <- nil
}

// Run services the bridge until the quit channel is closed. It never
// sleeps, matching the firmware core it emulates, but it does yield to the
// Go scheduler every pass.
func (brd *Bridge) Run(quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		default:
		}
		brd.Service()
		runtime.Gosched()
	}
}

// Service performs one pass of the bridge loop: mount state changes first,
// then at most one pending sector transfer. Exported so that tests can run
// the bridge deterministically without a second goroutine.
func (brd *Bridge) Service() {
	select {
	case dev := <-brd.plug:
		if dev == nil {
			brd.unmount()
		} else {
			brd.mount(dev)
		}
	default:
	}

	// one transfer at a time. a read and a write are never in flight
	// together
	if lba, ok := brd.pipes.ReadReq.Take(); ok {
		brd.readSector(lba)
		return
	}
	if req, ok := brd.pipes.WriteReq.Take(); ok {
		brd.writeSector(req)
		return
	}
}

// mount performs the capacity and identification inquiry before the drive
// is published as usable.
func (brd *Bridge) mount(dev BlockDevice) {
	brd.session = session{
		mounted:    true,
		dev:        dev,
		blockCount: dev.BlockCount(),
		blockSize:  dev.BlockSize(),
		inquiry:    dev.Inquiry(),
	}

	brd.pipes.Drive.Publish(DriveInfo{
		Mounted: true,
		Blocks:  brd.session.blockCount,
		Inquiry: brd.session.inquiry,
	})

	logger.Logf("usbdrive", "mounted %s %s (%d blocks of %d bytes)",
		brd.session.inquiry.Vendor, brd.session.inquiry.Product,
		brd.session.blockCount, brd.session.blockSize)
}

func (brd *Bridge) unmount() {
	brd.session.invalidate()
	brd.pipes.Drive.Publish(DriveInfo{})
	logger.Log("usbdrive", "unmounted")
}

// checkTransfer is the guard applied before any transfer touches the
// device. It never issues a transfer for an out-of-range block or an
// unusable block size.
func (brd *Bridge) checkTransfer(lba uint32) bool {
	if !brd.session.mounted {
		logger.Log("usbdrive", "transfer requested with no device mounted")
		return false
	}
	if lba >= brd.session.blockCount {
		logger.Logf("usbdrive", "block %d beyond device capacity (%d)", lba, brd.session.blockCount)
		return false
	}
	if brd.session.blockSize == 0 || brd.session.blockSize > SectorSize {
		logger.Logf("usbdrive", "unusable block size (%d)", brd.session.blockSize)
		return false
	}
	return true
}

func (brd *Bridge) readSector(lba uint32) {
	if !brd.checkTransfer(lba) {
		brd.completeRead(SectorResult{})
		return
	}

	err := brd.session.dev.ReadBlock(lba, brd.session.readBuf[:brd.session.blockSize])
	if err != nil {
		logger.Logf("usbdrive", "read block %d: %v", lba, err)
		brd.completeRead(SectorResult{})
		return
	}

	// blocks shorter than a sector are zero-padded. the result value is
	// freshly zeroed so copying the transferred bytes is sufficient
	res := SectorResult{OK: true}
	copy(res.Data[:], brd.session.readBuf[:brd.session.blockSize])
	brd.completeRead(res)
}

func (brd *Bridge) writeSector(req SectorWrite) {
	if !brd.checkTransfer(req.LBA) {
		brd.completeWrite(false)
		return
	}

	copy(brd.session.writeBuf[:], req.Data[:])
	err := brd.session.dev.WriteBlock(req.LBA, brd.session.writeBuf[:brd.session.blockSize])
	if err != nil {
		logger.Logf("usbdrive", "write block %d: %v", req.LBA, err)
		brd.completeWrite(false)
		return
	}

	brd.completeWrite(true)
}

func (brd *Bridge) completeRead(res SectorResult) {
	if !brd.pipes.ReadDone.Post(res) {
		// the register machine takes every completion before issuing
		// another request so the slot can never be occupied here
		logger.Log("usbdrive", "read completion slot occupied")
	}
}

func (brd *Bridge) completeWrite(ok bool) {
	if !brd.pipes.WriteDone.Post(ok) {
		logger.Log("usbdrive", "write completion slot occupied")
	}
}
