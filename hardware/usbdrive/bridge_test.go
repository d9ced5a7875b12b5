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

package usbdrive_test

import (
	"testing"

	"github.com/PanykSystem/msx-picoverse-public-sub000/hardware/usbdrive"
	"github.com/PanykSystem/msx-picoverse-public-sub000/test"
)

// newBridge returns a bridge with a mounted 64-block memory disk. the
// bridge is serviced manually by the tests, never on a second goroutine.
func newBridge(t *testing.T, dsk usbdrive.BlockDevice) (*usbdrive.Bridge, *usbdrive.Pipes) {
	t.Helper()

	pipes := usbdrive.NewPipes()
	brd := usbdrive.NewBridge(pipes)
	brd.Attach(dsk)
	brd.Service()

	info, ok := pipes.Drive.Load()
	test.ExpectSuccess(t, ok)
	test.ExpectSuccess(t, info.Mounted)

	return brd, pipes
}

func TestMountPublishesCapacity(t *testing.T) {
	dsk := usbdrive.NewMemoryDisk(64)
	_, pipes := newBridge(t, dsk)

	info, _ := pipes.Drive.Load()
	test.Equate(t, info.Blocks, 64)
	test.Equate(t, info.Inquiry.Vendor, "PICOVERS")
}

func TestReadWriteRoundTrip(t *testing.T) {
	dsk := usbdrive.NewMemoryDisk(64)
	brd, pipes := newBridge(t, dsk)

	var req usbdrive.SectorWrite
	req.LBA = 5
	for i := range req.Data {
		req.Data[i] = byte(i)
	}
	test.ExpectSuccess(t, pipes.WriteReq.Post(req))
	brd.Service()

	ok, taken := pipes.WriteDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectSuccess(t, ok)

	test.ExpectSuccess(t, pipes.ReadReq.Post(5))
	brd.Service()

	res, taken := pipes.ReadDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectSuccess(t, res.OK)
	test.Equate(t, res.Data[0], 0)
	test.Equate(t, res.Data[255], 255)
	test.Equate(t, res.Data[511], 255)
}

func TestOutOfRangeBlock(t *testing.T) {
	dsk := usbdrive.NewMemoryDisk(64)
	brd, pipes := newBridge(t, dsk)

	pipes.ReadReq.Post(64)
	brd.Service()

	res, taken := pipes.ReadDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectFailure(t, res.OK)
}

func TestShortBlockZeroPadding(t *testing.T) {
	// a device reporting 256-byte blocks. transfers are padded to a full
	// sector with zeros
	dsk := usbdrive.NewMemoryDiskBlockSize(64, 256)

	// block 3 filled with 0xaa
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = 0xaa
	}
	dsk.WriteBlock(3, buf)

	brd, pipes := newBridge(t, dsk)

	pipes.ReadReq.Post(3)
	brd.Service()

	res, taken := pipes.ReadDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectSuccess(t, res.OK)
	test.Equate(t, res.Data[0], 0xaa)
	test.Equate(t, res.Data[255], 0xaa)
	test.Equate(t, res.Data[256], 0)
	test.Equate(t, res.Data[511], 0)
}

func TestOversizedBlockRejected(t *testing.T) {
	dsk := usbdrive.NewMemoryDiskBlockSize(16, 1024)
	brd, pipes := newBridge(t, dsk)

	pipes.ReadReq.Post(0)
	brd.Service()

	res, taken := pipes.ReadDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectFailure(t, res.OK)
}

func TestTransferFailure(t *testing.T) {
	dsk := usbdrive.NewMemoryDisk(64)
	dsk.FailReads = true
	brd, pipes := newBridge(t, dsk)

	pipes.ReadReq.Post(0)
	brd.Service()

	res, taken := pipes.ReadDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectFailure(t, res.OK)
}

func TestUnmountFailsFast(t *testing.T) {
	dsk := usbdrive.NewMemoryDisk(64)
	brd, pipes := newBridge(t, dsk)

	brd.Detach()
	brd.Service()

	info, ok := pipes.Drive.Load()
	test.ExpectSuccess(t, ok)
	test.ExpectFailure(t, info.Mounted)
	test.Equate(t, info.Blocks, 0)

	// a request posted after unmount fails without touching the device
	pipes.ReadReq.Post(0)
	brd.Service()

	res, taken := pipes.ReadDone.Take()
	test.ExpectSuccess(t, taken)
	test.ExpectFailure(t, res.OK)
}
