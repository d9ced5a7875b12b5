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
	"os"
	"path/filepath"
	"strings"

	"github.com/PanykSystem/msx-picoverse-public-sub000/curated"
)

// error patterns for the ImageFile type.
const (
	ImageOpenError = "imagefile: %v"
	ImageTooSmall  = "imagefile: %s: smaller than one sector"
)

// ImageFile is a BlockDevice backed by a disk image file. Blocks are
// always sector sized.
type ImageFile struct {
	file   *os.File
	blocks uint32
	inq    Inquiry
}

// NewImageFile opens the disk image at the specified path. Any partial
// sector at the end of the file is ignored.
func NewImageFile(path string) (*ImageFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, curated.Errorf(ImageOpenError, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, curated.Errorf(ImageOpenError, err)
	}
	if fi.Size() < SectorSize {
		f.Close()
		return nil, curated.Errorf(ImageTooSmall, path)
	}

	// the product string is derived from the image filename, mirroring
	// what a real USB stick reports about itself
	product := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if len(product) > 16 {
		product = product[:16]
	}

	return &ImageFile{
		file:   f,
		blocks: uint32(fi.Size() / SectorSize),
		inq: Inquiry{
			Vendor:   "PICOVERS",
			Product:  product,
			Revision: "1.00",
		},
	}, nil
}

// Close the underlying image file.
func (img *ImageFile) Close() error {
	return img.file.Close()
}

// BlockSize implements the BlockDevice interface.
func (img *ImageFile) BlockSize() uint32 {
	return SectorSize
}

// BlockCount implements the BlockDevice interface.
func (img *ImageFile) BlockCount() uint32 {
	return img.blocks
}

// ReadBlock implements the BlockDevice interface.
func (img *ImageFile) ReadBlock(lba uint32, buf []byte) error {
	if lba >= img.blocks {
		return curated.Errorf(BlockOutOfRange, lba)
	}
	_, err := img.file.ReadAt(buf, int64(lba)*SectorSize)
	return err
}

// WriteBlock implements the BlockDevice interface.
func (img *ImageFile) WriteBlock(lba uint32, data []byte) error {
	if lba >= img.blocks {
		return curated.Errorf(BlockOutOfRange, lba)
	}
	_, err := img.file.WriteAt(data, int64(lba)*SectorSize)
	return err
}

// Inquiry implements the BlockDevice interface.
func (img *ImageFile) Inquiry() Inquiry {
	return img.inq
}
