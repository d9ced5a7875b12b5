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

// Package usbdrive is the second-core half of the storage emulation. The
// Bridge type owns the USB mass-storage session and services single-sector
// read and write requests posted by the IDE register machine on the other
// core. Requests and completions travel through the hand-off types in the
// Pipes struct; the bridge never calls into the IDE machine and the IDE
// machine never calls into the bridge.
//
// The BlockDevice interface stands in for the USB host stack's view of an
// attached mass-storage unit. MemoryDisk and ImageFile are the two
// implementations: the former backs tests, the latter backs a disk image
// file on the filesystem.
//
// Attach() and Detach() play the part of the USB host stack's mount and
// unmount callbacks. On attach the bridge performs the capacity and
// identification inquiry before publishing the drive as usable. On detach
// the session is invalidated immediately so that an in-flight request fails
// fast instead of reading stale geometry.
package usbdrive
