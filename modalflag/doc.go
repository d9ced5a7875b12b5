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

// Package modalflag layers sub-modes on top of the flag package from the
// standard library. A program using it parses the command line in rounds:
// each round declares its flags and the sub-modes it accepts, calls
// Parse(), and inspects Mode() to decide what the next round looks like.
//
//	var md modalflag.Modes
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "MONITOR")
//	r, err := md.Parse()
//
// Sub-mode matching is case insensitive and the first sub-mode declared is
// the default when the user names none.
package modalflag
