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

// Package curated is a lightweight alternative to the sentinal error
// pattern. Errors are created with the Errorf() function, which records the
// formatting pattern alongside the formatted values. The pattern then acts
// as the error's identity.
//
// The Is() function tests whether an error was created with a specific
// pattern:
//
//	const NotMounted = "usbdrive: storage not mounted"
//
//	err := curated.Errorf(NotMounted)
//	if curated.Is(err, NotMounted) {
//		...
//	}
//
// The Has() function performs the same test but walks the chain of wrapped
// values, so an error wrapped by a higher layer can still be identified.
// IsAny() says whether the error originated from this package at all.
//
// Errors wrapped with the %v verb are de-duplicated when the message is
// built. Wrapping an error with the same leading message part therefore
// does not produce a stuttering "ide: ide: ..." style message.
//
// Patterns intended for identification should be declared as const strings
// in the package that creates them.
package curated
