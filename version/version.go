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

// Package version holds the name and build identity of the application.
package version

import (
	"runtime/debug"
)

// The name to use when referring to the application.
const ApplicationName = "PicoVerse"

// set by the release build. an empty string means a manual build
var version string

// the vcs revision, suffixed with "+dirty" when the working tree had
// uncommitted changes at build time
var revision string

// Version returns the version string and the vcs revision. A manual build
// reports "unreleased"; a plain "go run" with no vcs information reports
// "local".
func Version() (string, string) {
	return version, revision
}

func init() {
	var vcs bool
	var vcsRevision string
	var vcsModified bool

	info, ok := debug.ReadBuildInfo()
	if ok {
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	if vcsRevision != "" {
		revision = vcsRevision
		if vcsModified {
			revision += "+dirty"
		}
	}

	if version == "" {
		if vcs {
			version = "unreleased"
		} else {
			version = "local"
		}
	}
	if revision == "" {
		revision = "no vcs information"
	}
}
