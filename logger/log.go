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

// Package logger is the central logging facility for the application.
// Entries are made with the package level Log() and Logf() functions and
// are tagged with the name of the subsystem making the entry.
//
// The log is kept in memory. Write() and Tail() copy the accumulated
// entries to an io.Writer. SetEcho() additionally copies every new entry
// to a writer as it is made, which is useful for command line operation.
//
// Consecutive identical entries are folded into one entry with a repeat
// count, which matters for entries made from a polling loop.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// maximum number of entries kept in the central log.
const maxEntries = 256

// there is only one log for the entire application.
type central struct {
	crit    sync.Mutex
	entries []Entry
	echo    io.Writer
}

var log central

// Log adds an entry to the central log.
func Log(tag, detail string) {
	log.crit.Lock()
	defer log.crit.Unlock()

	// newlines would break the one-entry-per-line promise of Write()
	tag = strings.ReplaceAll(tag, "\n", " ")
	detail = strings.ReplaceAll(detail, "\n", " ")

	if len(log.entries) > 0 {
		e := &log.entries[len(log.entries)-1]
		if e.Tag == tag && e.Detail == detail {
			e.repeated++
			e.Timestamp = time.Now()
			return
		}
	}

	log.entries = append(log.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
	if len(log.entries) > maxEntries {
		log.entries = log.entries[len(log.entries)-maxEntries:]
	}

	if log.echo != nil {
		io.WriteString(log.echo, log.entries[len(log.entries)-1].String())
	}
}

// Logf adds a formatted entry to the central log.
func Logf(tag, detail string, args ...interface{}) {
	Log(tag, fmt.Sprintf(detail, args...))
}

// Clear all entries from the central log.
func Clear() {
	log.crit.Lock()
	defer log.crit.Unlock()
	log.entries = log.entries[:0]
}

// Write the contents of the central log to the io.Writer.
func Write(output io.Writer) {
	log.crit.Lock()
	defer log.crit.Unlock()
	for _, e := range log.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last number of entries to the io.Writer.
func Tail(output io.Writer, number int) {
	log.crit.Lock()
	defer log.crit.Unlock()

	if number > len(log.entries) {
		number = len(log.entries)
	}
	for _, e := range log.entries[len(log.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho copies every future entry to the io.Writer as it is made. A nil
// writer turns echoing off.
func SetEcho(output io.Writer) {
	log.crit.Lock()
	defer log.crit.Unlock()
	log.echo = output
}
