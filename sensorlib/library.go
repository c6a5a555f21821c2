// Package sensorlib loads the library of known variable-region sequences
// ("sensors") that reads are classified against.
package sensorlib

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/htsensor"
	"github.com/carbocation/pfx"
)

// Entry is one sensor: an identifier and its variable-region sequence.
type Entry struct {
	ID       string
	Sequence string
}

// LoadStats summarizes what happened while building a Library.
type LoadStats struct {
	Records            int
	Loaded             int
	DuplicateIDs       int
	DuplicateSequences int
	ShortRecords       int
}

// Skipped is the number of records that did not make it into the library.
func (s LoadStats) Skipped() int {
	return s.DuplicateIDs + s.DuplicateSequences + s.ShortRecords
}

// Library maps sequences to sensors. Identifiers and sequences are both
// unique, and the library is not modified after it is built.
type Library struct {
	ids        []string
	sequences  []string
	byID       map[string]int
	bySequence map[string]int

	Stats LoadStats
}

func newLibrary() *Library {
	return &Library{
		byID:       make(map[string]int),
		bySequence: make(map[string]int),
	}
}

// FromEntries builds a library from entries in order, skipping duplicates
// with a warning exactly as Load does.
func FromEntries(entries []Entry) *Library {
	lib := newLibrary()
	for i, e := range entries {
		lib.add(e.ID, e.Sequence, i+1)
	}

	return lib
}

// add appends one record unless it is incomplete or repeats an identifier or
// a sequence already in the library.
func (l *Library) add(id, sequence string, line int) bool {
	l.Stats.Records++

	id = strings.TrimSpace(id)
	sequence = strings.ToUpper(strings.TrimSpace(sequence))

	if _, exists := l.byID[id]; exists && id != "" {
		log.Printf("Warning: duplicated sensor label %s in line %d. Skip this record.\n", id, line)
		l.Stats.DuplicateIDs++
		return false
	}

	if id == "" || sequence == "" {
		log.Printf("Warning: not enough fields in line %d. Skip this record.\n", line)
		l.Stats.ShortRecords++
		return false
	}

	if _, exists := l.bySequence[sequence]; exists {
		log.Printf("Warning: duplicated sensor sequence %s in line %d. Skip this record.\n", sequence, line)
		l.Stats.DuplicateSequences++
		return false
	}

	l.byID[id] = len(l.ids)
	l.bySequence[sequence] = len(l.ids)
	l.ids = append(l.ids, id)
	l.sequences = append(l.sequences, sequence)
	l.Stats.Loaded++

	return true
}

// Load parses a library from r. Each record holds an identifier and a
// sequence at the columns given by layout; problematic records are logged and
// skipped.
func Load(r io.Reader, layout Layout) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := layout.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
		if !everyRecordHasTab(data, layout.Comment) {
			delim = htsensor.DetermineDelimiterAmong(bytes.NewReader(data), candidateDelimiters, DefaultDelimiter)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.Comment = layout.Comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	lib := newLibrary()
	minCols := layout.minColumns()

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		line, _ := cr.FieldPos(0)

		if len(row) < minCols {
			lib.Stats.Records++
			lib.Stats.ShortRecords++
			log.Printf("Warning: not enough fields in line %d. Skip this record.\n", line)
			continue
		}

		lib.add(row[layout.ColID], row[layout.ColSequence], line)
	}

	log.Printf("Loading %d predefined sensors.\n", lib.Len())

	return lib, nil
}

// everyRecordHasTab reports whether data looks like the native tab separated
// format: every non-blank, non-comment line holds a tab. Empty data counts as
// tab separated.
func everyRecordHasTab(data []byte, comment rune) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if comment != 0 && bytes.HasPrefix(line, []byte(string(comment))) {
			continue
		}
		if bytes.IndexByte(line, '\t') < 0 {
			return false
		}
	}

	return true
}

// LoadFile opens a local or gs:// library file, which may be compressed, and
// loads it with Load. client may be nil for local files.
func LoadFile(ctx context.Context, path string, layout Layout, client *storage.Client) (*Library, error) {
	rc, _, err := htsensor.OpenSource(ctx, path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	return Load(rc, layout)
}

// Len is the number of sensors.
func (l *Library) Len() int {
	return len(l.ids)
}

// IDs returns the sensor identifiers in load order.
func (l *Library) IDs() []string {
	out := make([]string, len(l.ids))
	copy(out, l.ids)

	return out
}

func (l *Library) ID(i int) string {
	return l.ids[i]
}

func (l *Library) Sequence(i int) string {
	return l.sequences[i]
}

// Lookup satisfies classify.Library.
func (l *Library) Lookup(sequence string) (int, string, bool) {
	i, ok := l.bySequence[sequence]
	if !ok {
		return -1, "", false
	}

	return i, l.ids[i], true
}

// LengthMismatches lists the identifiers of sensors whose sequence length is
// not n. Such sensors can never be matched for a variable region of length n.
func (l *Library) LengthMismatches(n int) []string {
	var out []string
	for i, seq := range l.sequences {
		if len(seq) != n {
			out = append(out, l.ids[i])
		}
	}

	return out
}
