// Package fastq streams the sequence lines out of four-line FASTQ records.
// Records are header, sequence, separator and quality lines; only the framing
// is relied upon, the content of the other lines is never inspected.
package fastq

import (
	"bufio"
	"io"
	"strings"
)

const (
	linesPerRecord = 4
	sequenceLine   = 2 // 1-based position of the sequence within a record

	maxLineBytes = 16 * 1024 * 1024
)

// Reader yields one read sequence per record.
type Reader struct {
	sc    *bufio.Scanner
	lines int64
	reads int64
	seq   string

	// If Progress is set, it is called with the running line count on lines
	// 1, ProgressEvery+1, 2*ProgressEvery+1, ...
	ProgressEvery int64
	Progress      func(lines int64)
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Reader{sc: sc}
}

// Next advances to the next record. It returns false at the end of the stream
// or on error; check Err afterwards.
func (r *Reader) Next() bool {
	for r.sc.Scan() {
		r.lines++

		if r.Progress != nil && r.ProgressEvery > 0 && (r.lines-1)%r.ProgressEvery == 0 {
			r.Progress(r.lines)
		}

		if r.lines%linesPerRecord == sequenceLine {
			r.seq = strings.TrimSpace(r.sc.Text())
			r.reads++
			return true
		}
	}

	return false
}

// Sequence is the read of the current record.
func (r *Reader) Sequence() string {
	return r.seq
}

// Lines is the number of lines consumed so far.
func (r *Reader) Lines() int64 {
	return r.lines
}

// Reads is the number of records seen so far.
func (r *Reader) Reads() int64 {
	return r.reads
}

func (r *Reader) Err() error {
	return r.sc.Err()
}
