package fastq

import (
	"reflect"
	"strings"
	"testing"
)

func collect(t *testing.T, r *Reader) []string {
	var out []string
	for r.Next() {
		out = append(out, r.Sequence())
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}

	return out
}

func TestSequencesOnly(t *testing.T) {
	input := "@r1\nGGAAAATT\n+\nIIIIIIII\n@r2\r\nGGCCCCTT\r\n+\r\nIIIIIIII\r\n@r3\n  GGGGGGTT \n+\nIIIIIIII\n"

	r := NewReader(strings.NewReader(input))
	got := collect(t, r)

	if want := []string{"GGAAAATT", "GGCCCCTT", "GGGGGGTT"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	if r.Lines() != 12 || r.Reads() != 3 {
		t.Fatalf("Expected 12 lines and 3 reads, got %d and %d", r.Lines(), r.Reads())
	}
}

// The quality line may begin with '@' or '+'; only position matters.
func TestFramingIgnoresContent(t *testing.T) {
	input := "@r1\nACGT\n+\n@@@@\n@r2\nTTTT\n+\n++++\n"

	if got, want := collect(t, NewReader(strings.NewReader(input))), []string{"ACGT", "TTTT"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
}

func TestEmpty(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if r.Next() {
		t.Fatal("Expected no records")
	}
	if r.Reads() != 0 {
		t.Fatalf("Expected 0 reads, got %d", r.Reads())
	}
}

func TestProgress(t *testing.T) {
	var calls []int64

	r := NewReader(strings.NewReader(strings.Repeat("@r\nACGT\n+\nIIII\n", 5)))
	r.ProgressEvery = 8
	r.Progress = func(lines int64) { calls = append(calls, lines) }
	collect(t, r)

	if want := []int64{1, 9, 17}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("Expected progress at %v, got %v", want, calls)
	}
}

func TestProgressEveryLine(t *testing.T) {
	var calls []int64

	r := NewReader(strings.NewReader("@r\nACGT\n+\nIIII\n"))
	r.ProgressEvery = 1
	r.Progress = func(lines int64) { calls = append(calls, lines) }
	collect(t, r)

	if want := []int64{1, 2, 3, 4}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("Expected progress at %v, got %v", want, calls)
	}
}
