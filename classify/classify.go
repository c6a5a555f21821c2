// Package classify assigns a sequencing read to a library sensor by locating
// the variable region between two anchor sequences on either strand.
package classify

import "fmt"

type Outcome uint8

const (
	Unknown Outcome = iota
	SynthesisError
	Matched
)

func (o Outcome) String() string {
	switch o {
	case Unknown:
		return "unknown"
	case SynthesisError:
		return "synthesis error"
	case Matched:
		return "matched"
	}

	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Result is the classification of one read. Sensor and ID are only set when
// Outcome is Matched.
type Result struct {
	Outcome Outcome
	Sensor  int    // index of the sensor in the library
	ID      string // sensor identifier
}

// Library resolves a variable-region sequence to a sensor.
type Library interface {
	Lookup(sequence string) (index int, id string, ok bool)
}

// Classifier holds the per-run constants needed to classify reads.
type Classifier struct {
	Prefix      string
	Suffix      string
	VariableLen int
	Library     Library
}

func (c Classifier) Classify(read string) Result {
	return Classify(read, c.Prefix, c.Suffix, c.VariableLen, c.Library)
}

// Classify looks for prefix...suffix pairs on the read and then on its
// reverse complement. A pair whose gap equals variableLen and whose enclosed
// sequence is in the library is an immediate match. A pair whose gap lies
// strictly within 5% of variableLen marks the read as a synthesis error unless
// a match turns up later. Everything else is unknown.
//
// Every (prefix, suffix) occurrence pair is visited, so the cost per read is
// quadratic in the number of anchor occurrences.
func Classify(read, prefix, suffix string, variableLen int, lib Library) Result {
	synthesisError := false

	for _, seq := range [2]string{read, ReverseComplement(read)} {
		res, nearMiss := scan(seq, prefix, suffix, variableLen, lib)
		if res.Outcome == Matched {
			return res
		}
		synthesisError = synthesisError || nearMiss
	}

	if synthesisError {
		return Result{Outcome: SynthesisError}
	}

	return Result{Outcome: Unknown}
}

// scan evaluates one orientation. nearMiss reports whether any pair had a gap
// inside the tolerance band.
func scan(seq, prefix, suffix string, variableLen int, lib Library) (res Result, nearMiss bool) {
	prefixes := Occurrences(seq, prefix)
	if len(prefixes) == 0 {
		return
	}
	suffixes := Occurrences(seq, suffix)

	lo, hi := 0.95*float64(variableLen), 1.05*float64(variableLen)

	for _, p0 := range prefixes {
		for _, p1 := range suffixes {
			if p1 < p0 {
				continue
			}

			gap := p1 - p0 - len(prefix)
			if g := float64(gap); g > lo && g < hi {
				nearMiss = true
			}

			if gap != variableLen {
				continue
			}

			if idx, id, ok := lib.Lookup(seq[p1-variableLen : p1]); ok {
				return Result{Outcome: Matched, Sensor: idx, ID: id}, nearMiss
			}
		}
	}

	return
}

// Occurrences returns every offset at which pattern occurs in s, including
// overlapping occurrences.
func Occurrences(s, pattern string) []int {
	var out []int
	for i := 0; i+len(pattern) <= len(s); i++ {
		if s[i:i+len(pattern)] == pattern {
			out = append(out, i)
		}
	}

	return out
}
