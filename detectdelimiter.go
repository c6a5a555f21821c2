package htsensor

import (
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. If nothing stands out,
// fallback is returned.
func DetermineDelimiter(r io.Reader, fallback rune) rune {
	return DetermineDelimiterAmong(r, "", fallback)
}

// DetermineDelimiterAmong is like DetermineDelimiter but only accepts
// candidates that appear in allowed. An empty allowed accepts anything. This
// keeps characters such as '_' that repeat in every identifier from being
// mistaken for the delimiter.
func DetermineDelimiterAmong(r io.Reader, allowed string, fallback rune) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	for _, candidate := range delimiters {
		if len(candidate) == 0 {
			continue
		}
		delim := rune(candidate[0])
		if allowed == "" || strings.ContainsRune(allowed, delim) {
			return delim
		}
	}

	return fallback
}
