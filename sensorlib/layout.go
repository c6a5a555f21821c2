package sensorlib

import (
	"fmt"
	"sort"
	"strings"
)

// Layout describes where the identifier and the sequence live in a library
// file. A zero Delimiter asks the loader to use a tab when every record holds
// one, and to sniff the delimiter from the content otherwise.
type Layout struct {
	Delimiter   rune
	Comment     rune
	ColID       int
	ColSequence int
}

// DefaultDelimiter is used when sniffing finds nothing convincing. The
// original library format is tab separated.
const DefaultDelimiter = '\t'

// candidateDelimiters are the only delimiters the AUTO layout will pick.
const candidateDelimiters = "\t,;| "

var Layouts = map[string]Layout{
	"AUTO": {
		Comment:     '#',
		ColID:       0,
		ColSequence: 1,
	},
	"TSV": {
		Delimiter:   '\t',
		Comment:     '#',
		ColID:       0,
		ColSequence: 1,
	},
	"CSV": {
		Delimiter:   ',',
		Comment:     '#',
		ColID:       0,
		ColSequence: 1,
	},
}

// LayoutByName looks up one of the predefined layouts, ignoring case.
func LayoutByName(name string) (Layout, error) {
	l, exists := Layouts[strings.ToUpper(name)]
	if !exists {
		return l, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}

	return l, nil
}

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func (l Layout) minColumns() int {
	if l.ColID > l.ColSequence {
		return l.ColID + 1
	}

	return l.ColSequence + 1
}
