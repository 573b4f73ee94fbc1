package sources

import (
	"strings"
)

// Layout is the structure a decoded table must have before it is normalized.
type Layout struct {
	MinRows   int
	HeaderRow int
	// Columns maps column index to the expected header text, compared case
	// insensitively.
	Columns map[int]string
}

// CheckLayout returns a *FormatError when table does not match l.
func CheckLayout(source string, table [][]string, l Layout) error {
	if len(table) < l.MinRows {
		return NewFormatError(source, "got %d rows, need at least %d", len(table), l.MinRows)
	}
	if len(l.Columns) == 0 {
		return nil
	}
	if l.HeaderRow >= len(table) {
		return NewFormatError(source, "header row %d missing", l.HeaderRow)
	}

	header := table[l.HeaderRow]
	for col, want := range l.Columns {
		if col >= len(header) {
			return NewFormatError(source, "header has %d columns, expected %q at %d", len(header), want, col)
		}
		if !strings.EqualFold(strings.TrimSpace(header[col]), want) {
			return NewFormatError(source, "column %d is %q, expected %q", col, header[col], want)
		}
	}
	return nil
}
