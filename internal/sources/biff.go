package sources

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// decodeBIFF reads the first sheet of a legacy BIFF/OLE2 workbook. Rows the
// file does not record come back empty, and trailing empty cells are cut as
// GetRows does for OOXML.
func decodeBIFF(source string, body []byte) (rows [][]string, err error) {
	// the reader panics on truncated streams
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, &FormatError{Source: source, Reason: "corrupt BIFF workbook", Cause: fmt.Errorf("%v", r)}
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(body), "utf-8")
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "cannot open BIFF workbook", Cause: err}
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, NewFormatError(source, "BIFF workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, NewFormatError(source, "BIFF workbook has no sheets")
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, trimTrailing(cells))
	}
	return trimTrailingRows(rows), nil
}

func trimTrailing(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

func trimTrailingRows(rows [][]string) [][]string {
	n := len(rows)
	for n > 0 && len(rows[n-1]) == 0 {
		n--
	}
	return rows[:n]
}
