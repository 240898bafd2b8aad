package tabular

import (
	"bytes"
	"fmt"

	"github.com/shakinm/xlsReader/xls"
)

// xlsSource yields rows from the first sheet of a legacy BIFF workbook,
// with the same display-string and row-width semantics as the XLSX source.
type xlsSource struct {
	rows [][]string
	pos  int
}

func newXLSSource(data []byte) (*xlsSource, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fileErr(fmt.Sprintf("invalid XLS file: %v", err))
	}

	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fileErr("workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i < sheet.GetNumberRows(); i++ {
		r, err := sheet.GetRow(i)
		if err != nil || r == nil {
			rows = append(rows, nil) // gap in the sheet, treated as blank
			continue
		}
		var fields []string
		for _, cell := range r.GetCols() {
			fields = append(fields, cell.GetString())
		}
		rows = append(rows, trimTrailingEmpty(fields))
	}
	return &xlsSource{rows: rows}, nil
}

func (s *xlsSource) Next() ([]string, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	fields := s.rows[s.pos]
	s.pos++
	return fields, true, nil
}
