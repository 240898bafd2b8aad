package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// xlsxSource yields rows from the first sheet of a zip-based workbook.
// Cell values come back as formatted display strings, so a numeric cell and
// a text cell holding the same characters validate identically. Row width is
// the last populated cell index.
type xlsxSource struct {
	rows [][]string
	pos  int
}

func newXLSXSource(data []byte) (*xlsxSource, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fileErr(fmt.Sprintf("invalid XLSX file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fileErr("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fileErr(fmt.Sprintf("invalid XLSX file: %v", err))
	}
	return &xlsxSource{rows: rows}, nil
}

func (s *xlsxSource) Next() ([]string, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	fields := trimTrailingEmpty(s.rows[s.pos])
	s.pos++
	return fields, true, nil
}

// trimTrailingEmpty cuts empty cells after the last populated one, so the
// effective column count matches the last populated cell index.
func trimTrailingEmpty(fields []string) []string {
	end := len(fields)
	for end > 0 && fields[end-1] == "" {
		end--
	}
	return fields[:end]
}
