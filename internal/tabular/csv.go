package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// csvSource streams records from a CSV payload. Quoted fields with embedded
// commas and doubled-quote escapes are handled by encoding/csv, which also
// accepts CRLF line endings natively. Only a CR-only file (no LF at all) is
// rewritten; everything else is parsed as-is so quoted field content is
// never altered.
type csvSource struct {
	r *csv.Reader
}

func newCSVSource(data []byte) *csvSource {
	if bytes.ContainsRune(data, '\r') && !bytes.ContainsRune(data, '\n') {
		data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // column counts are checked by the validator
	r.LazyQuotes = true

	return &csvSource{r: r}
}

func (s *csvSource) Next() ([]string, bool, error) {
	fields, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fileErr(fmt.Sprintf("malformed CSV: %v", err))
	}
	return fields, true, nil
}
