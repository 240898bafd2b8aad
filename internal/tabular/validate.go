// Package tabular validates member-record uploads against the fixed MPFC
// schema. CSV, legacy XLS and XLSX containers all feed the same rule set
// through a small row-source abstraction; only the parsing differs per
// format.
package tabular

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// expectedHeader is the required header, exact order, case-sensitive.
var expectedHeader = []string{
	"MemberID", "FullName", "Address", "AccountNumber", "Balance", "LastTransactionDate",
}

var accountNumberRe = regexp.MustCompile(`^[0-9]{8,16}$`)

// Record is one validated member row. The set of records exists only for
// the duration of a validation pass; the original bytes are what get stored.
type Record struct {
	MemberID            string
	FullName            string
	Address             string
	AccountNumber       string
	Balance             float64
	LastTransactionDate time.Time
}

// rowSource yields the rows of one tabular payload as display strings,
// header first. A zero-length row marks a blank row. ok is false once the
// source is exhausted.
type rowSource interface {
	Next() (fields []string, ok bool, err error)
}

func openSource(data []byte, format Format) (rowSource, error) {
	switch format {
	case FormatCSV:
		return newCSVSource(data), nil
	case FormatXLS:
		return newXLSSource(data)
	case FormatXLSX:
		return newXLSXSource(data)
	default:
		return nil, fmt.Errorf("format %q is not tabular", format)
	}
}

// Validate parses data according to format and checks it against the member
// record schema. It fails fast on the first violation with a
// *ValidationError carrying the 1-based data-row number and field. Blank
// rows are skipped and not counted.
func Validate(data []byte, format Format) ([]Record, error) {
	src, err := openSource(data, format)
	if err != nil {
		return nil, err
	}

	header, ok, err := src.Next()
	if err != nil {
		return nil, err
	}
	if !ok || len(header) == 0 {
		return nil, fileErr("missing header row")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records []Record
	seen := make(map[string]struct{})
	rowNum := 0

	for {
		fields, ok, err := src.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if len(fields) == 0 {
			continue // blank row, skipped and not counted
		}
		rowNum++

		rec, err := checkRow(rowNum, fields, seen)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if rowNum == 0 {
		return nil, fileErr("file must contain a header and at least one data row")
	}
	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fileErr(fmt.Sprintf("header column count mismatch: expected %d, got %d",
			len(expectedHeader), len(header)))
	}
	for i, want := range expectedHeader {
		if got := strings.TrimSpace(header[i]); got != want {
			return headerErr(i+1, want, got)
		}
	}
	return nil
}

func checkRow(rowNum int, fields []string, seen map[string]struct{}) (Record, error) {
	if len(fields) != len(expectedHeader) {
		return Record{}, rowErr(rowNum, "",
			fmt.Sprintf("column count mismatch: expected %d, got %d", len(expectedHeader), len(fields)))
	}

	memberID := strings.TrimSpace(fields[0])
	fullName := strings.TrimSpace(fields[1])
	address := strings.TrimSpace(fields[2])
	account := strings.TrimSpace(fields[3])
	balanceStr := strings.TrimSpace(fields[4])
	dateStr := strings.TrimSpace(fields[5])

	if memberID == "" {
		return Record{}, rowErr(rowNum, "MemberID", "MemberID required")
	}
	if _, dup := seen[memberID]; dup {
		return Record{}, &ValidationError{
			Row:     rowNum,
			Field:   "MemberID",
			Message: fmt.Sprintf("duplicate MemberID: %s", memberID),
		}
	}
	seen[memberID] = struct{}{}

	if fullName == "" {
		return Record{}, rowErr(rowNum, "FullName", "FullName required")
	}
	if !accountNumberRe.MatchString(account) {
		return Record{}, rowErr(rowNum, "AccountNumber", "AccountNumber must be 8-16 digits")
	}
	balance, err := strconv.ParseFloat(balanceStr, 64)
	if err != nil {
		return Record{}, rowErr(rowNum, "Balance", "Balance must be numeric")
	}
	if balance < 0 {
		return Record{}, rowErr(rowNum, "Balance", "Balance must not be negative")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Record{}, rowErr(rowNum, "LastTransactionDate", "LastTransactionDate must be YYYY-MM-DD")
	}

	return Record{
		MemberID:            memberID,
		FullName:            fullName,
		Address:             address,
		AccountNumber:       account,
		Balance:             balance,
		LastTransactionDate: date,
	}, nil
}
