package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// The BIFF fixtures under testdata mirror the XLSX test content: a header
// row, one row of text cells, a blank row, and one row whose Balance is a
// numeric cell. They are checked in because the XLS library is read-only.
func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return data
}

func TestValidate_XLS_HappyPath(t *testing.T) {
	records, err := Validate(readFixture(t, "members.xls"), FormatXLS)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].MemberID != "M1" || records[0].AccountNumber != "12345678" || records[0].Balance != 100.50 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	// The second row stores Balance as a numeric cell; it must read as its
	// display string and parse like a text twin.
	if records[1].MemberID != "M2" || records[1].Balance != 250.75 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
	if records[1].LastTransactionDate.Format("2006-01-02") != "2024-02-20" {
		t.Fatalf("unexpected date: %v", records[1].LastTransactionDate)
	}
}

func TestValidate_XLS_MatchesCSVSemantics(t *testing.T) {
	// The fixture's logical content as CSV, including the blank row.
	csvData := csvBytes(
		validHeader,
		"M1,Jane Roe,1 Main St,12345678,100.50,2024-01-15",
		"",
		"M2,John Doe,2 Oak Ave,87654321,250.75,2024-02-20",
	)

	csvRecords, err := Validate(csvData, FormatCSV)
	if err != nil {
		t.Fatalf("CSV Validate error: %v", err)
	}
	xlsRecords, err := Validate(readFixture(t, "members.xls"), FormatXLS)
	if err != nil {
		t.Fatalf("XLS Validate error: %v", err)
	}
	if !reflect.DeepEqual(csvRecords, xlsRecords) {
		t.Fatalf("CSV and XLS disagree:\n%+v\nvs\n%+v", csvRecords, xlsRecords)
	}
}

func TestValidate_XLS_RowError(t *testing.T) {
	_, err := Validate(readFixture(t, "members_bad_account.xls"), FormatXLS)
	ve := asValidationError(t, err)
	if ve.Row != 1 || ve.Field != "AccountNumber" {
		t.Fatalf("expected row 1 / AccountNumber, got row %d / %q", ve.Row, ve.Field)
	}
}
