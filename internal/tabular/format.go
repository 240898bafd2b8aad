package tabular

import (
	"path"
	"strings"
)

// Format is the classified container format of an uploaded payload.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLS    Format = "xls"
	FormatXLSX   Format = "xlsx"
	FormatOpaque Format = "opaque" // octet-stream, skips structural validation
)

// Tabular reports whether payloads of this format go through schema
// validation.
func (f Format) Tabular() bool {
	return f == FormatCSV || f == FormatXLS || f == FormatXLSX
}

// Detect classifies a payload from its declared content type and filename.
// The content type wins when it names a known format; otherwise the filename
// extension is consulted. Plain octet-stream payloads with no telling
// extension are accepted as opaque. ok is false for anything else.
func Detect(contentType, fileName string) (f Format, ok bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch ct {
	case "text/csv":
		return FormatCSV, true
	case "application/vnd.ms-excel":
		return FormatXLS, true
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, true
	}

	switch strings.ToLower(path.Ext(fileName)) {
	case ".csv":
		return FormatCSV, true
	case ".xls":
		return FormatXLS, true
	case ".xlsx":
		return FormatXLSX, true
	}

	if ct == "" || ct == "application/octet-stream" {
		return FormatOpaque, true
	}
	return "", false
}
