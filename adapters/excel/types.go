package excel

import (
	"path/filepath"
	"strings"

	"cancerscope/internal/errors"
)

// Format is a declared input format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

var formatAliases = map[string]Format{
	"csv":                       FormatCSV,
	"text/csv":                  FormatCSV,
	"application/csv":           FormatCSV,
	"tsv":                       FormatTSV,
	"text/tab-separated-values": FormatTSV,
	"xlsx":                      FormatXLSX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatXLSX,
}

// ParseFormat resolves a format tag, MIME type, extension or file name.
// Unrecognised tags fail with an UNSUPPORTED_FORMAT error.
func ParseFormat(tag string) (Format, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i]) // drop MIME parameters
	}
	if f, ok := formatAliases[t]; ok {
		return f, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(t), "."); ext != "" {
		if f, ok := formatAliases[ext]; ok {
			return f, nil
		}
	}
	return "", errors.UnsupportedFormat(tag)
}

// delimiter returns the field separator for delimited text formats
func (f Format) delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}
