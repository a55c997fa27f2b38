package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"cancerscope/adapters/datareadiness/coercer"
	"cancerscope/domain/dataset"
	"cancerscope/internal"
	"cancerscope/internal/errors"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DataReader parses CSV, TSV and XLSX byte streams into tables. It never
// substitutes demo data; callers decide what to do with a failure.
type DataReader struct {
	config  ReaderConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewDataReader creates a reader; a nil logger uses internal.DefaultLogger
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger,
	}
}

// Load parses src according to the declared format tag. name is the display
// name given to the table. Failures are PARSE_ERROR or UNSUPPORTED_FORMAT.
func (r *DataReader) Load(ctx context.Context, src io.Reader, formatTag, name string) (*dataset.Table, error) {
	format, err := ParseFormat(formatTag)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.ParseError("failed to read input", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ParseError("empty file", nil)
	}

	r.logger.Debug("[DataReader] Parsing %s input %q (%d bytes)", format, name, len(data))
	start := time.Now()

	var rows [][]string
	switch format {
	case FormatCSV, FormatTSV:
		rows, err = r.readDelimited(data, format)
	case FormatXLSX:
		rows, err = r.readWorkbook(data)
	default:
		return nil, errors.UnsupportedFormat(formatTag)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := r.processRows(rows, name)
	if err != nil {
		return nil, err
	}
	r.logger.Info("[DataReader] %s %q processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(format)), name, float64(time.Since(start).Nanoseconds())/1e6,
		table.ColumnCount(), table.RowCount())
	return table, nil
}

// LoadFile opens path and loads it using its extension as the format tag
func (r *DataReader) LoadFile(ctx context.Context, path string) (*dataset.Table, error) {
	if _, err := ParseFormat(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to open %s", filepath.Base(path)), err)
	}
	defer f.Close()
	return r.Load(ctx, f, path, filepath.Base(path))
}

// readDelimited decodes text and splits records; ragged rows are rejected
func (r *DataReader) readDelimited(data []byte, format Format) ([][]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = format.delimiter()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("malformed %s", strings.ToUpper(string(format))), err)
	}
	return rows, nil
}

// decodeText strips byte order marks and converts UTF-16 input to UTF-8.
// UTF-8 input, with or without a BOM, must be valid; UTF-16 input must hold
// whole code units.
func decodeText(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) && !utf8.Valid(data[len(bomUTF8):]) {
		return nil, errors.ParseError("unreadable encoding: input is not valid UTF-8", nil)
	}
	if (bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)) && len(data)%2 != 0 {
		return nil, errors.ParseError("unreadable encoding: truncated UTF-16 input", nil)
	}
	if bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, errors.ParseError("unreadable encoding", err)
		}
		return decoded, nil
	}
	if !utf8.Valid(data) {
		return nil, errors.ParseError("unreadable encoding: input is not valid UTF-8", nil)
	}
	return data, nil
}

// readWorkbook reads the configured sheet (or the first one) with raw cell values
func (r *DataReader) readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("workbook has no sheets", nil)
	}
	sheet := sheets[0]
	if r.config.SheetName != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, r.config.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, errors.ParseError(fmt.Sprintf("sheet %q not found; available sheets: %s",
				r.config.SheetName, strings.Join(sheets, ", ")), nil)
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}

	// excelize omits trailing empty cells, so pad to the widest row
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows, nil
}

// processRows converts raw string rows (header first) into a typed Table
func (r *DataReader) processRows(rows [][]string, name string) (*dataset.Table, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.ParseError("missing header row", nil)
	}
	if len(rows) < 2 {
		return nil, errors.ParseError("file must have a header row and at least one data row", nil)
	}

	headers := normalizeHeaders(rows[0])
	data := rows[1:]
	if r.config.MaxRows > 0 && len(data) > r.config.MaxRows {
		r.logger.Warn("[DataReader] Truncating %q to %d rows (had %d)", name, r.config.MaxRows, len(data))
		data = data[:r.config.MaxRows]
	}

	builder := dataset.NewBuilder(name, dataset.SourceUpload)
	raw := make([]string, len(data))
	for colIdx, header := range headers {
		for rowIdx, row := range data {
			if colIdx >= len(row) {
				return nil, errors.ParseError(fmt.Sprintf("row %d has %d fields, header has %d",
					rowIdx+2, len(row), len(headers)), nil)
			}
			raw[rowIdx] = row[colIdx]
		}
		analysis := r.coercer.AnalyzeColumn(raw)
		r.logger.Trace("[DataReader] Column %q: %s (%d valid, %d missing)",
			header, analysis.RecommendedType, analysis.ValidCount, analysis.MissingCount)
		builder.AddColumn(header, analysis.RecommendedType, r.coercer.CoerceColumn(raw, analysis.RecommendedType))
	}

	table, err := builder.Build()
	if err != nil {
		return nil, errors.ParseError("inconsistent table structure", err)
	}
	return table, nil
}

// normalizeHeaders trims names, names blank headers "Unnamed: <i>" and
// mangles duplicates to name.1, name.2, ... so every name is unique.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[h]; dup {
			base := h
			for n := seen[base] + 1; ; n++ {
				candidate := fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[candidate]; !taken {
					seen[base] = n
					h = candidate
					break
				}
			}
		}
		seen[h] = 0
		headers[i] = h
	}
	return headers
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
