package core

// parser.go turns an uploaded file into ordered RawRows.
//
// Checks run cheapest first: the extension and declared size are checked
// before a single byte is read, so unsupported or oversized uploads are
// rejected without parsing. A row's index is its distance from the header
// in source lines (CSV) or sheet rows (XLSX), so the first data row is 1.
// Blank lines and records are dropped but still count, and a quoted cell
// spanning several lines pushes later indexes down accordingly.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxFileSize is the default upload limit (10 MiB).
const MaxFileSize int64 = 10 * 1024 * 1024

// FileFormat identifies how an upload is parsed.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
)

// allowedExtensions is the upload allow-list.
var allowedExtensions = map[string]FileFormat{
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
}

// ParseOptions controls file parsing. The zero value uses MaxFileSize.
type ParseOptions struct {
	MaxFileSize int64
}

func (o ParseOptions) maxSize() int64 {
	if o.MaxFileSize <= 0 {
		return MaxFileSize
	}
	return o.MaxFileSize
}

// FormatForFile returns the parse format for a file name, or ErrInvalidFormat.
func FormatForFile(name string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := allowedExtensions[ext]
	if !ok {
		return "", ErrInvalidFormat
	}
	return format, nil
}

// ParseFile reads an import file into raw rows keyed by template column.
//
// size is the size declared by the client; pass -1 when unknown. Errors
// are *FileError values whose Kind is ErrInvalidFormat, ErrFileTooLarge,
// ErrEmptyFile or ErrParse.
func ParseFile(name string, size int64, r io.Reader, opts ParseOptions) ([]RawRow, error) {
	format, err := FormatForFile(name)
	if err != nil {
		return nil, newFileError(ErrInvalidFormat, name, fmt.Errorf("extension %q not allowed", filepath.Ext(name)))
	}

	limit := opts.maxSize()
	if size > limit {
		return nil, newFileError(ErrFileTooLarge, name, fmt.Errorf("%d bytes exceeds %d byte limit", size, limit))
	}

	data, err := readLimited(r, limit)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, newFileError(ErrFileTooLarge, name, fmt.Errorf("exceeds %d byte limit", limit))
		}
		return nil, newFileError(ErrParse, name, err)
	}

	var records []record
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, newFileError(ErrParse, name, err)
	}

	rows, err := rowsFromRecords(records)
	if err != nil {
		if errors.Is(err, ErrEmptyFile) {
			return nil, newFileError(ErrEmptyFile, name, nil)
		}
		return nil, newFileError(ErrParse, name, err)
	}
	return rows, nil
}

// record is one source record and the 1-based line or sheet row it starts on.
type record struct {
	line   int
	fields []string
}

// readCSV reads records one at a time so that each keeps its physical
// line. encoding/csv skips empty lines and joins quoted multi-line cells,
// so the line cannot be derived from the record count.
func readCSV(data []byte) ([]record, error) {
	r := csv.NewReader(bytes.NewReader(cleanText(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []record
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

func readXLSX(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	// GetRows keeps empty rows between data rows, so position is the sheet row.
	records := make([]record, len(rows))
	for i, row := range rows {
		records[i] = record{line: i + 1, fields: row}
	}
	return records, nil
}

// rowsFromRecords locates the header and maps every later record onto
// template columns.
func rowsFromRecords(records []record) ([]RawRow, error) {
	headerAt := -1
	for i, rec := range records {
		if !isEmptyRow(rec.fields) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyFile
	}
	header := records[headerAt]

	colIdx := templateColumnIndex(header.fields)
	if len(colIdx) == 0 {
		return nil, fmt.Errorf("header row has none of the template columns (%s)", strings.Join(ColumnNames(), ", "))
	}

	var rows []RawRow
	for _, rec := range records[headerAt+1:] {
		if isEmptyRow(rec.fields) {
			continue
		}
		values := make(map[string]string, len(colIdx))
		for col, pos := range colIdx {
			if pos < len(rec.fields) {
				values[col] = rec.fields[pos]
			} else {
				values[col] = ""
			}
		}
		rows = append(rows, RawRow{Index: rec.line - header.line, Values: values})
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// templateColumnIndex maps known template columns to their position in the
// header. Unknown headers are ignored; the first occurrence of a repeated
// header wins.
func templateColumnIndex(header []string) map[string]int {
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c.Name] = true
	}

	idx := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if !known[key] {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
