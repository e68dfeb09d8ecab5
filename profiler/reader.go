package profiler

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Frame is a table loaded in memory, column-major.
type Frame struct {
	Columns []Series
	Rows    int
}

// Series is one column of raw cell values. Missing cells are "".
type Series struct {
	Name   string
	Values []string
}

// Reader loads a file into a Frame.
type Reader func(path string) (*Frame, error)

// readers maps lowercase file extensions to readers. Extensions not listed
// are read as comma-separated text.
var readers = map[string]Reader{
	".xlsx": ReadSpreadsheet,
	".xlsm": ReadSpreadsheet,
	".tsv":  ReadDelimited('\t'),
	".tab":  ReadDelimited('\t'),
	".sav":  unsupported("SPSS"),
	".zsav": unsupported("SPSS"),
	".por":  unsupported("SPSS"),
	".spss": unsupported("SPSS"),
}

// ReadFile dispatches on the file extension.
func ReadFile(path string) (*Frame, error) {
	if r, ok := readers[strings.ToLower(filepath.Ext(path))]; ok {
		return r(path)
	}
	return ReadDelimited(',')(path)
}

func unsupported(kind string) Reader {
	return func(path string) (*Frame, error) {
		return nil, fmt.Errorf("%w: %s files are not supported: %s", ErrUnsupportedFormat, kind, path)
	}
}

// ReadDelimited returns a reader for delimited text with a header row.
func ReadDelimited(delimiter rune) Reader {
	return func(path string) (*Frame, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.Comma = delimiter
		r.FieldsPerRecord = -1
		r.LazyQuotes = true

		var records [][]string
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			records = append(records, rec)
		}
		if len(records) > 0 && len(records[0]) > 0 {
			records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
		}
		return newFrame(path, records)
	}
}

// ReadSpreadsheet reads the first sheet of an Excel workbook.
func ReadSpreadsheet(path string) (*Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheets[0], path, err)
	}
	return newFrame(path, rows)
}

// newFrame builds a Frame from a header row and data rows. Short rows are
// padded with missing cells and cells beyond the header are dropped. Empty
// header names become "Unnamed: i" and repeated names get a ".n" suffix.
func newFrame(path string, records [][]string) (*Frame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	header := columnNames(records[0])
	data := records[1:]

	frame := &Frame{Columns: make([]Series, len(header)), Rows: len(data)}
	for i, name := range header {
		values := make([]string, len(data))
		for r, rec := range data {
			if i < len(rec) {
				values[r] = rec[i]
			}
		}
		frame.Columns[i] = Series{Name: name, Values: values}
	}
	return frame, nil
}

func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}
