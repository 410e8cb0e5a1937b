package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrMissingHeader = errors.New("missing required column")
)

// Upload is one submitted file. Name is only used to pick the format.
type Upload struct {
	Name string
	Body io.Reader
}

func isXLSX(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// readRows returns the header row followed by data rows. Blank rows are
// dropped and short rows are padded to the header width.
func readRows(u Upload) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	if isXLSX(u.Name) {
		rows, err = readXLSX(u.Body)
	} else {
		rows, err = readCSV(u.Body)
	}
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if !blank(r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyFile
	}
	out[0][0] = strings.TrimPrefix(out[0][0], "\ufeff")

	width := len(out[0])
	for i := 1; i < len(out); i++ {
		if len(out[i]) < width {
			padded := make([]string, width)
			copy(padded, out[i])
			out[i] = padded
		}
	}
	return out, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func requireHeaders(header, required []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, h := range required {
		if !have[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingHeader, strings.Join(missing, ", "))
	}
	return nil
}

// rowsReader feeds already-read rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

var _ gocsv.CSVReader = (*rowsReader)(nil)

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}

// decode validates the header row and unmarshals data rows into out, which
// must be a pointer to a slice of tagged structs.
func decode(u Upload, required []string, out any) error {
	rows, err := readRows(u)
	if err != nil {
		return err
	}
	if err := requireHeaders(rows[0], required); err != nil {
		return err
	}
	if len(rows) == 1 {
		return nil
	}
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: rows}, out); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
