package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []interface{}{
	"Product", "Barcode", "Department", "Temperature (°C)", "Received", "Received By", "Last Handled By",
}

// ExportXLSX writes rows to a single-sheet workbook with a header row.
func ExportXLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		line := []interface{}{
			r.Name, r.Barcode, r.Department, r.Temperature, r.Received, r.ReceivedBy, r.LastHandledBy,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
