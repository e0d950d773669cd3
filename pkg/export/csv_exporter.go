package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVExporter renders sheets into CSV bytes. Merged cells are written once, in their top-left cell
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Render(sheet *Sheet) ([]byte, error) {
	if len(sheet.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(sheet.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDir writes one <sheet name>.csv file per sheet into dir, creating it if needed
func (e *CSVExporter) WriteDir(workbook Workbook, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create csv directory: %w", err)
	}

	files := make([]string, 0, len(workbook.Sheets))
	for _, sheet := range workbook.Sheets {
		content, err := e.Render(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %v: %w", sheet.Name, err)
		}
		file := filepath.Join(dir, sheet.Name+".csv")
		if err := os.WriteFile(file, content, 0o644); err != nil {
			return nil, fmt.Errorf("write %v: %w", file, err)
		}
		files = append(files, file)
	}
	return files, nil
}
