package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the sheet name used by NewTemplate.
const TemplateSheet = "Bitacora"

// NewTemplate builds an in-memory report template shaped like the office
// workbook: a title block, a header row at startRow-1, and a signature footer
// at footerRow. It returns the serialized xlsx bytes.
func NewTemplate(t *testing.T, startRow, footerRow int) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		t.Fatalf("testutil.NewTemplate: rename sheet: %v", err)
	}

	cells := map[string]any{
		"A1": "MISION OEA",
		"A2": "Control de uso de vehiculo oficial",
		"A4": "Placa:",
		"B4": "CD-1234",
	}
	headers := []string{"Fecha", "Odom. inicial", "Lugar salida", "Hora salida", "Odom. final",
		"Lugar llegada", "Hora llegada", "Km", "", "Gastos", "", "", "Asunto"}
	for i, h := range headers {
		if h == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, startRow-1)
		if err != nil {
			t.Fatalf("testutil.NewTemplate: header cell: %v", err)
		}
		cells[cell] = h
	}
	footer, _ := excelize.CoordinatesToCellName(1, footerRow)
	cells[footer] = "Firma del responsable"

	for cell, v := range cells {
		if err := f.SetCellValue(TemplateSheet, cell, v); err != nil {
			t.Fatalf("testutil.NewTemplate: set %s: %v", cell, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("testutil.NewTemplate: write: %v", err)
	}
	return buf.Bytes()
}

// ReadRows opens an xlsx artifact and returns the rows of sheet.
func ReadRows(t *testing.T, body []byte, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("testutil.ReadRows: open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("testutil.ReadRows: rows: %v", err)
	}
	return rows
}

// CellValue returns the value of one cell in an xlsx artifact.
func CellValue(t *testing.T, body []byte, sheet, cell string) string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("testutil.CellValue: open: %v", err)
	}
	defer f.Close()

	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("testutil.CellValue: %s: %v", cell, err)
	}
	return v
}
