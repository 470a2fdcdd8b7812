package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/hvut-filing/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds one summary sheet for the period plus one sheet per
// filing month.
func (g *Generator) Generate(export model.FilingExport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, export); err != nil {
		return nil, err
	}

	for _, month := range export.MonthsInOrder() {
		sheetName := "Month " + month
		file.NewSheet(sheetName)
		if err := g.writeMonth(file, sheetName, month, export.ForMonth(month)); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, export model.FilingExport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	totalTax := decimal.Zero
	totalVehicles := 0
	for _, filing := range export.Filings {
		totalTax = totalTax.Add(filing.TotalTax)
		totalVehicles += filing.VehicleCount
	}

	set("A1", "Period start")
	set("B1", export.FromMonth)
	set("A2", "Period end")
	set("B2", export.ToMonth)
	set("A3", "Filings")
	set("B3", len(export.Filings))
	set("A4", "Vehicles")
	set("B4", totalVehicles)
	set("A5", "Total tax")
	set("B5", totalTax.StringFixed(2))

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Month")
	set(fmt.Sprintf("B%d", tableRow), "Filings")
	set(fmt.Sprintf("C%d", tableRow), "Vehicles")
	set(fmt.Sprintf("D%d", tableRow), "Tax")

	for i, month := range export.MonthsInOrder() {
		filings := export.ForMonth(month)
		monthTax := decimal.Zero
		monthVehicles := 0
		for _, filing := range filings {
			monthTax = monthTax.Add(filing.TotalTax)
			monthVehicles += filing.VehicleCount
		}
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), month)
		set(fmt.Sprintf("B%d", row), len(filings))
		set(fmt.Sprintf("C%d", row), monthVehicles)
		set(fmt.Sprintf("D%d", row), monthTax.StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 18)
	_ = file.SetColWidth(sheet, "B", "D", 14)
	return nil
}

func (g *Generator) writeMonth(file *excelize.File, sheet, month string, filings []model.Filing) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Month")
	set("B1", month)
	set("A2", "Filings")
	set("B2", len(filings))

	tableRow := 4
	headers := []string{"Filing ID", "Created", "Vehicles", "Tax", "XML key", "PDF key"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, filing := range filings {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), filing.ID.String())
		set(fmt.Sprintf("B%d", row), formatTime(filing.CreatedAt))
		set(fmt.Sprintf("C%d", row), filing.VehicleCount)
		set(fmt.Sprintf("D%d", row), filing.TotalTax.StringFixed(2))
		set(fmt.Sprintf("E%d", row), filing.XMLKey)
		set(fmt.Sprintf("F%d", row), formatKey(filing.PDFKey))
	}

	_ = file.SetColWidth(sheet, "A", "A", 38)
	_ = file.SetColWidth(sheet, "B", "B", 20)
	_ = file.SetColWidth(sheet, "C", "D", 12)
	_ = file.SetColWidth(sheet, "E", "F", 44)
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatKey(key *string) string {
	if key == nil {
		return ""
	}
	return *key
}
