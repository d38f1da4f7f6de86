package core

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SampleRow is the example row shipped in downloadable templates.
var SampleRow = KnowledgeItem{
	Question:    "How do I reset my password?",
	Answer:      "Open Settings, choose Security and click \"Reset password\". A reset link is emailed to you.",
	Category:    "Account",
	Subcategory: "Login",
	Keywords:    "password reset login",
}

const templateSheet = "Import"

func sampleRecord() []string {
	return []string{
		SampleRow.Question,
		SampleRow.Answer,
		SampleRow.Category,
		SampleRow.Subcategory,
		SampleRow.Keywords,
		SampleRow.ImageURL,
		SampleRow.VideoURL,
	}
}

// WriteTemplateCSV writes the import template as CSV.
func WriteTemplateCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.Write(sampleRecord()); err != nil {
		return fmt.Errorf("write sample row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplateXLSX writes the import template as an XLSX workbook with a
// single sheet.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	rows := [][]string{ColumnNames(), sampleRecord()}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(templateSheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(templateSheet, "A", "B", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
