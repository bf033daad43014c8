// Package export renders repair job listings as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/garnizeh/workshop/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Headers are the column titles of an export, in order.
var Headers = []string{
	"Job ID", "Customer", "Phone", "Item", "Brand/Model", "Problem", "Received",
	"Expected", "Delivered", "Status", "Cost", "Payment", "Notes", "Created", "Updated",
}

// ContentType returns the MIME type for format, or false if it is unknown.
func ContentType(format string) (string, bool) {
	switch format {
	case FormatCSV:
		return "text/csv", true
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true
	default:
		return "", false
	}
}

// Rows flattens jobs into string cells matching Headers. Free-text cells that
// a spreadsheet would read as a formula are prefixed with a quote.
func Rows(jobs []models.RepairJob) [][]string {
	out := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, []string{
			j.JobID, text(j.CustomerName), text(j.CustomerPhone), text(j.ItemType), text(deref(j.BrandModel)),
			text(j.ProblemDescription), j.ReceivedDate, deref(j.ExpectedCompletion), deref(j.DeliveryDate),
			j.RepairStatus, strconv.FormatFloat(j.RepairCost, 'f', 2, 64), j.PaymentStatus,
			text(deref(j.TechnicianNotes)), j.CreatedAt, j.UpdatedAt,
		})
	}
	return out
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, sheet string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if len(headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// text neutralizes cells starting with a formula trigger character.
func text(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
