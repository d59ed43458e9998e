package httpapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// reportExportHeader is shared by the CSV and XLSX exports.
var reportExportHeader = []string{
	"Date",
	"Has Data",
	"BP Readings",
	"Systolic Avg",
	"Systolic Min",
	"Systolic Max",
	"Diastolic Avg",
	"Diastolic Min",
	"Diastolic Max",
	"Heart Rate Avg",
	"BP Status",
	"Meds Scheduled",
	"Meds Taken",
	"Meds Missed",
	"Med Compliance %",
	"Water Intake (ml)",
	"Water Goal (ml)",
	"Water Compliance %",
	"Activities",
	"Exercise Minutes",
}

func exportRow(d *domain.DailySummary) []string {
	return []string{
		d.SummaryDate,
		strconv.FormatBool(d.HasData),
		strconv.Itoa(d.BPReadingsCount),
		fmtIntPtr(d.SystolicAvg),
		fmtIntPtr(d.SystolicMin),
		fmtIntPtr(d.SystolicMax),
		fmtIntPtr(d.DiastolicAvg),
		fmtIntPtr(d.DiastolicMin),
		fmtIntPtr(d.DiastolicMax),
		fmtIntPtr(d.HeartRateAvg),
		fmtStringPtr(d.BPStatus),
		strconv.Itoa(d.MedicationsScheduled),
		strconv.Itoa(d.MedicationsTaken),
		strconv.Itoa(d.MedicationsMissed),
		fmtFloatPtr(d.MedicationCompliancePercent),
		strconv.Itoa(d.WaterIntakeML),
		strconv.Itoa(d.WaterGoalML),
		fmtFloatPtr(d.WaterCompliancePercent),
		strconv.Itoa(d.ActivitiesCount),
		strconv.Itoa(d.ExerciseMinutes),
	}
}

// GenerateReportCSV renders the range view as CSV, one row per summarized
// day.
func GenerateReportCSV(view *service.ReportView) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range view.Days {
		if err := w.Write(exportRow(d)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateReportXLSX renders the range view as a styled workbook, same
// columns as the CSV.
func GenerateReportXLSX(view *service.ReportView) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() before WriteTo; the file must stay open.

	sheetName := "Health Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range reportExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, d := range view.Days {
		for col, value := range exportRow(d) {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateReportPDF renders the range view as a landscape table with a
// period-totals block above it.
func GenerateReportPDF(view *service.ReportView, patientName string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Health Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Health Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Patient: %s", patientName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", view.From, view.To))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Days with data: %d", view.Totals.DaysWithData))
	pdf.Ln(5)
	if view.Totals.SystolicAvg != nil && view.Totals.DiastolicAvg != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Average blood pressure: %d/%d", *view.Totals.SystolicAvg, *view.Totals.DiastolicAvg))
		pdf.Ln(5)
	}
	if view.Totals.MedicationComplianceAvg != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Average medication compliance: %.2f%%", *view.Totals.MedicationComplianceAvg))
		pdf.Ln(5)
	}
	if view.Totals.WaterComplianceAvg != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Average water compliance: %.2f%%", *view.Totals.WaterComplianceAvg))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	// Compact column set so the table fits on A4 landscape.
	columns := []struct {
		title string
		width float64
	}{
		{"Date", 24},
		{"BP Avg", 20},
		{"BP Min", 20},
		{"BP Max", 20},
		{"HR Avg", 16},
		{"Status", 20},
		{"Meds", 24},
		{"Med %", 18},
		{"Water (ml)", 22},
		{"Water %", 18},
		{"Activities", 20},
		{"Exercise (min)", 26},
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 243, 255)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range view.Days {
		cells := []string{
			d.SummaryDate,
			bpPair(d.SystolicAvg, d.DiastolicAvg),
			bpPair(d.SystolicMin, d.DiastolicMin),
			bpPair(d.SystolicMax, d.DiastolicMax),
			fmtIntPtr(d.HeartRateAvg),
			fmtStringPtr(d.BPStatus),
			fmt.Sprintf("%d/%d", d.MedicationsTaken, d.MedicationsScheduled),
			fmtFloatPtr(d.MedicationCompliancePercent),
			strconv.Itoa(d.WaterIntakeML),
			fmtFloatPtr(d.WaterCompliancePercent),
			strconv.Itoa(d.ActivitiesCount),
			strconv.Itoa(d.ExerciseMinutes),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func bpPair(sys, dia *int) string {
	if sys == nil || dia == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", *sys, *dia)
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func fmtStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
