package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// BuildROIPDF renders the ROI business case: inputs, results and the
// yearly projection table.
func BuildROIPDF(in models.ROIInputs, res *models.ROIResult, generatedAt time.Time) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("export: %w", models.ErrEmptyInput)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Predictive Maintenance ROI", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Predictive Maintenance ROI")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(10)

	section(pdf, "Inputs")
	row(pdf, "Fleet size", fmt.Sprintf("%d", in.FleetSize))
	row(pdf, "Failures per year", fmt.Sprintf("%.1f", in.FailuresPerYear))
	row(pdf, "Cost per failure", money(in.CostPerFailure))
	row(pdf, "Detection rate", fmt.Sprintf("%.1f%%", in.DetectionRate*100))
	row(pdf, "Annual maintenance cost", money(in.MaintenanceCost))
	row(pdf, "Initial investment", money(in.InitialInvestment))
	pdf.Ln(6)

	section(pdf, "Results")
	row(pdf, "Prevented failures", fmt.Sprintf("%d", res.PreventedFailures))
	row(pdf, "Failure costs avoided", money(res.FailureCostsAvoided))
	row(pdf, "Net savings", money(res.NetSavings))
	row(pdf, "ROI", fmt.Sprintf("%.1f%%", res.ROIPercentage))
	if res.PaysBack() {
		row(pdf, "Payback period", fmt.Sprintf("%.1f years (%.0f months)", *res.PaybackPeriodYears, *res.PaybackPeriodMonths))
	} else {
		row(pdf, "Payback period", "never")
	}
	pdf.Ln(6)

	section(pdf, "Projection")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Year", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Cumulative savings", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "ROI", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, p := range res.Projections {
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", p.Year), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, money(p.Savings), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f%%", p.ROI), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, value, "", 0, "R", false, 0, "")
	pdf.Ln(-1)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
