package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const (
	summarySheet  = "Summary"
	machinesSheet = "Machines"
	historySheet  = "History"
)

// FleetReport is the data behind the fleet workbook. History is optional.
type FleetReport struct {
	GeneratedAt time.Time
	Summary     *models.FleetSummary
	Machines    []models.MachineStatus
	History     []models.Reading
}

var machineHeaders = []string{
	"ID", "Name", "Status", "Operating Hours",
	"Temperature", "Pressure", "Vibration", "Oil Quality",
}

var historyHeaders = []string{
	"Machine", "Timestamp", "Operating Hours",
	"Temperature", "Pressure", "Vibration", "Oil Quality", "Failure",
}

// BuildFleetXLSX renders a workbook with a summary sheet, one row per
// machine and, when given, the raw reading history.
func BuildFleetXLSX(report FleetReport) ([]byte, error) {
	if report.Summary == nil {
		return nil, fmt.Errorf("export: %w", models.ErrEmptyInput)
	}

	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   "Fleet Health Report",
		Created: report.GeneratedAt.UTC().Format(time.RFC3339),
	})

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, report, header); err != nil {
		return nil, err
	}
	if err := writeMachines(f, report.Machines, header); err != nil {
		return nil, err
	}
	if len(report.History) > 0 {
		if err := writeHistory(f, report.History, header); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, report FleetReport, header int) error {
	s := report.Summary
	rows := [][]interface{}{
		{"Fleet Health Report"},
		{},
		{"Generated", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Total Machines", s.TotalMachines},
		{"Normal", s.NormalMachines},
		{"Warning", s.WarningMachines},
		{"Critical", s.CriticalMachines},
		{"Normal %", s.NormalPercentage},
		{"Warning %", s.WarningPercentage},
		{"Critical %", s.CriticalPercentage},
		{},
		{"Average Metrics"},
		{"Temperature", s.AverageMetrics.Temperature},
		{"Pressure", s.AverageMetrics.Pressure},
		{"Vibration", s.AverageMetrics.Vibration},
		{"Oil Quality", s.AverageMetrics.OilQuality},
		{"Operating Hours", s.AverageMetrics.OperatingHours},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(summarySheet, "A1", "B1", header)
	_ = f.SetCellStyle(summarySheet, "A12", "B12", header)
	_ = f.SetColWidth(summarySheet, "A", "A", 20)
	_ = f.SetColWidth(summarySheet, "B", "B", 22)
	return nil
}

func writeMachines(f *excelize.File, machines []models.MachineStatus, header int) error {
	if _, err := f.NewSheet(machinesSheet); err != nil {
		return err
	}
	if err := writeHeader(f, machinesSheet, machineHeaders, header); err != nil {
		return err
	}
	for i, m := range machines {
		row := []interface{}{
			m.ID, m.Name, string(m.Status), m.OperatingHours,
			m.Temperature, m.Pressure, m.Vibration, m.OilQuality,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(machinesSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(machinesSheet, "A", "H", 15)
	return nil
}

func writeHistory(f *excelize.File, history []models.Reading, header int) error {
	if _, err := f.NewSheet(historySheet); err != nil {
		return err
	}
	if err := writeHeader(f, historySheet, historyHeaders, header); err != nil {
		return err
	}
	for i, r := range history {
		row := []interface{}{
			models.MachineName(r.MachineID), r.Timestamp.UTC().Format(time.RFC3339), r.OperatingHours,
			r.Temperature, r.Pressure, r.Vibration, r.OilQuality, r.Failure,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(historySheet, "A", "H", 15)
	_ = f.SetColWidth(historySheet, "B", "B", 22)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}
