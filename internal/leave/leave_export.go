package leave

import (
	"fmt"
	"io"
	"time"

	"go-erp/internal/leave/accrual"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Leaves"

var exportColumns = []struct {
	Header string
	Width  float64
}{
	{"ID", 38},
	{"Employee", 38},
	{"Leave Type", 12},
	{"Start Date", 12},
	{"End Date", 12},
	{"Days", 8},
	{"Status", 10},
	{"Reason", 50},
	{"Reviewed At", 22},
	{"Review Notes", 40},
}

// writeLeavesWorkbook renders leaves as a single-sheet xlsx with a frozen,
// filterable header row.
func writeLeavesWorkbook(w io.Writer, leaves []Leave) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheetName, name, name, col.Width); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	if err := f.SetCellStyle(exportSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, l := range leaves {
		row := []interface{}{
			l.ID.String(),
			l.EmployeeID.String(),
			l.LeaveType,
			accrual.FormatDate(l.StartDate),
			accrual.FormatDate(l.EndDate),
			l.DurationDays,
			l.Status,
			l.Reason,
			"",
			"",
		}
		if l.ReviewedAt != nil {
			row[8] = l.ReviewedAt.UTC().Format(time.RFC3339)
		}
		if l.ReviewNotes != nil {
			row[9] = *l.ReviewNotes
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}
	if err := f.AutoFilter(exportSheetName, "A1:"+lastCol+"1", []excelize.AutoFilterOptions{}); err != nil {
		return fmt.Errorf("adding filter: %w", err)
	}

	return f.Write(w)
}
