package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	reorderSheet = "Reorder"
	costSheet    = "Cost Analysis"
	wasteSheet   = "Waste"
)

// WriteXLSX writes the reorder list, cost analysis and waste insights of a report
// as a three-sheet workbook.
func WriteXLSX(w io.Writer, report *BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reorderSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{costSheet, wasteSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	reorderRows := [][]interface{}{
		{"Item ID", "Item", "Action", "Urgency", "Quantity", "Estimated Cost", "Days Until Stockout"},
	}
	for _, line := range report.ReorderSummary.Items {
		reorderRows = append(reorderRows, []interface{}{
			line.ItemID, line.ItemName, string(line.Action), string(line.Urgency),
			line.Quantity, line.EstimatedCost.InexactFloat64(), optionalInt(line.DaysUntilStockout),
		})
	}
	reorderRows = append(reorderRows, []interface{}{
		"Total", "", "", "", report.ReorderSummary.TotalQuantity, report.ReorderSummary.TotalEstimatedCost.InexactFloat64(), "",
	})

	costRows := [][]interface{}{
		{"Item ID", "Item", "Annual Demand", "Order Quantity", "Annual Holding Cost", "Annual Ordering Cost", "Total Cost"},
	}
	for _, line := range report.CostAnalysis.Items {
		costRows = append(costRows, []interface{}{
			line.ItemID, line.ItemName, line.AnnualDemand, line.OrderQuantity,
			line.AnnualHoldingCost.InexactFloat64(), line.AnnualOrderingCost.InexactFloat64(), line.TotalCost.InexactFloat64(),
		})
	}
	costRows = append(costRows, []interface{}{
		"Total", "", "", "",
		report.CostAnalysis.TotalHoldingCost.InexactFloat64(),
		report.CostAnalysis.TotalOrderingCost.InexactFloat64(),
		report.CostAnalysis.TotalInventoryCost.InexactFloat64(),
	})

	wasteRows := [][]interface{}{
		{"Item ID", "Item", "Issue", "Recommendation", "Potential Savings", "Potential Loss"},
	}
	for _, insight := range report.WasteInsights {
		wasteRows = append(wasteRows, []interface{}{
			insight.ItemID, insight.ItemName, string(insight.Issue), insight.Recommendation,
			optionalMoney(insight.PotentialSavings.Valid, insight.PotentialSavings.Decimal.InexactFloat64()),
			optionalMoney(insight.PotentialLoss.Valid, insight.PotentialLoss.Decimal.InexactFloat64()),
		})
	}

	for sheet, rows := range map[string][][]interface{}{
		reorderSheet: reorderRows,
		costSheet:    costRows,
		wasteSheet:   wasteRows,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// XLSXBytes renders the workbook in memory.
func XLSXBytes(report *BatchReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
	return nil
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalMoney(valid bool, v float64) interface{} {
	if !valid {
		return ""
	}
	return v
}
