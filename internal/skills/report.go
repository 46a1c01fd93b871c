package skills

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes a progress workbook: one row per skill with level,
// rank and milestone completion, grouped by category.
func ExportXLSX(l *Ledger, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Progress"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Skill", "Category", "Level", "Rank", "Milestones done", "Next milestone"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, id := range l.IDs() {
		s := l.Skills[id]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), CategoryName(s.Category))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.Level)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), LevelName(s.Level))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row),
			fmt.Sprintf("%d/%d", len(s.Completed), len(s.Milestones)))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), nextMilestone(s))
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Overall progress")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row+1), fmt.Sprintf("%d%%", l.OverallProgress()))

	return f.SaveAs(path)
}

func nextMilestone(s *Skill) string {
	thresholds := make([]int, 0, len(s.Milestones))
	for t := range s.Milestones {
		thresholds = append(thresholds, t)
	}
	sort.Ints(thresholds)
	for _, t := range thresholds {
		if !s.IsCompleted(t) {
			return fmt.Sprintf("%d: %s", t, s.Milestones[t].Title)
		}
	}
	return "all done"
}
