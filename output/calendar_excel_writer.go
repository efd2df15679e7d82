package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func writeCalendarExcel(path string, days []CalendarDay) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := setExcelRow(file, sheet, 1, calendarHeaders); err != nil {
		return err
	}

	styles := make(map[string]int)
	for i, day := range days {
		row := i + 2
		if err := setExcelRow(file, sheet, row, day.values()); err != nil {
			return err
		}

		styleID, ok := styles[day.Color()]
		if !ok {
			var err error
			styleID, err = file.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{day.Color()}},
			})
			if err != nil {
				return fmt.Errorf("create excel style %s: %w", day.Color(), err)
			}
			styles[day.Color()] = styleID
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := file.SetCellStyle(sheet, cell, cell, styleID); err != nil {
			return fmt.Errorf("set excel style %s: %w", cell, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
