package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, rows []TimeLogRow) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := setExcelRow(file, sheet, 1, timeLogHeaders); err != nil {
		return err
	}

	for i, row := range rows {
		if err := setExcelRow(file, sheet, i+2, row.values()); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func setExcelRow(file *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel value %s: %w", cell, err)
		}
	}
	return nil
}
