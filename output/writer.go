package output

import (
	"fmt"
	"strings"
	"time"

	"tasklog/storage"
)

// TimeLogRow is one exported time log. Its columns are the ones the importer reads.
type TimeLogRow struct {
	TaskID      int64
	TaskPath    string
	Resource    string
	Start       time.Time
	End         time.Time
	Description string
}

type Writer interface {
	Write(path string, rows []TimeLogRow) error
}

var timeLogHeaders = []string{"task", "task_path", "resource", "date", "start", "end", "description"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// RowsFromDetails converts a resource's time logs into export rows.
func RowsFromDetails(details []storage.TimeLogDetail, resource string) []TimeLogRow {
	rows := make([]TimeLogRow, 0, len(details))
	for _, detail := range details {
		rows = append(rows, TimeLogRow{
			TaskID:      detail.TimeLog.TaskID,
			TaskPath:    detail.TaskPath,
			Resource:    resource,
			Start:       detail.TimeLog.Start,
			End:         detail.TimeLog.End,
			Description: detail.TimeLog.Description,
		})
	}
	return rows
}

func (r TimeLogRow) values() []string {
	start := r.Start.In(time.Local)
	end := r.End.In(time.Local)
	return []string{
		fmt.Sprintf("%d", r.TaskID),
		r.TaskPath,
		r.Resource,
		start.Format("2006-01-02"),
		start.Format("15:04"),
		end.Format("15:04"),
		r.Description,
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
