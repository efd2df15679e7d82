package importer

import (
	"fmt"
	"io"
	"log/slog"

	"tasklog/entry"
	"tasklog/internal/classify"
	"tasklog/worklog"
)

type Submitter interface {
	Check(req entry.Request) (entry.Preview, error)
	Submit(req entry.Request) (entry.Result, error)
}

// RowError is a rejected import row.
type RowError struct {
	File      string
	RowNumber int
	Err       error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.File, e.RowNumber, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsImported   int
	RowsRejected   int
	TasksExtended  int
	Rejected       []RowError
}

type RunOptions struct {
	Format string
	// DryRun previews every row without booking it.
	DryRun bool
	Logger *slog.Logger
}

// Run reads every file and submits its rows one by one. A row that cannot be
// mapped or booked is recorded in Result.Rejected; only unreadable files stop
// the run.
func Run(paths []string, mapper *TimeLogMapper, submitter Submitter, options RunOptions) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	result := &Result{Rejected: make([]RowError, 0)}
	planned := make([]worklog.TimeLog, 0, 256)
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, options.Format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}
		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			reject := func(err error) {
				rowErr := RowError{File: path, RowNumber: record.RowNumber, Err: err}
				result.RowsRejected++
				result.Rejected = append(result.Rejected, rowErr)
				logger.Debug("import row rejected", "file", path, "row", record.RowNumber, "error", err)
			}

			req, err := mapper.Map(record)
			if err != nil {
				reject(err)
				continue
			}

			if options.DryRun {
				preview, err := submitter.Check(req)
				if err != nil {
					reject(err)
					continue
				}
				candidate := worklog.TimeLog{
					TaskID:     req.TaskID,
					ResourceID: req.ResourceID,
					Start:      preview.Start,
					End:        preview.End,
				}
				if conflict, overbooked := classify.FindOverbooking(candidate, planned); overbooked {
					reject(fmt.Errorf(
						"overlaps row starting %s: %w",
						conflict.Existing.Start.Format("2006-01-02 15:04"),
						entry.ErrOverBooked,
					))
					continue
				}
				planned = append(planned, candidate)
				result.RowsImported++
				continue
			}

			booked, err := submitter.Submit(req)
			if err != nil {
				reject(err)
				continue
			}
			result.RowsImported++
			if booked.Extended {
				result.TasksExtended++
			}
		}
	}

	return result, nil
}
