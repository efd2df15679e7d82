package classify

import "tasklog/worklog"

// Conflict pairs a candidate time log with an existing log it overlaps.
type Conflict struct {
	Candidate worklog.TimeLog
	Existing  worklog.TimeLog
}

// FindOverbooking returns the first existing log of the same resource whose
// interval overlaps candidate. The log being edited (same ID) is skipped.
func FindOverbooking(candidate worklog.TimeLog, existing []worklog.TimeLog) (Conflict, bool) {
	for _, existingEntry := range existing {
		if candidate.ID > 0 && existingEntry.ID == candidate.ID {
			continue
		}
		if existingEntry.ResourceID != candidate.ResourceID {
			continue
		}
		if candidate.Interval().Overlaps(existingEntry.Interval()) {
			return Conflict{Candidate: candidate, Existing: existingEntry}, true
		}
	}
	return Conflict{}, false
}

// ClassifyTimeLogs splits a batch into logs that can be booked and logs that
// overlap either an existing log or an earlier accepted log of the batch.
func ClassifyTimeLogs(local, existing []worklog.TimeLog) ([]worklog.TimeLog, []Conflict) {
	accepted := make([]worklog.TimeLog, 0, len(local))
	conflicts := make([]Conflict, 0)
	booked := append(make([]worklog.TimeLog, 0, len(existing)+len(local)), existing...)

	for _, candidate := range local {
		if conflict, ok := FindOverbooking(candidate, booked); ok {
			conflicts = append(conflicts, conflict)
			continue
		}
		accepted = append(accepted, candidate)
		booked = append(booked, candidate)
	}

	return accepted, conflicts
}
