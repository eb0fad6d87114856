package model

import "fmt"

const (
	RowPending         = "pending"
	RowInProgress      = "in_progress"
	RowCompleted       = "completed"
	RowPartiallyFailed = "partially_failed"
	RowCanceled        = "canceled"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		RowPending: true,
	},
	RowPending: {
		RowPending:    true,
		RowInProgress: true,
		RowCanceled:   true,
	},
	RowInProgress: {
		RowInProgress:      true,
		RowCompleted:       true,
		RowPartiallyFailed: true,
		RowCanceled:        true,
	},
	// Terminal states; self-transitions keep re-applies harmless.
	RowCompleted: {
		RowCompleted: true,
	},
	RowPartiallyFailed: {
		RowPartiallyFailed: true,
	},
	RowCanceled: {
		RowCanceled: true,
	},
}

func IsKnownRowStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func TransitionRowStatus(row *RowResult, toStatus string) error {
	from := row.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid row status transition: %q -> %q (row=%d source_line=%d)", from, toStatus, row.Row, row.SourceLine)
	}
	row.Status = toStatus
	return nil
}
