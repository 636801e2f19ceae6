package models

// TrackerStatus is the processing state of a ticker
type TrackerStatus string

// Tracker status constants
const (
	StatusTodo      TrackerStatus = "TODO"
	StatusCompleted TrackerStatus = "completed"
	StatusError     TrackerStatus = "error"
)

// Valid reports whether s is one of the known statuses
func (s TrackerStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusCompleted, StatusError:
		return true
	}
	return false
}

// StatusCount is one bucket of a column distribution
type StatusCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}
