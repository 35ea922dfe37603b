package workflow

// completedStatuses are terminal for aggregate counting.
var completedStatuses = map[string]bool{
	"Completed":    true,
	"Dispensed":    true,
	"Administered": true,
}

// inProgressStatuses are actively being worked.
var inProgressStatuses = map[string]bool{
	"In Progress": true,
	"Processing":  true,
	"Monitoring":  true,
	"Accepted":    true,
}

// IsCompleted reports whether a status counts as completed.
func IsCompleted(status string) bool {
	return completedStatuses[status]
}

// IsInProgress reports whether a status counts as in progress.
func IsInProgress(status string) bool {
	return inProgressStatuses[status]
}

// Summary aggregates a list of action statuses for dashboard tiles and tab
// badges. Statuses that are neither completed nor in progress count as
// pending.
type Summary struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	InProgress int            `json:"in_progress"`
	Pending    int            `json:"pending"`
	ByStatus   map[string]int `json:"by_status"`
}

// Summarize partitions statuses into completed / in-progress / pending and
// produces per-status counts. Pure and order-independent.
func Summarize(statuses []string) Summary {
	summary := Summary{
		ByStatus: make(map[string]int),
	}

	for _, status := range statuses {
		summary.Total++
		summary.ByStatus[status]++
		switch {
		case IsCompleted(status):
			summary.Completed++
		case IsInProgress(status):
			summary.InProgress++
		default:
			summary.Pending++
		}
	}

	return summary
}
