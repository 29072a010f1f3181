package service

import (
	"time"

	"checklists/internal/model"
)

// ComputeStats derives list stats from its tasks. Trashed tasks are ignored;
// a task is upcoming when it is open and due strictly after now.
func ComputeStats(tasks []model.Task, now time.Time) model.ListStats {
	var stats model.ListStats
	for _, task := range tasks {
		if task.State != model.StateActive {
			continue
		}
		stats.Total++
		if task.Completed {
			stats.Completed++
			continue
		}
		if task.DueDate != nil && task.DueDate.After(now) {
			stats.UpcomingDue++
		}
	}
	return stats
}
