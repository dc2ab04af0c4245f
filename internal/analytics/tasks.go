package analytics

import (
	"time"

	"salescore/pkg/domain"
)

// TaskFilter narrows a task list. Status compares against the effective
// status, so TaskOverdue selects overdue tasks.
type TaskFilter struct {
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	AssigneeID string
}

// FilterTasks returns the tasks matching f in their original order.
func FilterTasks(tasks []domain.Task, f TaskFilter, now time.Time) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Status != "" && t.EffectiveStatus(now) != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// OverdueTasks counts tasks whose effective status is overdue.
func OverdueTasks(tasks []domain.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.EffectiveStatus(now) == domain.TaskOverdue {
			n++
		}
	}
	return n
}
