// Package tasklist builds the filtered and sorted task view shown to a user.
package tasklist

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"task-planner/internal/deadline"
	"task-planner/internal/model"
)

// Filter selects tasks by their due date relative to now.
type Filter string

const (
	FilterToday    Filter = "today"
	FilterTomorrow Filter = "tomorrow"
	FilterOverdue  Filter = "overdue"
	FilterAll      Filter = "all"
)

// ParseFilter maps a query value to a Filter. An empty value selects today.
func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterToday, nil
	case FilterToday, FilterTomorrow, FilterOverdue, FilterAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", raw)
	}
}

// Query describes one evaluation of the pipeline.
type Query struct {
	Filter   Filter
	Search   string
	Now      time.Time
	Location *time.Location
	// Limit caps the number of items returned; zero means no limit.
	Limit int
}

// Item is a task that passed the filter, with its derived deadline state.
type Item struct {
	Task    model.Task
	Due     deadline.Date
	Overdue bool
}

// Skipped records a task left out because its due date could not be read.
type Skipped struct {
	TaskID string
	Reason string
}

type Result struct {
	Items   []Item
	Skipped []Skipped
}

// Apply filters tasks by name and due date and sorts the survivors:
// incomplete before completed, incomplete by due date ascending, completed by
// due date descending. Tasks with equal keys keep their input order. Tasks
// with a missing or malformed due date are reported in Skipped instead.
func Apply(tasks []model.Task, q Query) Result {
	loc := q.Location
	if loc == nil {
		loc = time.Local
	}
	if q.Filter == "" {
		q.Filter = FilterToday
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var res Result
	for _, task := range tasks {
		due, err := deadline.ParseDate(task.DueDate, loc)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{TaskID: task.ID.String(), Reason: err.Error()})
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(task.Name), search) {
			continue
		}
		item := Item{Task: task, Due: due, Overdue: deadline.IsOverdue(q.Now, due, task.IsCompleted)}
		if !matches(q.Filter, q.Now, item) {
			continue
		}
		res.Items = append(res.Items, item)
	}

	sort.SliceStable(res.Items, func(i, j int) bool {
		a, b := res.Items[i], res.Items[j]
		if a.Task.IsCompleted != b.Task.IsCompleted {
			return !a.Task.IsCompleted
		}
		if a.Task.IsCompleted {
			return b.Due.Before(a.Due)
		}
		return a.Due.Before(b.Due)
	})

	if q.Limit > 0 && len(res.Items) > q.Limit {
		res.Items = res.Items[:q.Limit]
	}
	return res
}

func matches(f Filter, now time.Time, item Item) bool {
	switch f {
	case FilterToday:
		return deadline.IsToday(now, item.Due)
	case FilterTomorrow:
		return deadline.IsTomorrow(now, item.Due)
	case FilterOverdue:
		return item.Overdue
	case FilterAll:
		return !item.Overdue
	default:
		return false
	}
}
