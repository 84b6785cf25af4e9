// Package task implements the task list: the ordered items, the view filter,
// the single in-progress edit, and their persistence through a kv.KV.
package task

import (
	"fmt"
	"time"
)

// Task is a single to-do entry.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t Task) clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// Filter selects which tasks are visible. It is view state only.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters returns every filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter converts a user-supplied name into a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid filter %q: must be one of all, active, completed", s)
	}
	return f, nil
}

// IsValid reports whether f is a known filter.
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Matches reports whether t is visible under f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	all := Filters()
	for i, v := range all {
		if v == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterAll
}

// Prev returns the filter before f, wrapping around.
func (f Filter) Prev() Filter {
	all := Filters()
	for i, v := range all {
		if v == f {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return FilterAll
}

// EditSession is the staged, uncommitted text of the task being edited.
type EditSession struct {
	TaskID string
	Buffer string
}

// Counts holds the number of tasks visible under each filter.
type Counts struct {
	All       int
	Active    int
	Completed int
}

// For returns the count matching f.
func (c Counts) For(f Filter) int {
	switch f {
	case FilterActive:
		return c.Active
	case FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}
