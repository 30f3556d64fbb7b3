package models

import "time"

type Task struct {
	ID            int64
	Title         *string
	Description   *string
	ExecutionTime *time.Time
	DurationMin   *int64
	Closed        *bool
	User          UserRef
	// Tags is nil until the association is loaded.
	Tags []Tag
}

// Equal reports whether both tasks refer to the same persisted entity.
// Tasks without an ID are never equal to anything, themselves included.
func (t *Task) Equal(other *Task) bool {
	if t == nil || other == nil {
		return false
	}
	return t.ID != 0 && t.ID == other.ID
}

// IsClosed treats an absent flag as open.
func (t *Task) IsClosed() bool {
	return t.Closed != nil && *t.Closed
}

// TagIDs returns the distinct ids of the loaded tags in their original order.
func (t *Task) TagIDs() []int64 {
	ids := make([]int64, 0, len(t.Tags))
	seen := make(map[int64]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		if _, ok := seen[tag.ID]; ok {
			continue
		}
		seen[tag.ID] = struct{}{}
		ids = append(ids, tag.ID)
	}
	return ids
}

func (t *Task) Ref() TaskRef {
	return TaskRef{ID: t.ID, Title: t.Title}
}

// Merge copies every non-nil field of patch onto t. Tags, the owner and the
// ID are left as they are.
func (t *Task) Merge(patch *Task) {
	if patch.Title != nil {
		t.Title = patch.Title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.ExecutionTime != nil {
		t.ExecutionTime = patch.ExecutionTime
	}
	if patch.DurationMin != nil {
		t.DurationMin = patch.DurationMin
	}
	if patch.Closed != nil {
		t.Closed = patch.Closed
	}
}

// TruncateExecutionTime drops sub-second precision; execution times are
// stored with second precision.
func (t *Task) TruncateExecutionTime() {
	if t.ExecutionTime == nil {
		return
	}
	truncated := t.ExecutionTime.Truncate(time.Second)
	t.ExecutionTime = &truncated
}

type TaskRef struct {
	ID    int64
	Title *string
}
