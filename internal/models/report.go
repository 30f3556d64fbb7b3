package models

import "time"

// TaskTagRelation is one row of the task/tag relationship report. Untagged
// tasks appear once with a zero TagID and a nil TagName.
type TaskTagRelation struct {
	TaskID        int64
	TaskTitle     *string
	ExecutionTime *time.Time
	DurationMin   *int64
	Closed        bool
	TagID         int64
	TagName       *string
}

type TagResolution struct {
	TagID      int64
	TagName    *string
	Resolved   int64
	Unresolved int64
}
