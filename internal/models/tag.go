package models

type Tag struct {
	ID   int64
	Name *string
	User UserRef
	// Tasks is the inverse side of the association and is nil until loaded.
	Tasks []TaskRef
}

// Equal reports whether both tags refer to the same persisted entity.
func (t *Tag) Equal(other *Tag) bool {
	if t == nil || other == nil {
		return false
	}
	return t.ID != 0 && t.ID == other.ID
}

// Link associates task and tag on both in-memory sides. Each side keeps its
// own copy keyed by ID, so no reference cycle is created.
func Link(task *Task, tag *Tag) {
	if !containsTag(task.Tags, tag) {
		ref := *tag
		ref.Tasks = nil
		task.Tags = append(task.Tags, ref)
	}
	if !containsTask(tag.Tasks, task) {
		tag.Tasks = append(tag.Tasks, task.Ref())
	}
}

// Unlink removes the association from both in-memory sides.
func Unlink(task *Task, tag *Tag) {
	tags := task.Tags[:0]
	for _, t := range task.Tags {
		if !t.Equal(tag) {
			tags = append(tags, t)
		}
	}
	task.Tags = tags

	refs := tag.Tasks[:0]
	for _, ref := range tag.Tasks {
		if task.ID == 0 || ref.ID != task.ID {
			refs = append(refs, ref)
		}
	}
	tag.Tasks = refs
}

func containsTag(tags []Tag, tag *Tag) bool {
	for i := range tags {
		if tags[i].Equal(tag) {
			return true
		}
	}
	return false
}

func containsTask(refs []TaskRef, task *Task) bool {
	if task.ID == 0 {
		return false
	}
	for _, ref := range refs {
		if ref.ID == task.ID {
			return true
		}
	}
	return false
}

// Merge copies the non-nil fields of patch onto t.
func (t *Tag) Merge(patch *Tag) {
	if patch.Name != nil {
		t.Name = patch.Name
	}
}
