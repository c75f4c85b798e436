package main

import (
	"fmt"
	"sort"
)

// ChangeSet records how the grid diverges from its snapshot. Row indices in
// Edited and Deleted are positions in the snapshot, not primary keys.
type ChangeSet struct {
	Edited  map[int]map[string]interface{}
	Deleted map[int]struct{}
	Added   []Row
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Edited:  make(map[int]map[string]interface{}),
		Deleted: make(map[int]struct{}),
	}
}

func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.Edited) == 0 && len(cs.Deleted) == 0 && len(cs.Added) == 0
}

func (cs *ChangeSet) Edit(row int, column string, value interface{}) {
	cells, ok := cs.Edited[row]
	if !ok {
		cells = make(map[string]interface{})
		cs.Edited[row] = cells
	}
	cells[column] = value
}

func (cs *ChangeSet) Unedit(row int, column string) {
	cells, ok := cs.Edited[row]
	if !ok {
		return
	}
	delete(cells, column)
	if len(cells) == 0 {
		delete(cs.Edited, row)
	}
}

func (cs *ChangeSet) EditedValue(row int, column string) (interface{}, bool) {
	cells, ok := cs.Edited[row]
	if !ok {
		return nil, false
	}
	val, ok := cells[column]
	return val, ok
}

func (cs *ChangeSet) IsDeleted(row int) bool {
	_, ok := cs.Deleted[row]
	return ok
}

func (cs *ChangeSet) EditedIndices() []int {
	out := make([]int, 0, len(cs.Edited))
	for idx := range cs.Edited {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func (cs *ChangeSet) DeletedIndices() []int {
	out := make([]int, 0, len(cs.Deleted))
	for idx := range cs.Deleted {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Clone returns a deep copy safe to hand to a background save.
func (cs *ChangeSet) Clone() *ChangeSet {
	out := NewChangeSet()
	for idx, cells := range cs.Edited {
		for col, val := range cells {
			out.Edit(idx, col, val)
		}
	}
	for idx := range cs.Deleted {
		out.Deleted[idx] = struct{}{}
	}
	for _, row := range cs.Added {
		out.Added = append(out.Added, row.Clone())
	}
	return out
}

func (cs *ChangeSet) Summary() string {
	cells := 0
	for _, c := range cs.Edited {
		cells += len(c)
	}
	return fmt.Sprintf("%d cell(s) edited, %d row(s) deleted, %d row(s) added",
		cells, len(cs.Deleted), len(cs.Added))
}
