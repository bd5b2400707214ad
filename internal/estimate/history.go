package estimate

import "encoding/json"

const defaultMaxDepth = 50

// Snapshot captures the sheet items at a point in time.
type Snapshot struct {
	Items []LineItem `json:"items"`
	Label string     `json:"label"` // Human-readable description (e.g. "Add Beam")
}

// History manages undo/redo stacks of sheet snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the edit is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo returns the snapshot to restore and records current for redo.
// It returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// Labels returns the labels of the undoable and redoable edits, most
// recent first.
func (h *History) Labels() (undo, redo []string) {
	for i := len(h.undoStack) - 1; i >= 0; i-- {
		undo = append(undo, h.undoStack[i].Label)
	}
	for i := len(h.redoStack) - 1; i >= 0; i-- {
		redo = append(redo, h.redoStack[i].Label)
	}
	return undo, redo
}

type historyJSON struct {
	Undo []Snapshot `json:"undo"`
	Redo []Snapshot `json:"redo"`
}

// MarshalJSON writes both stacks, oldest first.
func (h *History) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyJSON{Undo: h.undoStack, Redo: h.redoStack})
}

// UnmarshalJSON restores both stacks, keeping the newest snapshots when
// the undo stack exceeds the default depth.
func (h *History) UnmarshalJSON(data []byte) error {
	var v historyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v.Undo) > defaultMaxDepth {
		v.Undo = v.Undo[len(v.Undo)-defaultMaxDepth:]
	}
	h.undoStack = v.Undo
	h.redoStack = v.Redo
	h.maxDepth = defaultMaxDepth
	return nil
}

// MakeSnapshot deep-copies the sheet items under a label.
func MakeSnapshot(s Sheet, label string) Snapshot {
	return Snapshot{Items: copyItems(s.Items), Label: label}
}

// Restore replaces the sheet items with the snapshot's.
func (s *Sheet) Restore(snap Snapshot) {
	s.Items = copyItems(snap.Items)
}

func copyItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	cp := make([]LineItem, len(items))
	for i, it := range items {
		cp[i] = it
		cp[i].Inputs = copyInput(it.Inputs)
		cp[i].Results = make(map[string]float64, len(it.Results))
		for k, v := range it.Results {
			cp[i].Results[k] = v
		}
	}
	return cp
}
