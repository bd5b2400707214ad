package estimate

import (
	"encoding/json"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

func item(id string, volume float64) LineItem {
	return LineItem{
		ID:         id,
		Element:    model.ElementColumn,
		Inputs:     Input{RoleWidth: 0.3},
		Results:    map[string]float64{ResultVolume: volume},
		Quantities: model.Quantities{VolumeM3: volume},
	}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()
	s := NewSheet("test")

	h.Push(MakeSnapshot(s, "initial"))
	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	s.Add(item("c1", 0.25))
	restored, ok := h.Undo(MakeSnapshot(s, "current"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Items) != 0 {
		t.Errorf("expected 0 items after undo, got %d", len(restored.Items))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	s := NewSheet("test")

	h.Push(MakeSnapshot(s, "empty"))
	s.Add(item("c1", 0.25))
	h.Push(MakeSnapshot(s, "one item"))
	s.Add(item("c2", 0.5))

	restored, ok := h.Undo(MakeSnapshot(s, "two items"))
	if !ok || len(restored.Items) != 1 {
		t.Fatalf("expected 1 item after undo, got %d (ok=%v)", len(restored.Items), ok)
	}
	s.Restore(restored)
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	redone, ok := h.Redo(MakeSnapshot(s, "one item"))
	if !ok || len(redone.Items) != 2 {
		t.Fatalf("expected 2 items after redo, got %d (ok=%v)", len(redone.Items), ok)
	}
	if redone.Label != "two items" {
		t.Errorf("expected label 'two items', got %q", redone.Label)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(Snapshot{Label: "a"})
	h.Undo(Snapshot{Label: "b"})
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	h.Push(Snapshot{Label: "c"})
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestMaxDepth(t *testing.T) {
	h := NewHistory()
	for i := 0; i < defaultMaxDepth+10; i++ {
		h.Push(Snapshot{Label: "step"})
	}
	if len(h.undoStack) != defaultMaxDepth {
		t.Errorf("expected undo stack capped at %d, got %d", defaultMaxDepth, len(h.undoStack))
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewSheet("test")
	s.Add(item("c1", 0.25))
	snap := MakeSnapshot(s, "before edit")

	s.Items[0].Results[ResultVolume] = 9
	s.Items[0].Inputs[RoleWidth] = 9

	if got := snap.Items[0].Results[ResultVolume]; got != 0.25 {
		t.Errorf("snapshot results changed to %v", got)
	}
	if got := snap.Items[0].Inputs[RoleWidth]; got != 0.3 {
		t.Errorf("snapshot inputs changed to %v", got)
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(Snapshot{})
	h.Undo(Snapshot{})
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("clear should empty both stacks")
	}
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Push(Snapshot{Label: "first", Items: []LineItem{item("c1", 0.25)}})
	h.Push(Snapshot{Label: "second"})
	h.Undo(Snapshot{Label: "current"})

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored := NewHistory()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	undo, redo := restored.Labels()
	if len(undo) != 1 || undo[0] != "first" {
		t.Errorf("undo labels = %v, want [first]", undo)
	}
	if len(redo) != 1 || redo[0] != "current" {
		t.Errorf("redo labels = %v, want [current]", redo)
	}
	snap, ok := restored.Undo(Snapshot{Label: "now"})
	if !ok {
		t.Fatal("expected an undoable snapshot")
	}
	if got := snap.Items[0].Results[ResultVolume]; got != 0.25 {
		t.Errorf("restored volume = %v, want 0.25", got)
	}
}
