// Package progress computes the visual state of the checkout progress
// indicator from sequencer state. It is pure: no I/O, no stored state.
package progress

import (
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Status is the visual state of one step in the indicator.
type Status string

const (
	// StatusComplete marks steps before the current position.
	StatusComplete Status = "complete"
	// StatusActive marks the current step.
	StatusActive Status = "active"
	// StatusPending marks steps after the current position.
	StatusPending Status = "pending"
)

// StepState is the rendered state of one step.
type StepState struct {
	Step   step.Step `json:"step"`
	Title  string    `json:"title"`
	Index  int       `json:"index"`
	Status Status    `json:"status"`
	// Completed reports membership in the completed set. A completed
	// step is eligible for a backward jump.
	Completed bool `json:"completed"`
}

// Snapshot is the full progress indicator state for one session.
type Snapshot struct {
	Steps        []StepState `json:"steps"`
	CurrentIndex int         `json:"currentIndex"`
	Total        int         `json:"total"`
	// Percent is (currentIndex+1)/total*100, unrounded.
	Percent float64 `json:"percent"`
}

// Compute derives a Snapshot from the sequence, the current step, and
// the set of completed steps. A current step not in the sequence yields
// a snapshot with every step pending and Percent zero.
func Compute(seq step.Sequence, current step.Step, completed map[step.Step]bool) Snapshot {
	idx := seq.Index(current)

	snap := Snapshot{
		Steps:        make([]StepState, len(seq)),
		CurrentIndex: idx,
		Total:        len(seq),
	}
	if idx >= 0 && len(seq) > 0 {
		snap.Percent = float64(idx+1) / float64(len(seq)) * 100
	}

	for i, s := range seq {
		st := StepState{
			Step:      s,
			Title:     step.DisplayName(s),
			Index:     i,
			Status:    StatusPending,
			Completed: completed[s],
		}
		switch {
		case idx < 0:
			// keep pending
		case i < idx:
			st.Status = StatusComplete
		case i == idx:
			st.Status = StatusActive
		}
		snap.Steps[i] = st
	}

	return snap
}
