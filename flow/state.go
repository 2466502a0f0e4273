package flow

import (
	"encoding/json"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// State is the persisted snapshot of a checkout session. It is stored
// as a JSON blob under the caller's session key; the field names are
// part of the storage format.
type State struct {
	CurrentStep    step.Step                     `json:"currentStep"`
	CompletedSteps []step.Step                   `json:"completedSteps"`
	StepData       map[step.Step]json.RawMessage `json:"stepData"`
	LastSaved      time.Time                     `json:"lastSaved"`
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	cp := &State{
		CurrentStep:    s.CurrentStep,
		CompletedSteps: make([]step.Step, len(s.CompletedSteps)),
		StepData:       make(map[step.Step]json.RawMessage, len(s.StepData)),
		LastSaved:      s.LastSaved,
	}
	copy(cp.CompletedSteps, s.CompletedSteps)
	for k, v := range s.StepData {
		data := make(json.RawMessage, len(v))
		copy(data, v)
		cp.StepData[k] = data
	}
	return cp
}
