package step

import (
	"context"
	"encoding/json"
	"sync"
)

// ValidationResult reports the outcome of validating a step's data.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// OK is a passing validation result.
func OK() ValidationResult { return ValidationResult{Valid: true} }

// Fail builds a failing result from one or more error messages.
func Fail(msgs ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: msgs}
}

// Validator checks the data collected for a step before the flow may
// advance past it. A failing result is a normal outcome; the returned
// error is reserved for infrastructure failures (e.g. an address
// verification call that could not be made).
type Validator func(ctx context.Context, data json.RawMessage) (ValidationResult, error)

// Check is one validation invocation. It is the subject passed through
// the validator middleware chain; the terminal handler fills in Result.
type Check struct {
	Step       Step
	SessionKey string
	Data       json.RawMessage
	Result     ValidationResult
}

// Registry maps steps to their validators. Steps without a registered
// validator pass automatically.
type Registry struct {
	mu         sync.RWMutex
	validators map[Step]Validator
}

// NewRegistry returns an empty validator registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[Step]Validator)}
}

// Register installs a validator for a step, replacing any previous one.
func (r *Registry) Register(s Step, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[s] = v
}

// Get returns the validator for a step, if one is registered.
func (r *Registry) Get(s Step) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[s]
	return v, ok
}
