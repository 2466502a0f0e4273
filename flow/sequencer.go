package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/middleware"
	"github.com/chanderbhanswami/vardhman-mills-sub017/progress"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Emitter emits session-level lifecycle events.
// This interface is satisfied by hook.Registry; defining it here breaks
// the import cycle between flow and hook.
type Emitter interface {
	EmitSessionStarted(ctx context.Context, sessionKey string, first step.Step)
	EmitStepEntered(ctx context.Context, sessionKey string, s step.Step)
	EmitStepCompleted(ctx context.Context, sessionKey string, s step.Step, elapsed time.Duration)
	EmitValidationFailed(ctx context.Context, sessionKey string, s step.Step, errs []string)
	EmitSessionCompleted(ctx context.Context, sessionKey string, elapsed time.Duration)
	EmitSessionAbandoned(ctx context.Context, sessionKey string, last step.Step)
}

// noopEmitter is used when no hook registry is wired.
type noopEmitter struct{}

func (noopEmitter) EmitSessionStarted(context.Context, string, step.Step) {}

func (noopEmitter) EmitStepEntered(context.Context, string, step.Step) {}

func (noopEmitter) EmitStepCompleted(context.Context, string, step.Step, time.Duration) {}

func (noopEmitter) EmitValidationFailed(context.Context, string, step.Step, []string) {}

func (noopEmitter) EmitSessionCompleted(context.Context, string, time.Duration) {}

func (noopEmitter) EmitSessionAbandoned(context.Context, string, step.Step) {}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithSequence overrides the default step ordering.
func WithSequence(seq step.Sequence) Option {
	return func(s *Sequencer) { s.seq = seq }
}

// WithValidators sets the validator registry consulted before forward
// navigation.
func WithValidators(reg *step.Registry) Option {
	return func(s *Sequencer) { s.validators = reg }
}

// WithMiddleware sets the middleware chain wrapped around each
// validator call. The default chain is empty.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Sequencer) { s.chain = middleware.Chain(mws...) }
}

// WithStore sets the progress store used for auto-save and resume.
func WithStore(store Store) Option {
	return func(s *Sequencer) { s.store = store }
}

// WithHooks sets the lifecycle event emitter.
func WithHooks(e Emitter) Option {
	return func(s *Sequencer) { s.emitter = e }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithAutoSave toggles persistence after every transition. On by default.
func WithAutoSave(on bool) Option {
	return func(s *Sequencer) { s.autoSave = on }
}

// WithDebounce sets the quiet period for auto-save writes. Zero (the
// default) writes synchronously.
func WithDebounce(d time.Duration) Option {
	return func(s *Sequencer) { s.debounce = d }
}

// OnComplete registers the completion callback. It fires exactly once,
// when the final step's validation passes.
func OnComplete(fn func(ctx context.Context)) Option {
	return func(s *Sequencer) { s.onComplete = fn }
}

// Sequencer drives one checkout session through a step sequence.
// All methods are safe for concurrent use.
type Sequencer struct {
	key        string
	seq        step.Sequence
	validators *step.Registry
	chain      middleware.Middleware
	store      Store
	saver      *saver
	emitter    Emitter
	logger     *slog.Logger
	autoSave   bool
	debounce   time.Duration
	onComplete func(ctx context.Context)

	mu             sync.Mutex
	current        int
	completed      map[step.Step]bool
	completedOrder []step.Step
	stepData       map[step.Step]json.RawMessage
	lastErrors     []string
	validating     bool
	done           bool
	completedFired bool
	startedAt      time.Time
	enteredAt      time.Time
}

// NewSequencer creates a sequencer for the session identified by key.
// The key is also the persistence key for auto-saved progress.
func NewSequencer(key string, opts ...Option) (*Sequencer, error) {
	s := &Sequencer{
		key:       key,
		seq:       step.DefaultSequence(),
		chain:     middleware.Chain(),
		emitter:   noopEmitter{},
		logger:    slog.Default(),
		autoSave:  true,
		completed: make(map[step.Step]bool),
		stepData:  make(map[step.Step]json.RawMessage),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.seq.Validate(); err != nil {
		return nil, err
	}
	if s.store != nil {
		s.saver = newSaver(s.store, s.logger, s.debounce)
	}
	return s, nil
}

// Key returns the session key.
func (s *Sequencer) Key() string { return s.key }

// Sequence returns the step ordering.
func (s *Sequencer) Sequence() step.Sequence { return s.seq }

// Start begins the session at the first step and emits the start events.
func (s *Sequencer) Start(ctx context.Context) {
	s.mu.Lock()
	now := time.Now()
	s.startedAt = now
	s.enteredAt = now
	first := s.seq.First()
	s.mu.Unlock()

	s.emitter.EmitSessionStarted(ctx, s.key, first)
	s.emitter.EmitStepEntered(ctx, s.key, first)
	s.persist(ctx)
}

// Resume rehydrates the session from the store. It returns false with a
// nil error when no entry exists; a corrupt or inconsistent entry
// returns an error wrapping checkout.ErrCorruptState and leaves the
// sequencer untouched.
func (s *Sequencer) Resume(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, checkout.ErrNoStore
	}

	st, found, err := s.store.LoadProgress(ctx, s.key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	idx := s.seq.Index(st.CurrentStep)
	if idx < 0 {
		return false, fmt.Errorf("%w: current step %q not in sequence", checkout.ErrCorruptState, st.CurrentStep)
	}
	for _, c := range st.CompletedSteps {
		if !s.seq.Contains(c) {
			return false, fmt.Errorf("%w: completed step %q not in sequence", checkout.ErrCorruptState, c)
		}
	}

	s.mu.Lock()
	s.current = idx
	s.completed = make(map[step.Step]bool, len(st.CompletedSteps))
	s.completedOrder = make([]step.Step, 0, len(st.CompletedSteps))
	for _, c := range st.CompletedSteps {
		if !s.completed[c] {
			s.completed[c] = true
			s.completedOrder = append(s.completedOrder, c)
		}
	}
	s.stepData = make(map[step.Step]json.RawMessage, len(st.StepData))
	for k, v := range st.StepData {
		s.stepData[k] = v
	}
	now := time.Now()
	s.startedAt = now
	s.enteredAt = now
	cur := s.seq[s.current]
	s.mu.Unlock()

	s.emitter.EmitStepEntered(ctx, s.key, cur)
	return true, nil
}

// Current returns the step the session is on.
func (s *Sequencer) Current() step.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[s.current]
}

// CompletedSteps returns the completed steps in completion order.
func (s *Sequencer) CompletedSteps() []step.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]step.Step, len(s.completedOrder))
	copy(out, s.completedOrder)
	return out
}

// Errors returns the validation errors from the last failed GoToNext.
// It is empty after a successful transition.
func (s *Sequencer) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lastErrors))
	copy(out, s.lastErrors)
	return out
}

// Validating reports whether a validation is currently in flight.
func (s *Sequencer) Validating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validating
}

// Done reports whether the session has completed.
func (s *Sequencer) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// GoToNext validates the current step and, if valid, advances the flow.
// An invalid result records the errors and leaves the position
// unchanged; it is not an error. At the final step a valid result
// completes the session: the completion callback fires exactly once and
// the persisted entry is cleared.
func (s *Sequencer) GoToNext(ctx context.Context) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return checkout.ErrSessionCompleted
	}
	cur := s.seq[s.current]
	data := s.stepData[cur]
	s.validating = true
	s.mu.Unlock()

	result, verr := s.runValidator(ctx, cur, data)

	s.mu.Lock()
	s.validating = false

	if verr != nil {
		// Infrastructure failure during validation is surfaced to the
		// caller as a failed validation, never as a fatal error.
		s.logger.Error("step validation errored",
			slog.String("key", s.key),
			slog.String("step", cur.String()),
			slog.String("error", verr.Error()),
		)
		s.lastErrors = []string{"validation could not be completed"}
		errs := s.lastErrors
		s.mu.Unlock()
		s.emitter.EmitValidationFailed(ctx, s.key, cur, errs)
		return nil
	}

	if !result.Valid {
		s.lastErrors = result.Errors
		errs := s.lastErrors
		s.mu.Unlock()
		s.emitter.EmitValidationFailed(ctx, s.key, cur, errs)
		return nil
	}

	s.lastErrors = nil
	s.markCompletedLocked(cur)
	stepElapsed := time.Since(s.enteredAt)

	if s.seq.IsLast(cur) {
		s.done = true
		fire := !s.completedFired
		s.completedFired = true
		sessionElapsed := time.Since(s.startedAt)
		s.mu.Unlock()

		s.emitter.EmitStepCompleted(ctx, s.key, cur, stepElapsed)
		if fire && s.onComplete != nil {
			s.onComplete(ctx)
		}
		s.emitter.EmitSessionCompleted(ctx, s.key, sessionElapsed)
		s.clear(ctx)
		return nil
	}

	s.current++
	s.enteredAt = time.Now()
	next := s.seq[s.current]
	s.mu.Unlock()

	s.emitter.EmitStepCompleted(ctx, s.key, cur, stepElapsed)
	s.emitter.EmitStepEntered(ctx, s.key, next)
	s.persist(ctx)
	return nil
}

// GoToPrevious moves back one step. At the first step it is a no-op.
// Backward navigation never alters the completed set.
func (s *Sequencer) GoToPrevious(ctx context.Context) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return checkout.ErrSessionCompleted
	}
	if s.current == 0 {
		s.mu.Unlock()
		return nil
	}
	s.current--
	s.enteredAt = time.Now()
	s.lastErrors = nil
	cur := s.seq[s.current]
	s.mu.Unlock()

	s.emitter.EmitStepEntered(ctx, s.key, cur)
	s.persist(ctx)
	return nil
}

// GoToStep jumps directly to an earlier step. Jumping forward or to the
// current step is rejected.
func (s *Sequencer) GoToStep(ctx context.Context, target step.Step) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return checkout.ErrSessionCompleted
	}
	idx := s.seq.Index(target)
	if idx < 0 {
		s.mu.Unlock()
		return checkout.ErrUnknownStep
	}
	if idx >= s.current {
		s.mu.Unlock()
		return checkout.ErrForwardJump
	}
	s.current = idx
	s.enteredAt = time.Now()
	s.lastErrors = nil
	s.mu.Unlock()

	s.emitter.EmitStepEntered(ctx, s.key, target)
	s.persist(ctx)
	return nil
}

// CompleteStep marks the current step complete without navigating.
func (s *Sequencer) CompleteStep(ctx context.Context) {
	s.mu.Lock()
	cur := s.seq[s.current]
	s.markCompletedLocked(cur)
	elapsed := time.Since(s.enteredAt)
	s.mu.Unlock()

	s.emitter.EmitStepCompleted(ctx, s.key, cur, elapsed)
	s.persist(ctx)
}

// SaveData stores an opaque payload for a step. The payload is consumed
// by that step's validator and round-trips through persistence.
func (s *Sequencer) SaveData(ctx context.Context, st step.Step, v any) error {
	if !s.seq.Contains(st) {
		return checkout.ErrUnknownStep
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("flow: marshal data for step %s: %w", st, err)
	}

	s.mu.Lock()
	s.stepData[st] = data
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// GetData unmarshals the stored payload for a step into out. It returns
// false when no payload is stored.
func (s *Sequencer) GetData(st step.Step, out any) (bool, error) {
	s.mu.Lock()
	data, ok := s.stepData[st]
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("flow: unmarshal data for step %s: %w", st, err)
	}
	return true, nil
}

// Data returns the raw stored payload for a step.
func (s *Sequencer) Data(st step.Step) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.stepData[st]
	return data, ok
}

// Progress returns the progress indicator state for the session.
func (s *Sequencer) Progress() progress.Snapshot {
	s.mu.Lock()
	cur := s.seq[s.current]
	completed := make(map[step.Step]bool, len(s.completed))
	for k, v := range s.completed {
		completed[k] = v
	}
	s.mu.Unlock()

	return progress.Compute(s.seq, cur, completed)
}

// Snapshot returns the state as it would be persisted.
func (s *Sequencer) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Abandon discards the session: the abandoned event fires and the
// persisted entry is cleared.
func (s *Sequencer) Abandon(ctx context.Context) {
	s.mu.Lock()
	cur := s.seq[s.current]
	s.done = true
	s.mu.Unlock()

	s.emitter.EmitSessionAbandoned(ctx, s.key, cur)
	s.clear(ctx)
}

// Flush forces any debounced save to the store immediately.
func (s *Sequencer) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Flush(ctx)
}

// ──────────────────────────────────────────────────
// internals
// ──────────────────────────────────────────────────

func (s *Sequencer) runValidator(ctx context.Context, cur step.Step, data json.RawMessage) (step.ValidationResult, error) {
	var v step.Validator
	if s.validators != nil {
		if reg, ok := s.validators.Get(cur); ok {
			v = reg
		}
	}
	if v == nil {
		return step.OK(), nil
	}

	c := &step.Check{Step: cur, SessionKey: s.key, Data: data}
	err := s.chain(ctx, c, func(ctx context.Context) error {
		res, verr := v(ctx, c.Data)
		if verr != nil {
			return verr
		}
		c.Result = res
		return nil
	})
	if err != nil {
		return step.ValidationResult{}, err
	}
	return c.Result, nil
}

// markCompletedLocked adds a step to the completed set. The set grows
// monotonically; re-completing is a no-op.
func (s *Sequencer) markCompletedLocked(st step.Step) {
	if !s.completed[st] {
		s.completed[st] = true
		s.completedOrder = append(s.completedOrder, st)
	}
}

func (s *Sequencer) snapshotLocked() *State {
	st := &State{
		CurrentStep:    s.seq[s.current],
		CompletedSteps: make([]step.Step, len(s.completedOrder)),
		StepData:       make(map[step.Step]json.RawMessage, len(s.stepData)),
		LastSaved:      time.Now().UTC(),
	}
	copy(st.CompletedSteps, s.completedOrder)
	for k, v := range s.stepData {
		st.StepData[k] = v
	}
	return st
}

func (s *Sequencer) persist(ctx context.Context) {
	if !s.autoSave || s.saver == nil {
		return
	}
	s.mu.Lock()
	st := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.saver.Save(ctx, s.key, st); err != nil {
		s.logger.Error("progress save failed",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Sequencer) clear(ctx context.Context) {
	if s.saver == nil {
		return
	}
	s.saver.Discard()
	if err := s.store.ClearProgress(ctx, s.key); err != nil {
		s.logger.Error("progress clear failed",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}
}
