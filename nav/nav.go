// Package nav models the checkout navigation controls: the Back/Next
// buttons with per-step labels, the save-and-exit flow with its
// confirmation prompt, and keyboard activation.
package nav

import (
	"context"
	"sync"

	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Key identifies a keyboard activation.
type Key string

const (
	// KeyEnter triggers the Next action.
	KeyEnter Key = "enter"
	// KeyEscape dismisses the exit-confirmation prompt.
	KeyEscape Key = "escape"
)

// Controls is the render state of the navigation bar for one step.
type Controls struct {
	Step step.Step `json:"step"`

	NextLabel string `json:"nextLabel"`
	BackLabel string `json:"backLabel"`

	// NextDisabled is set while validation is in flight or while the
	// last validation's errors are outstanding.
	NextDisabled bool `json:"nextDisabled"`

	// BackHidden is set on the first step, where backward navigation
	// is a no-op.
	BackHidden bool `json:"backHidden"`

	// Errors carries the outstanding validation errors for display.
	Errors []string `json:"errors,omitempty"`

	// ExitPromptVisible is set while the save-and-exit confirmation
	// prompt is showing.
	ExitPromptVisible bool `json:"exitPromptVisible"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithExitConfirmation toggles the exit-confirmation prompt. On by
// default; when off, RequestExit exits immediately.
func WithExitConfirmation(on bool) Option {
	return func(c *Controller) { c.exitConfirmation = on }
}

// Controller drives the navigation controls for one sequencer.
// All methods are safe for concurrent use.
type Controller struct {
	seq              *flow.Sequencer
	exitConfirmation bool

	mu                sync.Mutex
	exitPromptVisible bool
}

// NewController wraps a sequencer with navigation control state.
func NewController(seq *flow.Sequencer, opts ...Option) *Controller {
	c := &Controller{seq: seq, exitConfirmation: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Controls returns the current render state.
func (c *Controller) Controls() Controls {
	cur := c.seq.Current()
	labels := step.LabelsFor(cur)
	errs := c.seq.Errors()

	c.mu.Lock()
	prompt := c.exitPromptVisible
	c.mu.Unlock()

	return Controls{
		Step:              cur,
		NextLabel:         labels.Next,
		BackLabel:         labels.Back,
		NextDisabled:      c.seq.Validating() || len(errs) > 0,
		BackHidden:        c.seq.Sequence().Index(cur) == 0,
		Errors:            errs,
		ExitPromptVisible: prompt,
	}
}

// Next triggers forward navigation. While Next is disabled the call is
// a no-op.
func (c *Controller) Next(ctx context.Context) error {
	if c.Controls().NextDisabled {
		return nil
	}
	return c.seq.GoToNext(ctx)
}

// Back triggers backward navigation.
func (c *Controller) Back(ctx context.Context) error {
	return c.seq.GoToPrevious(ctx)
}

// Retry re-runs validation for the current step after a failure.
// Unlike Next it ignores outstanding errors.
func (c *Controller) Retry(ctx context.Context) error {
	return c.seq.GoToNext(ctx)
}

// RequestExit starts the save-and-exit flow. With confirmation enabled
// the first call shows the prompt and returns false; ConfirmExit
// completes the exit. With confirmation disabled the exit happens
// immediately.
func (c *Controller) RequestExit(ctx context.Context) (bool, error) {
	if c.exitConfirmation {
		c.mu.Lock()
		c.exitPromptVisible = true
		c.mu.Unlock()
		return false, nil
	}
	return true, c.seq.Flush(ctx)
}

// ConfirmExit completes a pending save-and-exit: progress is flushed to
// the store and the prompt is dismissed.
func (c *Controller) ConfirmExit(ctx context.Context) error {
	c.mu.Lock()
	c.exitPromptVisible = false
	c.mu.Unlock()
	return c.seq.Flush(ctx)
}

// DismissExit hides the exit-confirmation prompt without exiting.
func (c *Controller) DismissExit() {
	c.mu.Lock()
	c.exitPromptVisible = false
	c.mu.Unlock()
}

// HandleKey maps keyboard activation onto navigation actions: Enter
// triggers Next, Escape dismisses the exit prompt. Other keys are
// ignored.
func (c *Controller) HandleKey(ctx context.Context, k Key) error {
	switch k {
	case KeyEnter:
		return c.Next(ctx)
	case KeyEscape:
		c.DismissExit()
		return nil
	default:
		return nil
	}
}
