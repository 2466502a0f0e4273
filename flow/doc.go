// Package flow implements the checkout step sequencer.
//
// A [Sequencer] drives one checkout session through an ordered
// [step.Sequence]: forward navigation runs the step's validator through
// a middleware chain, backward navigation is always allowed, and jumps
// are restricted to previously visited steps. Every transition is
// persisted to a [Store] (when auto-save is on) and fanned out to
// lifecycle hooks.
//
// Validation failures are a normal outcome: they populate the
// sequencer's error list and leave the position unchanged. They never
// escape as errors.
//
//	seq, _ := flow.NewSequencer("user:42",
//	    flow.WithStore(st),
//	    flow.WithValidators(reg),
//	    flow.OnComplete(func(ctx context.Context) { placeOrder(ctx) }),
//	)
//	seq.Start(ctx)
//	_ = seq.GoToNext(ctx)
package flow
