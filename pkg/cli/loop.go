package cli

import (
	"context"
	"sync"
)

// Buffer size of the input channel. The value is chosen for no particular
// reason.
const inputChSize = 128

// A generic main loop manager.
type loop struct {
	inputCh  chan event
	handleCb handleCb
	returnCh chan error
	// Closed when Run returns.
	done     chan struct{}
	doneOnce sync.Once
}

// A placeholder type for events.
type event any

// Callback for handling an event. The context identifies the loop as the
// owner of the state the callback operates on.
type handleCb func(context.Context, event)

func dummyHandleCb(context.Context, event) {}

// newLoop creates a new loop instance.
func newLoop() *loop {
	return &loop{
		inputCh:  make(chan event, inputChSize),
		handleCb: dummyHandleCb,
		returnCh: make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// HandleCb sets the handle callback. It must be called before any Run call.
func (lp *loop) HandleCb(cb handleCb) {
	lp.handleCb = cb
}

// Input provides an event. It may block if the internal event buffer is full,
// but never waits for the event to be handled. Once Run has returned, events
// are dropped.
func (lp *loop) Input(ev event) {
	select {
	case lp.inputCh <- ev:
	case <-lp.done:
		logger.Debug("loop has stopped, dropping event", "event", ev)
	}
}

// Return requests the main loop to return. It never blocks. If Return has been
// called before during the current loop iteration, it has no effect.
func (lp *loop) Return(err error) {
	select {
	case lp.returnCh <- err:
	default:
	}
}

// HasReturned returns whether Return has been called during the current loop
// iteration.
func (lp *loop) HasReturned() bool {
	return len(lp.returnCh) == 1
}

// Run runs the event loop, until the Return method is called or ctx is done.
// It is fully serial: it does not spawn any goroutines and never calls two
// callbacks in parallel, so the callbacks may manipulate shared states without
// synchronization among themselves.
func (lp *loop) Run(ctx context.Context) error {
	defer lp.doneOnce.Do(func() { close(lp.done) })
	for {
		select {
		case ev := <-lp.inputCh:
			lp.handleCb(ctx, ev)
			select {
			case err := <-lp.returnCh:
				return err
			default:
			}
		case err := <-lp.returnCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
