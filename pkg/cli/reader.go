// Package cli implements the owner of the live command line: a Reader keeps
// the buffer being edited and serializes all changes to it through a main
// loop.
package cli

import (
	"context"
	"sync"

	"github.com/Gaelan/fish-shell/pkg/logutil"
)

var logger = logutil.GetLogger("[cli] ")

// ReaderSpec specifies the configuration and initial state for a Reader.
type ReaderSpec struct {
	// Called on the owning context after a buffer has been applied.
	AfterApply func(Buffer)
	// Called on the owning context with input functions the Reader has no
	// built-in behavior for.
	UnhandledInput func(InputFunction)

	// Initial state.
	State State
}

// Reader owns the live command line. Its state can be read from any goroutine
// via Snapshot, but is only changed by the goroutine running Run (the owning
// context), or through MutateState.
type Reader struct {
	// Mutex for synchronizing access to state and transient.
	stateMutex sync.RWMutex
	state      State
	transient  []string

	afterApply     func(Buffer)
	unhandledInput func(InputFunction)

	loop *loop
}

// Events handled by the loop.
type (
	applyEvent struct{ buffer Buffer }
	inputEvent struct{ fn InputFunction }
	callEvent  struct{ f func(context.Context) }
)

// ownerKey marks a context as belonging to the loop of a Reader.
type ownerKey struct{}

// NewReader creates a new Reader from the given spec.
func NewReader(spec ReaderSpec) *Reader {
	if spec.AfterApply == nil {
		spec.AfterApply = func(Buffer) {}
	}
	if spec.UnhandledInput == nil {
		spec.UnhandledInput = func(InputFunction) {}
	}
	r := &Reader{
		state:          spec.State,
		afterApply:     spec.AfterApply,
		unhandledInput: spec.UnhandledInput,
		loop:           newLoop(),
	}
	r.state.Buffer = r.state.Buffer.Clamped()
	if s := &r.state; s.SelectionActive {
		// The anchor is the end of the selection away from the cursor.
		s.selectionAnchor = s.Selection.From
		if s.Buffer.Cursor == s.Selection.From {
			s.selectionAnchor = s.Selection.To
		}
	}
	r.loop.HandleCb(r.handle)
	return r
}

// Snapshot returns a copy of the current state.
func (r *Reader) Snapshot() Snapshot {
	r.stateMutex.RLock()
	defer r.stateMutex.RUnlock()
	s := Snapshot{State: r.state}
	if n := len(r.transient); n > 0 {
		s.Transient, s.HasTransient = r.transient[n-1], true
	}
	return s
}

// MutateState calls the given function while holding the state mutex.
func (r *Reader) MutateState(f func(*State)) {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()
	f(&r.state)
}

// IsOwner reports whether ctx belongs to the loop of this Reader, that is,
// whether it was passed to a callback invoked by Run.
func (r *Reader) IsOwner(ctx context.Context) bool {
	owner, _ := ctx.Value(ownerKey{}).(*Reader)
	return owner == r
}

// Apply replaces the buffer. If ctx belongs to the owning context, the buffer
// is replaced before Apply returns. Otherwise it is queued for the loop, and
// Apply returns without waiting for the loop to get to it; the change becomes
// visible in a later Snapshot.
func (r *Reader) Apply(ctx context.Context, b Buffer) {
	if r.IsOwner(ctx) {
		r.setBuffer(b)
		return
	}
	logger.Debug("queueing buffer", "cursor", b.Cursor)
	r.loop.Input(applyEvent{b})
}

// QueueInput queues an input function to be executed by the loop. Like Apply,
// it executes the function immediately when ctx belongs to the owning context.
func (r *Reader) QueueInput(ctx context.Context, fn InputFunction) {
	if r.IsOwner(ctx) {
		r.handle(ctx, inputEvent{fn})
		return
	}
	r.loop.Input(inputEvent{fn})
}

// Do queues f to be called on the owning context. Since the loop handles
// events in order, f runs after everything queued before it.
func (r *Reader) Do(f func(context.Context)) {
	r.loop.Input(callEvent{f})
}

// Run runs the main loop until Return is called or ctx is done. It must be
// called at most once. After it returns, Apply, QueueInput and Do from
// non-owning contexts no longer block and their changes are dropped.
func (r *Reader) Run(ctx context.Context) error {
	return r.loop.Run(context.WithValue(ctx, ownerKey{}, r))
}

// Return makes Run return. It never blocks.
func (r *Reader) Return() {
	r.loop.Return(nil)
}

// PushTransient makes text stand in for the buffer in snapshots until the
// returned function is called. Transient command lines nest; the most recently
// pushed one is visible.
func (r *Reader) PushTransient(text string) (pop func()) {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()
	r.transient = append(r.transient, text)
	depth := len(r.transient)
	var once sync.Once
	return func() {
		once.Do(func() {
			r.stateMutex.Lock()
			defer r.stateMutex.Unlock()
			r.transient = r.transient[:depth-1]
		})
	}
}

func (r *Reader) handle(ctx context.Context, ev event) {
	switch ev := ev.(type) {
	case applyEvent:
		r.setBuffer(ev.buffer)
	case inputEvent:
		var handled bool
		r.MutateState(func(s *State) { handled = execInput(s, ev.fn) })
		if !handled {
			logger.Debug("unhandled input function", "name", ev.fn)
			r.unhandledInput(ev.fn)
		}
	case callEvent:
		ev.f(ctx)
	default:
		logger.Warn("unknown event", "event", ev)
	}
}

func (r *Reader) setBuffer(b Buffer) {
	b = b.Clamped()
	r.MutateState(func(s *State) { s.Buffer = b })
	logger.Debug("applied buffer", "len", b.Len(), "cursor", b.Cursor)
	r.afterApply(b)
}
