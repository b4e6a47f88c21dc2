package engine

import (
	"fmt"
	"sync"
	"time"
)

// Lifecycle signal kinds emitted under the recording category.
const (
	SignalCategoryRecording = "recording"

	SignalStart    = "start"
	SignalStopping = "stopping"
	SignalStop     = "stop"
	SignalWrote    = "wrote"
)

// DefaultSignalTimeout bounds every wait on an engine lifecycle signal.
const DefaultSignalTimeout = 5 * time.Second

// Signal is one lifecycle event emitted by the engine. Signals are
// consumed exactly once, in emission order.
type Signal struct {
	Category string `json:"category"`
	Kind     string `json:"kind"`
}

// SignalTimeoutError reports that no signal arrived within the wait
// window.
type SignalTimeoutError struct {
	Expected string
	Timeout  time.Duration
}

func (e *SignalTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %q signal", e.Timeout, e.Expected)
}

// UnexpectedSignalError reports that the engine emitted a signal other
// than the one the protocol called for. The offending signal has been
// consumed.
type UnexpectedSignalError struct {
	Expected string
	Signal   Signal
}

func (e *UnexpectedSignalError) Error() string {
	return fmt.Sprintf("expected %q signal, engine sent %s/%s",
		e.Expected, e.Signal.Category, e.Signal.Kind)
}

// SignalQueue is an unbounded FIFO fed by the engine's callback thread
// and drained by the control flow driving start/stop. Push never
// blocks, so it is safe from any execution context.
type SignalQueue struct {
	mu     sync.Mutex
	items  []Signal
	notify chan struct{}
}

func NewSignalQueue() *SignalQueue {
	return &SignalQueue{notify: make(chan struct{}, 1)}
}

// Push appends a signal. Called from the engine callback.
func (q *SignalQueue) Push(sig Signal) {
	q.mu.Lock()
	q.items = append(q.items, sig)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len reports how many signals are queued and unconsumed.
func (q *SignalQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Await pops the next signal, waiting up to timeout for one to arrive.
// A queued signal resolves immediately. On timeout nothing is consumed
// and the queue position is unchanged, so a late signal is seen by the
// next Await. A popped signal whose category is not "recording" or
// whose kind differs from expected fails with UnexpectedSignalError.
func (q *SignalQueue) Await(expected string, timeout time.Duration) (Signal, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			sig := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			if sig.Category != SignalCategoryRecording || sig.Kind != expected {
				return sig, &UnexpectedSignalError{Expected: expected, Signal: sig}
			}
			return sig, nil
		}
		q.mu.Unlock()

		// The notify token may be stale (left over from a signal that a
		// previous Await already consumed), so re-check the queue on
		// every wakeup instead of trusting the token.
		select {
		case <-q.notify:
		case <-timer.C:
			return Signal{}, &SignalTimeoutError{Expected: expected, Timeout: timeout}
		}
	}
}
