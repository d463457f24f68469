// Package tick runs cooperative tasks that advance one frame at a time.
//
// A task body runs on its own goroutine but only while the driver is blocked
// inside Task.Tick, so the driver and the body never run at the same time.
// Every suspension point is an explicit call on the Yielder.
package tick

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrStopped is returned from suspension points once the task has been stopped.
var ErrStopped = errors.New("tick: task stopped")

// Task is a cooperatively scheduled unit of work.
type Task struct {
	resume   chan time.Duration
	parked   chan struct{}
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	err      error
}

// Start prepares body to run. The body does not execute until the first Tick.
func Start(body func(*Yielder) error) *Task {
	t := &Task{
		resume: make(chan time.Duration),
		parked: make(chan struct{}),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go t.run(body)
	return t
}

func (t *Task) run(body func(*Yielder) error) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("tick: task panicked: %v", r)
		}
	}()

	select {
	case <-t.resume:
	case <-t.stop:
		t.err = ErrStopped
		return
	}
	t.err = body(&Yielder{task: t})
}

// Tick resumes the task for one frame with the elapsed time since the previous
// frame and blocks until it yields again. It returns false once the task has
// finished.
func (t *Task) Tick(dt time.Duration) bool {
	select {
	case <-t.done:
		return false
	case t.resume <- dt:
	}
	select {
	case <-t.parked:
		return true
	case <-t.done:
		return false
	}
}

// Stop makes every pending and future suspension return ErrStopped.
func (t *Task) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Done is closed when the body has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the body's result. It is only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
