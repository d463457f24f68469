package tick

import "time"

// Yielder is the handle a task body uses to suspend itself.
type Yielder struct {
	task *Task
}

// Frame suspends until the next tick and returns that tick's delta.
func (y *Yielder) Frame() (time.Duration, error) {
	select {
	case y.task.parked <- struct{}{}:
	case <-y.task.stop:
		return 0, ErrStopped
	}
	select {
	case dt := <-y.task.resume:
		return dt, nil
	case <-y.task.stop:
		return 0, ErrStopped
	}
}

// Sleep suspends until at least d of tick time has elapsed.
func (y *Yielder) Sleep(d time.Duration) error {
	var waited time.Duration
	for waited < d {
		dt, err := y.Frame()
		if err != nil {
			return err
		}
		waited += dt
	}
	return nil
}

// Poll checks cond and, while it is false, sleeps for interval before checking
// again. It returns immediately when cond already holds.
func (y *Yielder) Poll(interval time.Duration, cond func() bool) error {
	for !cond() {
		if err := y.Sleep(interval); err != nil {
			return err
		}
	}
	return nil
}

// WaitWhile yields one frame at a time for as long as cond holds.
func (y *Yielder) WaitWhile(cond func() bool) error {
	for cond() {
		if _, err := y.Frame(); err != nil {
			return err
		}
	}
	return nil
}
