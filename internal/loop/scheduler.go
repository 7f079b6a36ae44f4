package loop

import "time"

// FrameID identifies a scheduled callback. Zero is never issued.
type FrameID uint64

// Scheduler queues callbacks for the next frame or after a delay
type Scheduler interface {
	// Request runs fn on the next frame.
	Request(fn func()) FrameID
	// After runs fn on the first frame at least d from now.
	After(d time.Duration, fn func()) FrameID
	// Cancel drops a pending callback. Unknown or fired ids are ignored.
	Cancel(id FrameID)
}

type task struct {
	id    FrameID
	due   time.Time
	timed bool
	fn    func()
}

// FrameScheduler is a Scheduler driven by explicit Pump calls: the ebiten
// Update hook in a window, a fixed-step loop when headless, a test directly.
type FrameScheduler struct {
	now    time.Time
	nextID FrameID
	tasks  []task

	// ids of the batch being pumped that have not run yet
	inflight map[FrameID]struct{}
}

// NewFrameScheduler creates a scheduler whose clock starts at start
func NewFrameScheduler(start time.Time) *FrameScheduler {
	return &FrameScheduler{now: start, inflight: make(map[FrameID]struct{})}
}

func (s *FrameScheduler) Request(fn func()) FrameID {
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *FrameScheduler) After(d time.Duration, fn func()) FrameID {
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, due: s.now.Add(d), timed: true, fn: fn})
	return s.nextID
}

func (s *FrameScheduler) Cancel(id FrameID) {
	delete(s.inflight, id)
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued callbacks
func (s *FrameScheduler) Pending() int {
	return len(s.tasks) + len(s.inflight)
}

// Now returns the time of the last pump
func (s *FrameScheduler) Now() time.Time {
	return s.now
}

// Pump advances the clock to now and runs every callback that was due
// before the pump started. Callbacks queued while pumping wait for the next
// pump, so a self-rescheduling frame runs once per call. It returns the
// number of callbacks run.
func (s *FrameScheduler) Pump(now time.Time) int {
	if now.After(s.now) {
		s.now = now
	}
	var due []task
	pending := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.timed && s.now.Before(t.due) {
			pending = append(pending, t)
			continue
		}
		due = append(due, t)
		s.inflight[t.id] = struct{}{}
	}
	s.tasks = pending

	ran := 0
	for _, t := range due {
		if _, ok := s.inflight[t.id]; !ok {
			continue // cancelled by an earlier callback
		}
		delete(s.inflight, t.id)
		t.fn()
		ran++
	}
	return ran
}
