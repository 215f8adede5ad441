package journal

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/stepper"
)

const (
	recorderBuffer = 256
	publishTimeout = 5 * time.Second
)

// Publisher appends events to a journal.
type Publisher interface {
	PublishEvent(ctx context.Context, event Event) error
}

// storePublisher drops the ack so a Store satisfies Publisher.
type storePublisher struct{ *Store }

func (p storePublisher) PublishEvent(ctx context.Context, event Event) error {
	_, err := p.Store.PublishEvent(ctx, event)
	return err
}

// Recorder publishes journal events in the background so the stepper's
// callbacks never wait on the network.
type Recorder struct {
	pub    Publisher
	wizard string

	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	lastErr error
	unsubs  []func()
}

// NewRecorder starts a recorder publishing to store.
func NewRecorder(store *Store, wizard string) *Recorder {
	return newRecorder(storePublisher{store}, wizard)
}

func newRecorder(pub Publisher, wizard string) *Recorder {
	r := &Recorder{
		pub:    pub,
		wizard: wizard,
		events: make(chan Event, recorderBuffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := r.pub.PublishEvent(ctx, ev)
		cancel()
		if err != nil {
			logger.Warn("Journal publish failed: %v", err)
			r.mu.Lock()
			r.lastErr = err
			r.mu.Unlock()
		}
	}
}

// Attach records the stepper's selection changes and the first interaction
// of every current step. It must be called on the stepper's goroutine.
func (r *Recorder) Attach(s *stepper.Stepper) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unsubs = append(r.unsubs, s.OnSelectionChange(func(ev stepper.SelectionEvent) {
		id := ""
		if ev.SelectedStep != nil {
			id = ev.SelectedStep.ID()
		}
		r.Record(NewSelectionEvent(r.wizard, ev.PreviouslySelectedIndex, ev.SelectedIndex, id))
	}))
	for _, st := range s.Steps() {
		r.unsubs = append(r.unsubs, st.OnInteracted(func(st *stepper.Step) {
			r.Record(NewInteractionEvent(r.wizard, st.ID()))
		}))
	}
}

// RecordValue records a committed field value.
func (r *Recorder) RecordValue(stepID, value string) {
	r.Record(NewValueEvent(r.wizard, stepID, value))
}

// RecordReset records a wizard reset.
func (r *Recorder) RecordReset() {
	r.Record(NewResetEvent(r.wizard))
}

// Record queues an event. Events are dropped with a warning when the
// buffer is full or the recorder is closed.
func (r *Recorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.events <- ev:
	default:
		logger.Warn("Journal buffer full, dropping %s event", ev.Type)
	}
}

// Close stops recording, waits for queued events to be published and
// returns the last publish error, if any.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return r.err()
	}
	r.closed = true
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
	close(r.events)
	r.mu.Unlock()

	<-r.done
	return r.err()
}

func (r *Recorder) err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
