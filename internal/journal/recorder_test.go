package journal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mark3labs/stepr/internal/nats"
	"github.com/mark3labs/stepr/internal/stepper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *memPublisher) PublishEvent(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *memPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func newTestStepper() *stepper.Stepper {
	s := stepper.New()
	s.SetSteps(
		stepper.NewStep(s, stepper.WithID("a")),
		stepper.NewStep(s, stepper.WithID("b")),
	)
	s.Init()
	return s
}

func TestRecorder_RecordsStepper(t *testing.T) {
	t.Parallel()

	pub := &memPublisher{}
	r := newRecorder(pub, "demo")
	s := newTestStepper()
	r.Attach(s)

	require.NoError(t, s.Next())
	r.RecordValue("b", "hello")
	r.RecordReset()
	require.NoError(t, r.Close())

	assert.Equal(t, []string{
		nats.EventTypeInteraction,
		nats.EventTypeSelection,
		nats.EventTypeValue,
		nats.EventTypeReset,
	}, pub.types())

	state := NewState("demo")
	for _, ev := range pub.events[:3] {
		state.Apply(ev)
	}
	assert.Equal(t, 1, state.SelectedIndex)
	assert.True(t, state.Interacted["a"])
	assert.Equal(t, "hello", state.Values["b"])
}

func TestRecorder_StopsAfterClose(t *testing.T) {
	t.Parallel()

	pub := &memPublisher{}
	r := newRecorder(pub, "demo")
	s := newTestStepper()
	r.Attach(s)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	require.NoError(t, s.Next())
	r.RecordReset()
	assert.Empty(t, pub.types())
}

func TestRecorder_ReportsPublishError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := newRecorder(&memPublisher{err: boom}, "demo")
	r.RecordReset()
	require.ErrorIs(t, r.Close(), boom)
}

func TestRecorder_Store(t *testing.T) {
	store := openStore(t)

	r := NewRecorder(store, "demo")
	s := newTestStepper()
	r.Attach(s)
	require.NoError(t, s.Next())
	require.NoError(t, r.Close())

	state, err := store.LoadState(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 1, state.SelectedIndex)
	assert.True(t, state.Interacted["a"])
}
