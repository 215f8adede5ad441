// Package journal records wizard navigation as an append-only JetStream
// event log and reduces it back into a resumable state.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is one entry of the wizard journal.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Wizard    string          `json:"wizard"`
	Type      string          `json:"type"`   // selection, interaction, value, reset
	Action    string          `json:"action"` // select, mark, set, reset
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      string          `json:"data"` // step ID where applicable
}

// SelectionMeta is the metadata of a selection event.
type SelectionMeta struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ValueMeta is the metadata of a value event.
type ValueMeta struct {
	Value string `json:"value"`
}

// NewSelectionEvent builds a selection event moving from one index to another.
func NewSelectionEvent(wizard string, from, to int, stepID string) Event {
	meta, _ := json.Marshal(SelectionMeta{From: from, To: to})
	return Event{Wizard: wizard, Type: nats.EventTypeSelection, Action: "select", Meta: meta, Data: stepID}
}

// NewInteractionEvent builds an event marking a step as interacted.
func NewInteractionEvent(wizard, stepID string) Event {
	return Event{Wizard: wizard, Type: nats.EventTypeInteraction, Action: "mark", Data: stepID}
}

// NewValueEvent builds an event storing a field value.
func NewValueEvent(wizard, stepID, value string) Event {
	meta, _ := json.Marshal(ValueMeta{Value: value})
	return Event{Wizard: wizard, Type: nats.EventTypeValue, Action: "set", Meta: meta, Data: stepID}
}

// NewResetEvent builds a reset event.
func NewResetEvent(wizard string) Event {
	return Event{Wizard: wizard, Type: nats.EventTypeReset, Action: "reset"}
}

// Store appends events to and reads them from the journal stream.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over an existing stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// PublishEvent appends an event. ID and timestamp are filled in when unset.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event: %v", err)
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Wizard, event.Type)
	logger.Debug("Publishing event: wizard=%s type=%s action=%s", event.Wizard, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Event published successfully: seq=%d", ack.Sequence)
	return ack, nil
}

// State is the reduced journal of one wizard.
type State struct {
	Wizard        string            `json:"wizard"`
	SelectedIndex int               `json:"selected_index"`
	Interacted    map[string]bool   `json:"interacted"`
	Values        map[string]string `json:"values"`
	Events        int               `json:"events"`
	UpdatedAt     time.Time         `json:"updated_at,omitempty"`
}

// NewState returns the state of a wizard with no events.
func NewState(wizard string) *State {
	return &State{
		Wizard:     wizard,
		Interacted: make(map[string]bool),
		Values:     make(map[string]string),
	}
}

// Apply reduces one event into the state.
func (st *State) Apply(event Event) {
	st.Events++
	if event.Timestamp.After(st.UpdatedAt) {
		st.UpdatedAt = event.Timestamp
	}

	switch event.Type {
	case nats.EventTypeSelection:
		var meta SelectionMeta
		if err := json.Unmarshal(event.Meta, &meta); err != nil {
			logger.Warn("Ignoring selection event %s with bad metadata: %v", event.ID, err)
			return
		}
		st.SelectedIndex = meta.To

	case nats.EventTypeInteraction:
		st.Interacted[event.Data] = true

	case nats.EventTypeValue:
		var meta ValueMeta
		if err := json.Unmarshal(event.Meta, &meta); err != nil {
			logger.Warn("Ignoring value event %s with bad metadata: %v", event.ID, err)
			return
		}
		st.Values[event.Data] = meta.Value

	case nats.EventTypeReset:
		st.SelectedIndex = 0
		clear(st.Interacted)
		clear(st.Values)
	}
}

// LoadState replays every event of a wizard and reduces it.
func (s *Store) LoadState(ctx context.Context, wizard string) (*State, error) {
	logger.Debug("Loading journal for wizard: %s", wizard)

	consumer, err := nats.CreateReplayConsumer(ctx, s.stream, wizard)
	if err != nil {
		logger.Error("Failed to create consumer for wizard %s: %v", wizard, err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	state := NewState(wizard)

	const batchSize = 1000
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			logger.Debug("Finished reading events (batch fetch complete)")
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				logger.Warn("Skipping malformed event (seq=%d): %v", streamSeq(msg), err)
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				event.ID = strconv.FormatUint(streamSeq(msg), 10)
			}
			state.Apply(event)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events while loading journal", malformed)
		fmt.Fprintf(os.Stderr, "Warning: Skipped %d malformed events while loading journal\n", malformed)
	}

	logger.Debug("Journal loaded: %d events, selected=%d", state.Events, state.SelectedIndex)
	return state, nil
}

// streamSeq returns the stream sequence of msg, or 0 when the message
// carries no JetStream metadata.
func streamSeq(msg jetstream.Msg) uint64 {
	meta, err := msg.Metadata()
	if err != nil || meta == nil {
		return 0
	}
	return meta.Sequence.Stream
}
