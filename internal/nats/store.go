package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Subject pattern constants and helpers
const (
	streamName = "stepr_events"

	// Event types
	EventTypeSelection   = "selection"
	EventTypeInteraction = "interaction"
	EventTypeValue       = "value"
	EventTypeReset       = "reset"
)

// SubjectForWizard returns the wildcard subject pattern for all events of a wizard.
// Example: "stepr.create-project.>"
func SubjectForWizard(wizard string) string {
	return fmt.Sprintf("stepr.%s.>", wizard)
}

// SubjectForEvent returns the specific subject for an event type of a wizard.
// Example: "stepr.create-project.selection"
func SubjectForEvent(wizard, eventType string) string {
	return fmt.Sprintf("stepr.%s.%s", wizard, eventType)
}

// SetupStream creates or updates the JetStream stream for wizard events.
// The stream captures all events for all wizards with 30-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"stepr.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	})
}

// CreateReplayConsumer creates an ephemeral consumer that replays every
// event of one wizard from the beginning.
func CreateReplayConsumer(ctx context.Context, stream jetstream.Stream, wizard string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: SubjectForWizard(wizard),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
}
