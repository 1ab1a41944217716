package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/kafka"
	"eventhub/infras/otel"
	"eventhub/shared/constant"
	"eventhub/shared/metrics"
	"eventhub/shared/timezone"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingReviewed      = "booking.reviewed"
	VendorDeleted        = "vendor.deleted"
	VendorStatusChanged  = "vendor.status_changed"

	resultSent   = "sent"
	resultFailed = "failed"
)

// Envelope is the JSON value written to the event stream.
type Envelope struct {
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, name, key string, payload any) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

type noopPublisher struct{}

// New returns a kafka-backed publisher, or a publisher that drops every event
// when the stream is disabled.
func New(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	if !cfg.Kafka.Enable || client == nil {
		log.Info().Msg("Event stream disabled, domain events are dropped")

		return noopPublisher{}
	}

	return &kafkaPublisher{client: client, topic: cfg.Kafka.Topic, otel: otel}
}

func (p *kafkaPublisher) Publish(ctx context.Context, name, key string, payload any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"event.name": name, "event.key": key})

	err = p.client.SendMessages(ctx, p.topic, kafka.Message{
		Key:   key,
		Value: Envelope{Name: name, OccurredAt: timezone.Now(), Payload: payload},
	})
	if err != nil {
		metrics.EventsPublished.WithLabelValues(name, resultFailed).Inc()

		return fmt.Errorf("failed to publish %s: %w", name, err)
	}

	metrics.EventsPublished.WithLabelValues(name, resultSent).Inc()

	return nil
}

func (noopPublisher) Publish(_ context.Context, _, _ string, _ any) error {
	return nil
}

// PublishAsync publishes in the background, detached from request cancellation.
// Failures are only logged.
func PublishAsync(ctx context.Context, publisher Publisher, name, key string, payload any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := publisher.Publish(c, name, key, payload); err != nil {
			log.Error().Err(err).Str("event", name).Str("key", key).Msg("failed to publish event")
		}
	}()
}
