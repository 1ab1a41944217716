package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"eventhub/config"
	"eventhub/infras/kafka"
	kafkaMocks "eventhub/infras/kafka/mocks"
	"eventhub/infras/otel/mocks"
	"eventhub/shared/event"
)

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topic = "eventhub.events"

	client.EXPECT().
		SendMessages(gomock.Any(), "eventhub.events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			require.Len(t, messages, 1)
			assert.Equal(t, "b-1", messages[0].Key)

			envelope, ok := messages[0].Value.(event.Envelope)
			require.True(t, ok)
			assert.Equal(t, event.BookingCreated, envelope.Name)
			assert.False(t, envelope.OccurredAt.IsZero())

			return nil
		})

	publisher := event.New(cfg, client, mocks.NewOtel())

	err := publisher.Publish(context.Background(), event.BookingCreated, "b-1", map[string]string{"status": "pending"})
	assert.NoError(t, err)
}

func TestPublish_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Enable = true

	client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

	publisher := event.New(cfg, client, mocks.NewOtel())

	err := publisher.Publish(context.Background(), event.VendorDeleted, "v-1", nil)
	assert.ErrorContains(t, err, "broker unavailable")
}

func TestPublish_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	publisher := event.New(&config.Config{}, client, mocks.NewOtel())

	assert.NoError(t, publisher.Publish(context.Background(), event.BookingReviewed, "b-1", nil))
}

func TestPublishAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Enable = true

	done := make(chan struct{})
	client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...kafka.Message) error {
			defer close(done)
			assert.NoError(t, ctx.Err())

			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	event.PublishAsync(ctx, event.New(cfg, client, mocks.NewOtel()), event.BookingStatusChanged, "b-1", nil)
	cancel()

	<-done
}
