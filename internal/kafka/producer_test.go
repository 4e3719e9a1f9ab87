package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/internal/models"
)

func TestPublishSendsEvent(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event models.CatalogEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		assert.Equal(t, models.EventProductCreated, event.Action)
		assert.Equal(t, "65a000000000000000000001", event.ProductID)
		return nil
	})

	p := &producer{producer: mock, topic: "catalog-events"}
	p.Publish(context.Background(), models.CatalogEvent{
		Action:    models.EventProductCreated,
		ProductID: "65a000000000000000000001",
		At:        time.Now(),
	})

	require.NoError(t, p.Close())
}

func TestPublishSwallowsBrokerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &producer{producer: mock, topic: "catalog-events"}
	p.Publish(context.Background(), models.CatalogEvent{
		Action:    models.EventProductDeleted,
		ProductID: "65a000000000000000000002",
	})

	require.NoError(t, p.Close())
}

func TestDisabledKafkaUsesNoop(t *testing.T) {
	pub, err := NewPublisher(&config.Config{})
	require.NoError(t, err)

	pub.Publish(context.Background(), models.CatalogEvent{Action: models.EventProductCreated})
	assert.NoError(t, pub.Close())
}
