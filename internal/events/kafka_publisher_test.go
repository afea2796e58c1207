package events

import (
	"context"
	"testing"
	"time"

	"store-tracker/internal/config"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Mocking sarama.SyncProducer is not worth the ceremony here; these tests
// cover the topic and type mapping the publisher routes on.

func TestKafkaEventPublisher_TopicForCatalogEvents(t *testing.T) {
	publisher := &KafkaEventPublisher{
		logger: zap.NewNop(),
		config: &config.Config{
			KafkaTopicCatalog: "store.catalog",
			KafkaTopicStock:   "store.stock",
		},
	}

	event := ProductAddedEvent{
		ProductID:  "prd-balance-notebook",
		SKU:        "STN-001",
		Name:       "Balance Notebook",
		Category:   "Stationery",
		Stock:      72,
		OccurredAt: time.Now(),
	}

	assert.Equal(t, "ProductAdded", publisher.getEventType(event))

	topic, err := publisher.getTopicForEvent(event)
	assert.NoError(t, err)
	assert.Equal(t, "store.catalog", topic)
}

func TestKafkaEventPublisher_TopicForStockEvents(t *testing.T) {
	publisher := &KafkaEventPublisher{
		logger: zap.NewNop(),
		config: &config.Config{
			KafkaTopicCatalog: "store.catalog",
			KafkaTopicStock:   "store.stock",
		},
	}

	event := SaleRecordedEvent{
		SaleID:         "sale-100",
		ProductID:      "prd-balance-notebook",
		Quantity:       5,
		Revenue:        100,
		Profit:         60,
		StockRemaining: 67,
		OccurredAt:     time.Now(),
	}

	assert.Equal(t, "SaleRecorded", publisher.getEventType(event))

	topic, err := publisher.getTopicForEvent(event)
	assert.NoError(t, err)
	assert.Equal(t, "store.stock", topic)
}

func TestKafkaEventPublisher_GetEventType_AllTypes(t *testing.T) {
	publisher := &KafkaEventPublisher{
		logger: zap.NewNop(),
		config: &config.Config{},
	}

	assert.Equal(t, "ProductAdded", publisher.getEventType(ProductAddedEvent{}))
	assert.Equal(t, "SaleRecorded", publisher.getEventType(SaleRecordedEvent{}))
	assert.Equal(t, "StockRestocked", publisher.getEventType(StockRestockedEvent{}))
	assert.Equal(t, "StoreReset", publisher.getEventType(StoreResetEvent{}))
	assert.Equal(t, "Unknown", publisher.getEventType(struct{}{}))
}

func TestKafkaEventPublisher_TopicForUnknownEvent(t *testing.T) {
	publisher := &KafkaEventPublisher{
		logger: zap.NewNop(),
		config: &config.Config{},
	}

	_, err := publisher.getTopicForEvent(struct{}{})
	assert.Error(t, err)
}

func TestKafkaEventPublisher_PartitionKey(t *testing.T) {
	publisher := &KafkaEventPublisher{
		logger: zap.NewNop(),
		config: &config.Config{},
	}

	assert.Equal(t, "prd-1", publisher.getPartitionKey(SaleRecordedEvent{ProductID: "prd-1"}))
	assert.Equal(t, "prd-2", publisher.getPartitionKey(StockRestockedEvent{ProductID: "prd-2"}))
	assert.Equal(t, "", publisher.getPartitionKey(StoreResetEvent{}))
}

func TestNewProducerConfig_AllAcksEnablesIdempotence(t *testing.T) {
	saramaConfig := newProducerConfig(&config.Config{
		KafkaClientID: "store-tracker",
		KafkaAcks:     "all",
		KafkaRetries:  3,
	})

	assert.Equal(t, sarama.WaitForAll, saramaConfig.Producer.RequiredAcks)
	assert.True(t, saramaConfig.Producer.Idempotent)
	assert.Equal(t, 1, saramaConfig.Net.MaxOpenRequests)
	assert.NoError(t, saramaConfig.Validate())
}

func TestNewProducerConfig_RelaxedAcksStayValid(t *testing.T) {
	tests := []struct {
		acks string
		want sarama.RequiredAcks
	}{
		{"0", sarama.NoResponse},
		{"1", sarama.WaitForLocal},
	}
	for _, tt := range tests {
		saramaConfig := newProducerConfig(&config.Config{
			KafkaClientID: "store-tracker",
			KafkaAcks:     tt.acks,
			KafkaRetries:  3,
		})

		assert.Equal(t, tt.want, saramaConfig.Producer.RequiredAcks, tt.acks)
		// Idempotence requires acks=all; enabling it here would make sarama
		// reject the config outright.
		assert.False(t, saramaConfig.Producer.Idempotent, tt.acks)
		assert.NoError(t, saramaConfig.Validate(), tt.acks)
	}
}

func TestInMemoryEventPublisher_CollectsEvents(t *testing.T) {
	publisher := NewEventPublisher()

	err := publisher.Publish(context.Background(), StoreResetEvent{OccurredAt: time.Now()})
	assert.NoError(t, err)
	err = publisher.Publish(context.Background(), StockRestockedEvent{ProductID: "prd-1", Quantity: 5})
	assert.NoError(t, err)

	published := publisher.Events()
	assert.Len(t, published, 2)
	assert.IsType(t, StoreResetEvent{}, published[0])
}
