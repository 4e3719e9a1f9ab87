package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/internal/models"
)

// Publisher emits catalog change events. Publishing is best-effort: a broker
// outage must never fail the mutation that already committed.
type Publisher interface {
	Publish(ctx context.Context, event models.CatalogEvent)
	Close() error
}

type producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(conf *config.Config) (Publisher, error) {
	if !conf.Kafka.Enabled {
		return &noopPublisher{}, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.ClientID = "catalog-api"

	p, err := sarama.NewSyncProducer(conf.Kafka.Brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("new kafka producer: %w", err)
	}

	return &producer{
		producer: p,
		topic:    conf.Kafka.Topic,
	}, nil
}

func (p *producer) Publish(ctx context.Context, event models.CatalogEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		log.Errorw(ctx, "failed to marshal catalog event", "action", event.Action, "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ProductID),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.Errorw(ctx, "failed to publish catalog event",
			"action", event.Action, "product_id", event.ProductID, "error", err)
		return
	}

	log.Infow(ctx, "published catalog event",
		"action", event.Action,
		"product_id", event.ProductID,
		"partition", partition,
		"offset", offset,
	)
}

func (p *producer) Close() error {
	return p.producer.Close()
}

// noopPublisher is used when Kafka is disabled.
type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, event models.CatalogEvent) {}
func (n *noopPublisher) Close() error                                           { return nil }
