package publish

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/waabox/devopswatch/internal/domain"
)

// KafkaPublisher produces each snapshot as a JSON record keyed by system ID.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a producer for the given seed brokers.
// brokers is a slice of broker addresses (e.g., ["localhost:9092"]).
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// Publish implements Publisher. It waits until the broker acknowledges the record.
func (p *KafkaPublisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	record, err := p.record(snap)
	if err != nil {
		return err
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce snapshot %s: %w", snap.SystemID, err)
	}
	return nil
}

func (p *KafkaPublisher) record(snap domain.Snapshot) (*kgo.Record, error) {
	payload, err := encode(snap)
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Topic: p.topic,
		Key:   []byte(snap.SystemID),
		Value: payload,
	}, nil
}

// Close closes the underlying client.
func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}
