package events

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SAP-F-2025/learning-service/internal/config"
)

// PubSub is the transport used by the event publisher and the activity consumer
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Kind       string
}

// NewPubSub connects to kafka when brokers are configured, otherwise it uses
// an in-process channel
func NewPubSub(cfg config.KafkaConfig, logger *slog.Logger) (*PubSub, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if len(cfg.Brokers) == 0 {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, wmLogger)
		return &PubSub{Publisher: ch, Subscriber: ch, Kind: "gochannel"}, nil
	}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.Brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		ConsumerGroup:         cfg.ConsumerGroup,
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
	}, wmLogger)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}

	return &PubSub{Publisher: publisher, Subscriber: subscriber, Kind: "kafka"}, nil
}

// Close closes both sides; for gochannel they are the same value
func (p *PubSub) Close() error {
	err := p.Publisher.Close()
	if p.Kind == "kafka" {
		if subErr := p.Subscriber.Close(); subErr != nil && err == nil {
			err = subErr
		}
	}
	return err
}
