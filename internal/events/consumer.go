package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// ActivityWriter persists activity log entries
type ActivityWriter interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}

// ActivityConsumer turns domain events into activity log documents
type ActivityConsumer struct {
	writer ActivityWriter
	logger *slog.Logger
}

func NewActivityConsumer(writer ActivityWriter, logger *slog.Logger) *ActivityConsumer {
	return &ActivityConsumer{writer: writer, logger: logger}
}

func (c *ActivityConsumer) Handle(msg *message.Message) error {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		// a malformed payload will never decode; ack it
		c.logger.Error("Dropping malformed event", "message_uuid", msg.UUID, "error", err)
		return nil
	}

	entry := ActivityFromEvent(&event)
	if err := c.writer.Create(msg.Context(), entry); err != nil {
		return fmt.Errorf("failed to store activity: %w", err)
	}
	return nil
}

func ActivityFromEvent(event *Event) *models.ActivityLog {
	return &models.ActivityLog{
		EventID:    event.ID,
		UserID:     event.UserID,
		Action:     string(event.Type),
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Metadata:   event.Data,
		CreatedAt:  event.Timestamp,
	}
}

// NewActivityRouter wires the consumer to the subscriber
func NewActivityRouter(subscriber message.Subscriber, topic string, consumer *ActivityConsumer, logger *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(logger),
		}.Middleware,
	)

	router.AddNoPublisherHandler("activity_log", topic, subscriber, consumer.Handle)
	return router, nil
}
