package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/learnhub/learnhub/pkg/kafka"
)

// EventPublisher publishes enrollment lifecycle events
type EventPublisher interface {
	// PublishEnrollmentCreated publishes an enrollment created event
	PublishEnrollmentCreated(ctx context.Context, enrollment *domain.Enrollment) error
	// PublishEnrollmentCancelled publishes an enrollment cancelled event
	PublishEnrollmentCancelled(ctx context.Context, enrollment *domain.Enrollment) error
	// Close closes the publisher
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "enrollment-events"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "enrollment-service-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:  cfg.Brokers,
		ClientID: clientID,
		LingerMs: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{producer: producer, topic: topic}, nil
}

// PublishEnrollmentCreated publishes an enrollment created event
func (p *KafkaEventPublisher) PublishEnrollmentCreated(ctx context.Context, enrollment *domain.Enrollment) error {
	return p.publish(ctx, domain.EventEnrollmentCreated, enrollment)
}

// PublishEnrollmentCancelled publishes an enrollment cancelled event
func (p *KafkaEventPublisher) PublishEnrollmentCancelled(ctx context.Context, enrollment *domain.Enrollment) error {
	return p.publish(ctx, domain.EventEnrollmentCancelled, enrollment)
}

// Close closes the publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) publish(ctx context.Context, eventType domain.EventType, enrollment *domain.Enrollment) error {
	event := &domain.EnrollmentEvent{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		EnrollmentID: enrollment.ID,
		StudentEmail: enrollment.StudentEmail,
		CourseID:     enrollment.CourseID,
		Timestamp:    time.Now(),
	}

	headers := map[string]string{
		"event_type":   string(eventType),
		"event_id":     event.EventID,
		"source":       "enrollment-service",
		"content_type": "application/json",
	}

	if err := p.producer.ProduceJSON(ctx, p.topic, event.Key(), event, headers); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// NoOpEventPublisher is a no-op implementation for environments
// without a broker
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) PublishEnrollmentCreated(ctx context.Context, enrollment *domain.Enrollment) error {
	return nil
}

func (p *NoOpEventPublisher) PublishEnrollmentCancelled(ctx context.Context, enrollment *domain.Enrollment) error {
	return nil
}

func (p *NoOpEventPublisher) Close() error {
	return nil
}
