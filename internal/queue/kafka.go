package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"todo-api/internal/config"
	"todo-api/internal/models"
	"todo-api/pkg/logger"
)

// EnsureTopic creates the item events topic with configured partitions.
// Failures are logged; the topic may already exist.
func EnsureTopic(ctx context.Context, cfg *config.Config) {
	if !cfg.EventsEnabled() {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// Producer publishes item events to Kafka.
type Producer struct {
	writer messageWriter
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewProducer returns an async producer for the configured topic.
func NewProducer(ctx context.Context, cfg *config.Config) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &Producer{writer: w}
}

// Publish writes ev keyed by item id so events for one item stay in one partition.
func (p *Producer) Publish(ctx context.Context, ev models.ItemEvent) error {
	msg, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// EncodeEvent builds the Kafka message for ev.
func EncodeEvent(ev models.ItemEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}, nil
}

// DecodeEvent parses a Kafka message value into an ItemEvent.
func DecodeEvent(value []byte) (models.ItemEvent, error) {
	var ev models.ItemEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return models.ItemEvent{}, err
	}
	if ev.ID == "" || ev.Type == "" {
		return models.ItemEvent{}, fmt.Errorf("item event missing id or type")
	}
	return ev, nil
}
