package worker

import (
	"context"

	"github.com/segmentio/kafka-go"
	"todo-api/internal/config"
	"todo-api/internal/queue"
	"todo-api/pkg/logger"
)

// Invalidator drops the cached item list.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Run consumes item events and invalidates the list cache for each one. The write path
// already invalidates; this second pass clears lists cached by reads that raced a write.
// Blocks until ctx is done.
func Run(ctx context.Context, cfg *config.Config, inv Invalidator) {
	if !cfg.EventsEnabled() {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	consume(ctx, reader, inv)
}

func consume(ctx context.Context, reader messageReader, inv Invalidator) {
	defer reader.Close()
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		ev, err := queue.DecodeEvent(msg.Value)
		if err != nil {
			// Commit anyway to avoid poison pill blocking the partition
			logger.Error(ctx, "Worker decode failed", "error", err, "payload", string(msg.Value))
		} else {
			inv.Invalidate(ctx)
			logger.Debug(ctx, "Worker invalidated list cache", "type", ev.Type, "id", ev.ID)
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}
