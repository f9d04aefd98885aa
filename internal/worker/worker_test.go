package worker

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"todo-api/internal/config"
	"todo-api/internal/models"
	"todo-api/internal/queue"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed int
	closed    bool
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed += len(msgs)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func TestConsume_InvalidatesAndCommits(t *testing.T) {
	good, err := queue.EncodeEvent(models.NewItemEvent(models.EventItemCreated, models.Item{ID: "a"}))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{
		msgs:   []kafka.Message{good, {Value: []byte("garbage")}, good},
		cancel: cancel,
	}
	inv := &countingInvalidator{}

	consume(ctx, r, inv)

	if inv.n != 2 {
		t.Fatalf("expected 2 invalidations, got %d", inv.n)
	}
	if r.committed != 3 {
		t.Fatalf("poison messages must be committed too, committed %d", r.committed)
	}
	if !r.closed {
		t.Fatal("reader not closed")
	}
}

func TestRun_DisabledWithoutBrokers(t *testing.T) {
	inv := &countingInvalidator{}
	Run(context.Background(), &config.Config{}, inv)
	if inv.n != 0 {
		t.Fatal("disabled worker must not invalidate")
	}
}
