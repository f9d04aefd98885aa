package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"todo-api/internal/models"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestEncodeDecodeEvent(t *testing.T) {
	ev := models.NewItemEvent(models.EventItemCreated, models.Item{ID: "id-1", Text: "t", CreatedAt: 3, UpdatedAt: 3})
	msg, err := EncodeEvent(ev)
	if err != nil {
		t.Fatal(err)
	}
	if string(msg.Key) != "id-1" {
		t.Fatalf("key = %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != models.EventItemCreated {
		t.Fatalf("headers = %+v", msg.Headers)
	}
	got, err := DecodeEvent(msg.Value)
	if err != nil {
		t.Fatal(err)
	}
	if got != ev {
		t.Fatalf("got %+v, want %+v", got, ev)
	}
}

func TestDecodeEvent_Rejects(t *testing.T) {
	for _, in := range []string{`nope`, `{}`, `{"type":"item.created"}`} {
		if _, err := DecodeEvent([]byte(in)); err == nil {
			t.Fatalf("DecodeEvent(%s): expected error", in)
		}
	}
}

func TestProducerPublish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}
	ev := models.NewItemEvent(models.EventItemUpdated, models.Item{ID: "x", UpdatedAt: 9})
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 || string(w.msgs[0].Key) != "x" {
		t.Fatalf("unexpected messages: %+v", w.msgs)
	}

	w.err = errors.New("broker down")
	if err := p.Publish(context.Background(), ev); err == nil {
		t.Fatal("expected writer error to propagate")
	}
}
