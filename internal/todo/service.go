// Package todo implements the item handlers: create, list and update.
package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"todo-api/internal/models"
	"todo-api/internal/store"
	"todo-api/pkg/logger"
)

// Publisher receives item events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, ev models.ItemEvent) error
}

// Service runs the item handlers against one shared store.
type Service struct {
	store     store.Store
	events    Publisher
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
	validator *validator.Validate
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher publishes item events after each successful write.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithTimeout bounds every store call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides item id generation.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		now:       time.Now,
		newID:     uuid.NewString,
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type createRequest struct {
	Text *string `json:"text" validate:"required"`
}

type updateRequest struct {
	Text    *string `json:"text" validate:"required"`
	Checked *bool   `json:"checked" validate:"required"`
}

// binder fills a request from the exact-case keys of a JSON object.
type binder interface {
	bind(fields map[string]json.RawMessage) error
}

func (r *createRequest) bind(fields map[string]json.RawMessage) error {
	return bindField(fields, "text", &r.Text)
}

func (r *updateRequest) bind(fields map[string]json.RawMessage) error {
	if err := bindField(fields, "text", &r.Text); err != nil {
		return err
	}
	return bindField(fields, "checked", &r.Checked)
}

// bindField unmarshals fields[key] into dst. A missing key leaves dst untouched.
func bindField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// Create validates raw, mints a new item and stores it.
func (s *Service) Create(ctx context.Context, raw []byte) (models.Item, error) {
	var req createRequest
	if err := s.decode(raw, &req); err != nil {
		logger.Warn(ctx, "Create validation failed", "error", err)
		return models.Item{}, &ValidationError{Op: OpCreate, Reason: err.Error()}
	}

	ts := models.Millis(s.now())
	item := models.Item{
		ID:        s.newID(),
		Text:      *req.Text,
		Checked:   false,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.Put(ctx, item); err != nil {
		logger.Error(ctx, "Create store put failed", "error", err)
		return models.Item{}, storeFailure(OpCreate, err)
	}
	s.publish(ctx, models.EventItemCreated, item)
	return item, nil
}

// List returns every stored item.
func (s *Service) List(ctx context.Context) ([]models.Item, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	items, err := s.store.ScanAll(ctx)
	if err != nil {
		logger.Error(ctx, "List store scan failed", "error", err)
		return nil, storeFailure(OpList, err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// Update validates raw and overwrites text and checked of the item at id.
// Last write wins; no version is compared.
func (s *Service) Update(ctx context.Context, id string, raw []byte) (models.Item, error) {
	var req updateRequest
	if err := s.decode(raw, &req); err != nil {
		logger.Warn(ctx, "Update validation failed", "error", err, "id", id)
		return models.Item{}, &ValidationError{Op: OpUpdate, Reason: err.Error()}
	}

	u := store.Update{
		Text:      *req.Text,
		Checked:   *req.Checked,
		UpdatedAt: models.Millis(s.now()),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	item, err := s.store.UpdateFields(ctx, id, u)
	if err != nil {
		logger.Error(ctx, "Update store call failed", "error", err, "id", id)
		return models.Item{}, storeFailure(OpUpdate, err)
	}
	s.publish(ctx, models.EventItemUpdated, item)
	return item, nil
}

// decode parses raw as a JSON object and binds its fields into v by exact key, then
// checks required fields. A JSON value of the wrong type fails at bind; a missing,
// null or differently cased key fails validation.
func (s *Service) decode(raw []byte, v binder) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if err := v.bind(fields); err != nil {
		return err
	}
	return s.validator.Struct(v)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) publish(ctx context.Context, eventType string, item models.Item) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, models.NewItemEvent(eventType, item)); err != nil {
		logger.Warn(ctx, "Publish item event failed", "error", err, "type", eventType, "id", item.ID)
	}
}
