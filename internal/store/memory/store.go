package memory

import (
	"context"
	"sync"

	"todo-api/internal/models"
	"todo-api/internal/store"
)

// Store is an in-process item store. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	byID map[string]models.Item
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{byID: make(map[string]models.Item)}
}

func (s *Store) Put(ctx context.Context, item models.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ID] = item
	return nil
}

func (s *Store) ScanAll(ctx context.Context) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// map iteration order stands in for the unordered scan
	out := make([]models.Item, 0, len(s.byID))
	for _, it := range s.byID {
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, u store.Update) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.byID[id]
	if !ok {
		return models.Item{}, store.ErrNotFound
	}
	if u.IfUpdatedAt != nil && it.UpdatedAt != *u.IfUpdatedAt {
		return models.Item{}, store.ErrConditionFailed
	}
	it.Text = u.Text
	it.Checked = u.Checked
	// a clock stepping backwards must not put updatedAt before createdAt
	it.UpdatedAt = max(u.UpdatedAt, it.CreatedAt)
	s.byID[id] = it
	return it, nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
