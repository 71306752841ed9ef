package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-admin/internal/domain"
)

// DraftStore is an in-memory implementation of app.DraftRepository.
// Drafts live as long as the process.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts: make(map[string]domain.Draft),
	}
}

func (s *DraftStore) Save(_ context.Context, draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.Questions = append([]domain.QuestionRecord(nil), draft.Questions...)
	s.drafts[draft.Name] = draft
	return nil
}

func (s *DraftStore) Load(_ context.Context, name string) (domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[name]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	draft.Questions = append([]domain.QuestionRecord(nil), draft.Questions...)
	return draft, nil
}

func (s *DraftStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, name)
	return nil
}

func (s *DraftStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.drafts))
	for name := range s.drafts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
