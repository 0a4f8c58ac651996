package repository

import (
	"context"
	"sync"

	"github.com/ivanoskov/atm_bot/internal/model"
)

// MemoryStore хранит состояния в памяти процесса; после перезапуска все пользователи снова Idle
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]model.ConversationState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[int64]model.ConversationState),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (model.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return model.StateIdle, nil
	}
	return state, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int64, state model.ConversationState) error {
	if _, err := parseState(string(state)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if state == model.StateIdle {
		delete(s.states, userID)
		return nil
	}
	s.states[userID] = state
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	return s.Set(ctx, userID, model.StateIdle)
}

// Len возвращает число пользователей с незавершенным диалогом
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
