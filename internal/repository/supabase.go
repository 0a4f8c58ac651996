package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/atm_bot/internal/model"
)

const userStatesTable = "user_states"

// SupabaseStore хранит состояния в таблице user_states (user_id - первичный ключ)
type SupabaseStore struct {
	client *supabase.Client
	now    func() time.Time
}

func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseStore{
		client: client,
		now:    time.Now,
	}, nil
}

func (s *SupabaseStore) Get(ctx context.Context, userID int64) (model.ConversationState, error) {
	data, _, err := s.client.From(userStatesTable).
		Select("*", "", false).
		Eq("user_id", userKey(userID)).
		Execute()
	if err != nil {
		return model.StateIdle, fmt.Errorf("failed to get state: %w", err)
	}

	var rows []model.UserState
	if err := json.Unmarshal(data, &rows); err != nil {
		return model.StateIdle, fmt.Errorf("failed to parse state: %w", err)
	}
	if len(rows) == 0 {
		return model.StateIdle, nil
	}
	return parseState(string(rows[0].State))
}

func (s *SupabaseStore) Set(ctx context.Context, userID int64, state model.ConversationState) error {
	if state == model.StateIdle {
		return s.Clear(ctx, userID)
	}
	if _, err := parseState(string(state)); err != nil {
		return err
	}

	row := model.UserState{
		UserID:    userID,
		State:     state,
		UpdatedAt: s.now().UTC(),
	}
	// Insert с upsert=true обновляет существующую строку по user_id
	if _, _, err := s.client.From(userStatesTable).Insert(row, true, "user_id", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}
	return nil
}

func (s *SupabaseStore) Clear(ctx context.Context, userID int64) error {
	_, _, err := s.client.From(userStatesTable).
		Delete("", "").
		Eq("user_id", userKey(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
