package repository

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/config"
	"github.com/ivanoskov/atm_bot/internal/model"
)

// StateStore хранит состояние диалога для каждого пользователя.
// Отсутствующее состояние читается как model.StateIdle.
type StateStore interface {
	Get(ctx context.Context, userID int64) (model.ConversationState, error)
	Set(ctx context.Context, userID int64, state model.ConversationState) error
	Clear(ctx context.Context, userID int64) error
}

// NewStateStore создает хранилище, выбранное в конфигурации
func NewStateStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (StateStore, error) {
	switch cfg.StateBackend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendRedis:
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StateTTL)
		if err := store.Ping(ctx); err != nil {
			return nil, err
		}
		logger.Info("using redis state store", zap.String("addr", cfg.RedisAddr))
		return store, nil
	case config.BackendSupabase:
		store, err := NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, err
		}
		logger.Info("using supabase state store")
		return store, nil
	}
	return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

func parseState(raw string) (model.ConversationState, error) {
	state := model.ConversationState(raw)
	if !state.Valid() {
		return model.StateIdle, fmt.Errorf("unknown conversation state %q", raw)
	}
	return state, nil
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
