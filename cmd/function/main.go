package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/bot"
	"github.com/ivanoskov/atm_bot/internal/config"
	"github.com/ivanoskov/atm_bot/internal/logger"
	"github.com/ivanoskov/atm_bot/internal/repository"
	"github.com/ivanoskov/atm_bot/internal/service"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler обрабатывает одно webhook-обновление.
// Каждый вызов - отдельный процесс, поэтому состояние диалога должно храниться в redis или supabase.
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	l, err := logger.New(cfg.LogLevel, "json")
	if err != nil {
		return errorResponse(err)
	}
	defer func() { _ = l.Sync() }()

	if cfg.StateBackend == config.BackendMemory {
		return errorResponse(fmt.Errorf("STATE_BACKEND %q does not survive between invocations", cfg.StateBackend))
	}

	states, err := repository.NewStateStore(ctx, cfg, l)
	if err != nil {
		return errorResponse(err)
	}

	predictor, err := service.NewPredictionClient(cfg.PredictorURL, cfg.HTTPTimeout, l)
	if err != nil {
		return errorResponse(err)
	}

	b, err := bot.NewBot(cfg, predictor, states, l)
	if err != nil {
		return errorResponse(err)
	}

	// Ошибка обработки не возвращается Telegram, иначе он будет повторять доставку
	if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		l.Error("failed to handle webhook update", zap.Error(err))
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
