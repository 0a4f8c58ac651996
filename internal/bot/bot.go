package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/config"
	"github.com/ivanoskov/atm_bot/internal/metrics"
	"github.com/ivanoskov/atm_bot/internal/model"
	"github.com/ivanoskov/atm_bot/internal/repository"
)

// Sender отправляет сообщения в Telegram; *tgbotapi.BotAPI реализует его
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Predictor - внешний сервис предсказаний, истории и отзывов
type Predictor interface {
	Predict(ctx context.Context, userID int64, record model.CoordinateRecord) (model.Prediction, error)
	PredictBatch(ctx context.Context, userID int64, records []model.CoordinateRecord) ([]model.PredictionResult, error)
	History(ctx context.Context, userID int64) ([]model.PredictionResult, error)
	SendFeedback(ctx context.Context, userID int64, text string) error
}

type Bot struct {
	api           *tgbotapi.BotAPI
	sender        Sender
	predictor     Predictor
	states        repository.StateStore
	logger        *zap.Logger
	routes        []route
	updateTimeout int
}

func NewBot(cfg *config.Config, predictor Predictor, states repository.StateStore, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	api.Debug = cfg.TelegramDebug

	b := newBot(api, predictor, states, logger.With(zap.String("bot", api.Self.UserName)))
	b.api = api
	b.updateTimeout = cfg.UpdateTimeout
	return b, nil
}

func newBot(sender Sender, predictor Predictor, states repository.StateStore, logger *zap.Logger) *Bot {
	return &Bot{
		sender:        sender,
		predictor:     predictor,
		states:        states,
		logger:        logger,
		routes:        defaultRoutes(),
		updateTimeout: 60,
	}
}

// Start запускает бота в режиме long polling и обрабатывает обновления по одному до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("telegram client is not configured")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot started", zap.Int("update_timeout", b.updateTimeout))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				b.logger.Error("error handling update", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}

	return b.HandleUpdate(ctx, update)
}

// HandleUpdate обрабатывает одно обновление. Паника обработчика не выходит за его пределы.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanics.Inc()
			b.logger.Error("handler panic",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	if update.Message == nil || update.Message.Text == "" {
		return nil
	}
	return b.dispatch(ctx, update.Message)
}
