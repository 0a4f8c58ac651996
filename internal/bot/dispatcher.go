package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/metrics"
	"github.com/ivanoskov/atm_bot/internal/model"
)

type handlerFunc func(b *Bot, ctx context.Context, message *tgbotapi.Message) error

// route связывает состояние диалога и условие на сообщение с обработчиком.
// Пустой states означает любое состояние.
type route struct {
	name   string
	states []model.ConversationState
	match  func(message *tgbotapi.Message) bool
	handle handlerFunc
}

func (r route) accepts(state model.ConversationState) bool {
	if len(r.states) == 0 {
		return true
	}
	for _, s := range r.states {
		if s == state {
			return true
		}
	}
	return false
}

// defaultRoutes - таблица переходов; проверяется по порядку, срабатывает первое совпадение
func defaultRoutes() []route {
	idle := []model.ConversationState{model.StateIdle}

	return []route{
		{name: "cancel", match: isCancel, handle: (*Bot).handleCancel},
		{name: "start", states: idle, match: command("start"), handle: (*Bot).handleStart},
		{name: "help", states: idle, match: command("help"), handle: (*Bot).handleHelp},
		{name: "banks", states: idle, match: command("banks"), handle: (*Bot).handleBanks},
		{name: "history", states: idle, match: command("history"), handle: (*Bot).handleHistory},
		{name: "rate", states: idle, match: command("rate"), handle: (*Bot).handleRate},
		{name: "predict", states: idle, match: command("predict"), handle: (*Bot).handlePredict},
		{name: "predict_batch", states: idle, match: command("predict_batch"), handle: (*Bot).handlePredictBatch},
		{
			name:   "feedback_text",
			states: []model.ConversationState{model.StateAwaitingFeedback},
			match:  anyText,
			handle: (*Bot).handleFeedbackText,
		},
		{
			name:   "batch_text",
			states: []model.ConversationState{model.StateAwaitingBatch},
			match:  anyText,
			handle: (*Bot).handleBatchText,
		},
	}
}

func (b *Bot) dispatch(ctx context.Context, message *tgbotapi.Message) error {
	userID := senderID(message)
	log := b.logger.With(zap.Int64("user_id", userID))

	state, err := b.states.Get(ctx, userID)
	if err != nil {
		log.Warn("failed to load conversation state, assuming idle", zap.Error(err))
		state = model.StateIdle
	}

	for _, r := range b.routes {
		if !r.accepts(state) || !r.match(message) {
			continue
		}
		metrics.UpdatesHandled.WithLabelValues(r.name).Inc()
		log.Debug("routing message", zap.String("route", r.name), zap.String("state", string(state)))
		return r.handle(b, ctx, message)
	}

	log.Debug("no route for message", zap.String("state", string(state)))
	return nil
}

func command(name string) func(*tgbotapi.Message) bool {
	return func(message *tgbotapi.Message) bool {
		return message.IsCommand() && strings.EqualFold(message.Command(), name)
	}
}

func isCancel(message *tgbotapi.Message) bool {
	if command("cancel")(message) {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(message.Text)) {
	case "cancel", "отмена":
		return true
	}
	return false
}

func anyText(message *tgbotapi.Message) bool {
	return message.Text != ""
}

// senderID - идентификатор пользователя; для сообщений каналов без From берется чат
func senderID(message *tgbotapi.Message) int64 {
	if message.From != nil {
		return message.From.ID
	}
	return message.Chat.ID
}
