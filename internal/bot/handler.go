package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/metrics"
	"github.com/ivanoskov/atm_bot/internal/model"
	"github.com/ivanoskov/atm_bot/internal/parser"
	"github.com/ivanoskov/atm_bot/internal/service"
	"github.com/ivanoskov/atm_bot/internal/validator"
)

func (b *Bot) handleCancel(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.states.Clear(ctx, senderID(message)); err != nil {
		b.logger.Error("failed to clear state on cancel", zap.Int64("user_id", senderID(message)), zap.Error(err))
	}
	return b.send(message.Chat.ID, 0, msgCancel, removeKeyboard())
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	return b.send(message.Chat.ID, message.MessageID, msgStart, nil)
}

func (b *Bot) handleHelp(ctx context.Context, message *tgbotapi.Message) error {
	return b.send(message.Chat.ID, message.MessageID, msgHelp, nil)
}

func (b *Bot) handleBanks(ctx context.Context, message *tgbotapi.Message) error {
	return b.send(message.Chat.ID, message.MessageID, banksText(), nil)
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) error {
	history, err := b.predictor.History(ctx, senderID(message))
	if err != nil {
		return b.replyInvalid(message, err)
	}
	if len(history) == 0 {
		return b.send(message.Chat.ID, 0, msgNoHistory, nil)
	}
	return b.sendLines(message.Chat.ID, 0, formatResults(history), nil)
}

func (b *Bot) handleRate(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.enterState(ctx, message, model.StateAwaitingFeedback); err != nil {
		return err
	}
	return b.send(message.Chat.ID, message.MessageID, msgRatePrompt, cancelKeyboard())
}

func (b *Bot) handleFeedbackText(ctx context.Context, message *tgbotapi.Message) error {
	userID := senderID(message)
	if err := b.predictor.SendFeedback(ctx, userID, message.Text); err != nil {
		b.logger.Warn("failed to deliver feedback", zap.Int64("user_id", userID), zap.Error(err))
	}
	if err := b.states.Clear(ctx, userID); err != nil {
		b.logger.Error("failed to clear state after feedback", zap.Int64("user_id", userID), zap.Error(err))
	}
	return b.send(message.Chat.ID, message.MessageID, msgThanks, removeKeyboard())
}

// handlePredict не меняет состояние диалога ни при успехе, ни при ошибке
func (b *Bot) handlePredict(ctx context.Context, message *tgbotapi.Message) error {
	record, err := parser.ParseSingle(message.Text)
	if err != nil {
		return b.replyInvalid(message, err)
	}
	if err := validator.Validate(record); err != nil {
		return b.replyInvalid(message, err)
	}

	prediction, err := b.predictor.Predict(ctx, senderID(message), record)
	if err == nil && prediction == "" {
		err = fmt.Errorf("empty prediction: %w", service.ErrUpstream)
	}
	if err != nil {
		return b.replyInvalid(message, err)
	}
	return b.send(message.Chat.ID, message.MessageID, string(prediction), nil)
}

func (b *Bot) handlePredictBatch(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.enterState(ctx, message, model.StateAwaitingBatch); err != nil {
		return err
	}
	return b.send(message.Chat.ID, 0, msgBatchPrompt, cancelKeyboard())
}

// handleBatchText при ошибке оставляет пользователя в AwaitingBatch до исправленного ввода или отмены
func (b *Bot) handleBatchText(ctx context.Context, message *tgbotapi.Message) error {
	records, err := parser.ParseBatch(message.Text)
	if err != nil {
		return b.replyInvalid(message, err)
	}
	records, err = validator.ValidateBatch(records)
	if err != nil {
		return b.replyInvalid(message, err)
	}

	userID := senderID(message)
	results, err := b.predictor.PredictBatch(ctx, userID, records)
	if err == nil && len(results) == 0 {
		err = fmt.Errorf("empty batch response: %w", service.ErrUpstream)
	}
	if err != nil {
		return b.replyInvalid(message, err)
	}

	if err := b.states.Clear(ctx, userID); err != nil {
		b.logger.Error("failed to clear state after batch", zap.Int64("user_id", userID), zap.Error(err))
	}
	return b.sendLines(message.Chat.ID, message.MessageID, formatResults(results), removeKeyboard())
}

func (b *Bot) enterState(ctx context.Context, message *tgbotapi.Message, state model.ConversationState) error {
	userID := senderID(message)
	if err := b.states.Set(ctx, userID, state); err != nil {
		b.logger.Error("failed to save conversation state",
			zap.Int64("user_id", userID),
			zap.String("state", string(state)),
			zap.Error(err))
		if sendErr := b.send(message.Chat.ID, 0, msgUnavailable, nil); sendErr != nil {
			return sendErr
		}
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// replyInvalid отвечает одинаково на ошибки разбора, проверки и сервиса
func (b *Bot) replyInvalid(message *tgbotapi.Message, cause error) error {
	reason := failureReason(cause)
	metrics.InvalidInput.WithLabelValues(reason).Inc()
	b.logger.Info("rejected request",
		zap.Int64("user_id", senderID(message)),
		zap.String("reason", reason),
		zap.Error(cause))
	return b.send(message.Chat.ID, message.MessageID, msgInvalidData, nil)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, parser.ErrMalformed):
		return "parse"
	case errors.Is(err, validator.ErrUnknownBank):
		return "validation"
	case errors.Is(err, service.ErrUpstream):
		return "upstream"
	}
	return "other"
}

func (b *Bot) send(chatID int64, replyTo int, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// sendLines отправляет строки одним или несколькими сообщениями; markup прикрепляется к последнему
func (b *Bot) sendLines(chatID int64, replyTo int, lines []string, markup interface{}) error {
	chunks := splitMessage(lines, maxMessageLength)
	for i, chunk := range chunks {
		var m interface{}
		if i == len(chunks)-1 {
			m = markup
		}
		if err := b.send(chatID, replyTo, chunk, m); err != nil {
			return err
		}
		replyTo = 0
	}
	return nil
}
