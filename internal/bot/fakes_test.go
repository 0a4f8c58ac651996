package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ivanoskov/atm_bot/internal/model"
	"github.com/ivanoskov/atm_bot/internal/repository"
)

// fakeSender запоминает отправленные сообщения
type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := f.messages()
	require.NotEmpty(t, msgs, "no message was sent")
	return msgs[len(msgs)-1]
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// fakePredictor возвращает заданные ответы и запоминает вызовы
type fakePredictor struct {
	mu sync.Mutex

	prediction   model.Prediction
	predictErr   error
	batchResults []model.PredictionResult
	batchErr     error
	history      []model.PredictionResult
	historyErr   error
	feedbackErr  error
	panicOn      string

	predictCalls  []model.CoordinateRecord
	batchCalls    [][]model.CoordinateRecord
	historyCalls  []int64
	feedbackCalls []string
}

func (f *fakePredictor) Predict(_ context.Context, _ int64, record model.CoordinateRecord) (model.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn == "predict" {
		panic("predictor exploded")
	}
	f.predictCalls = append(f.predictCalls, record)
	return f.prediction, f.predictErr
}

func (f *fakePredictor) PredictBatch(_ context.Context, _ int64, records []model.CoordinateRecord) ([]model.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls = append(f.batchCalls, records)
	return f.batchResults, f.batchErr
}

func (f *fakePredictor) History(_ context.Context, userID int64) ([]model.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls = append(f.historyCalls, userID)
	return f.history, f.historyErr
}

func (f *fakePredictor) SendFeedback(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbackCalls = append(f.feedbackCalls, text)
	return f.feedbackErr
}

// failingStore - хранилище, которое всегда возвращает ошибку
type failingStore struct{}

var errStoreDown = errors.New("store is down")

func (failingStore) Get(context.Context, int64) (model.ConversationState, error) {
	return model.StateIdle, errStoreDown
}

func (failingStore) Set(context.Context, int64, model.ConversationState) error {
	return errStoreDown
}

func (failingStore) Clear(context.Context, int64) error {
	return errStoreDown
}

type testBot struct {
	*Bot
	sender    *fakeSender
	predictor *fakePredictor
	store     *repository.MemoryStore
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	sender := &fakeSender{}
	predictor := &fakePredictor{}
	store := repository.NewMemoryStore()
	return &testBot{
		Bot:       newBot(sender, predictor, store, zaptest.NewLogger(t)),
		sender:    sender,
		predictor: predictor,
		store:     store,
	}
}

// textMessage строит сообщение так, как его доставляет Telegram: команда размечена сущностью bot_command
func textMessage(userID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		end := strings.IndexFunc(text, unicode.IsSpace)
		if end < 0 {
			end = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	}
	return msg
}

func (tb *testBot) deliver(t *testing.T, userID int64, text string) tgbotapi.MessageConfig {
	t.Helper()
	tb.sender.reset()
	require.NoError(t, tb.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 1, Message: textMessage(userID, text)}))
	return tb.sender.last(t)
}

func (tb *testBot) state(t *testing.T, userID int64) model.ConversationState {
	t.Helper()
	state, err := tb.store.Get(context.Background(), userID)
	require.NoError(t, err)
	return state
}
