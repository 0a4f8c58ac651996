package model

import "time"

// ConversationState - режим диалога, в котором сейчас находится пользователь
type ConversationState string

const (
	StateIdle             ConversationState = "idle"
	StateAwaitingBatch    ConversationState = "awaiting_batch"
	StateAwaitingFeedback ConversationState = "awaiting_feedback"
)

// Valid сообщает, является ли значение одним из известных состояний
func (s ConversationState) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingBatch, StateAwaitingFeedback:
		return true
	}
	return false
}

// UserState представляет текущее состояние пользователя в долговременном хранилище
type UserState struct {
	UserID    int64             `json:"user_id"`
	State     ConversationState `json:"state"`
	UpdatedAt time.Time         `json:"updated_at"`
}
