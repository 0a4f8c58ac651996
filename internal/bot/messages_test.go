package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivanoskov/atm_bot/internal/model"
)

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "(60.5, 45): X", formatResult(model.PredictionResult{
		Latitude: "60.5", Longitude: "45", Prediction: "X",
	}))
	assert.Equal(t, "(60.5, 45, ВТБ): 0.7", formatResult(model.PredictionResult{
		Latitude: "60.5", Longitude: "45", BankCategory: "ВТБ", Prediction: "0.7",
	}))
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		limit int
		want  []string
	}{
		{name: "nothing", lines: nil, limit: 10, want: nil},
		{name: "fits", lines: []string{"ab", "cd"}, limit: 10, want: []string{"ab\ncd"}},
		{name: "exact fit", lines: []string{"abcd", "efgh"}, limit: 9, want: []string{"abcd\nefgh"}},
		{name: "overflow", lines: []string{"abcd", "efgh", "ij"}, limit: 8, want: []string{"abcd", "efgh\nij"}},
		{name: "long line is cut", lines: []string{"ab", "абвгдежз"}, limit: 3, want: []string{"ab", "абв", "где", "жз"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitMessage(tt.lines, tt.limit))
		})
	}
}

func TestBanksText(t *testing.T) {
	text := banksText()
	assert.True(t, strings.HasPrefix(text, "Список доступных банков:"))
	assert.Contains(t, text, "• Газпромбанк")
}
