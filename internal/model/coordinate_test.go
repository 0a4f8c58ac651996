package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want Prediction
	}{
		{`{"prediction":"X"}`, "X"},
		{`{"prediction":0.25}`, "0.25"},
		{`{"prediction":null}`, ""},
		{`{"prediction":[1,2]}`, "[1,2]"},
		{`{"prediction":"строка \"в кавычках\""}`, `строка "в кавычках"`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var got struct {
				Prediction Prediction `json:"prediction"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got.Prediction)
		})
	}
}

func TestPredictionResultCoordinates(t *testing.T) {
	var results []PredictionResult
	raw := `[{"lat":60.1,"long":"45.10","prediction":"A"},{"lat":"1e2","long":-3,"atm_group":null,"prediction":"B"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &results))

	assert.Equal(t, "60.1", results[0].Latitude.String())
	assert.Equal(t, "45.10", results[0].Longitude.String())
	assert.Equal(t, "1e2", results[1].Latitude.String())
	assert.Equal(t, "-3", results[1].Longitude.String())
	assert.Empty(t, results[1].BankCategory)

	var bad []PredictionResult
	assert.Error(t, json.Unmarshal([]byte(`[{"lat":"north","long":1,"prediction":"A"}]`), &bad))
}

func TestCoordinateRecordStrings(t *testing.T) {
	record := CoordinateRecord{Latitude: 60.56805, Longitude: -45, BankCategory: "ВТБ"}
	assert.Equal(t, "60.56805", record.LatitudeString())
	assert.Equal(t, "-45", record.LongitudeString())
}

func TestConversationStateValid(t *testing.T) {
	assert.True(t, StateIdle.Valid())
	assert.True(t, StateAwaitingBatch.Valid())
	assert.True(t, StateAwaitingFeedback.Valid())
	assert.False(t, ConversationState("").Valid())
}
