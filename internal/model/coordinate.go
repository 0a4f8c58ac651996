package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// CoordinateRecord - координаты точки и банк, для которых запрашивается предсказание
type CoordinateRecord struct {
	Latitude     float64
	Longitude    float64
	BankCategory string
}

// LatitudeString возвращает широту в кратчайшей десятичной записи
func (r CoordinateRecord) LatitudeString() string {
	return strconv.FormatFloat(r.Latitude, 'f', -1, 64)
}

// LongitudeString возвращает долготу в кратчайшей десятичной записи
func (r CoordinateRecord) LongitudeString() string {
	return strconv.FormatFloat(r.Longitude, 'f', -1, 64)
}

// Prediction - непрозрачный ответ сервиса предсказаний.
// JSON-строка хранится без кавычек, любое другое значение - как есть.
type Prediction string

func (p *Prediction) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Prediction(s)
		return nil
	}
	*p = Prediction(data)
	return nil
}

// PredictionResult - элемент ответа /predict_batch и /history.
// Сервис может вернуть координаты как числом, так и строкой.
type PredictionResult struct {
	Latitude     json.Number `json:"lat"`
	Longitude    json.Number `json:"long"`
	BankCategory string      `json:"atm_group,omitempty"`
	Prediction   Prediction  `json:"prediction"`
}
