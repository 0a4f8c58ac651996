// Package service реализует клиент HTTP/JSON API сервиса предсказаний.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/metrics"
	"github.com/ivanoskov/atm_bot/internal/model"
)

// ErrUpstream - сервис ответил ошибкой, недоступен или вернул неожиданный JSON
var ErrUpstream = errors.New("prediction service error")

const (
	endpointPredict      = "predict"
	endpointPredictBatch = "predict_batch"
	endpointHistory      = "history"
	endpointFeedback     = "feedback"
)

// PredictionClient обращается к сервису предсказаний
type PredictionClient struct {
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
	predictSchema *gojsonschema.Schema
	listSchema    *gojsonschema.Schema
}

type predictRequest struct {
	UserID       int64  `json:"id_user"`
	Latitude     string `json:"lat"`
	Longitude    string `json:"long"`
	BankCategory string `json:"atm_group"`
}

type predictBatchRequest struct {
	UserID         int64     `json:"id_user"`
	Latitudes      []float64 `json:"lat"`
	Longitudes     []float64 `json:"long"`
	BankCategories []string  `json:"atm_group"`
}

type feedbackRequest struct {
	UserID   int64  `json:"id_user"`
	Feedback string `json:"feedback"`
}

type predictResponse struct {
	Prediction model.Prediction `json:"prediction"`
}

// NewPredictionClient создает клиент; timeout ограничивает каждый запрос целиком
func NewPredictionClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*PredictionClient, error) {
	predictSchema, err := compileSchema(predictResponseSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile predict schema: %w", err)
	}
	listSchema, err := compileSchema(predictionListSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile prediction list schema: %w", err)
	}

	return &PredictionClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
		predictSchema: predictSchema,
		listSchema:    listSchema,
	}, nil
}

// Predict запрашивает предсказание для одной точки.
// Координаты передаются строками, как их ожидает /predict.
func (c *PredictionClient) Predict(ctx context.Context, userID int64, record model.CoordinateRecord) (model.Prediction, error) {
	req := predictRequest{
		UserID:       userID,
		Latitude:     record.LatitudeString(),
		Longitude:    record.LongitudeString(),
		BankCategory: record.BankCategory,
	}

	var resp predictResponse
	if err := c.do(ctx, endpointPredict, http.MethodPost, "/predict", req, &resp, c.predictSchema); err != nil {
		return "", err
	}
	return resp.Prediction, nil
}

// PredictBatch отправляет записи параллельными массивами, по элементу на запись
func (c *PredictionClient) PredictBatch(ctx context.Context, userID int64, records []model.CoordinateRecord) ([]model.PredictionResult, error) {
	req := predictBatchRequest{
		UserID:         userID,
		Latitudes:      make([]float64, 0, len(records)),
		Longitudes:     make([]float64, 0, len(records)),
		BankCategories: make([]string, 0, len(records)),
	}
	for _, record := range records {
		req.Latitudes = append(req.Latitudes, record.Latitude)
		req.Longitudes = append(req.Longitudes, record.Longitude)
		req.BankCategories = append(req.BankCategories, record.BankCategory)
	}

	var results []model.PredictionResult
	if err := c.do(ctx, endpointPredictBatch, http.MethodPost, "/predict_batch", req, &results, c.listSchema); err != nil {
		return nil, err
	}
	if len(results) != len(records) {
		c.logger.Warn("batch result size differs from request",
			zap.Int("requested", len(records)),
			zap.Int("received", len(results)))
	}
	return results, nil
}

// History возвращает историю запросов пользователя; пустой список - истории нет
func (c *PredictionClient) History(ctx context.Context, userID int64) ([]model.PredictionResult, error) {
	var results []model.PredictionResult
	path := "/history/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, endpointHistory, http.MethodGet, path, nil, &results, c.listSchema); err != nil {
		return nil, err
	}
	return results, nil
}

// SendFeedback пересылает отзыв без изменений. Тело и статус ответа не используются.
func (c *PredictionClient) SendFeedback(ctx context.Context, userID int64, text string) error {
	req := feedbackRequest{
		UserID:   userID,
		Feedback: text,
	}
	return c.do(ctx, endpointFeedback, http.MethodPost, "/feedback", req, nil, nil)
}

// do выполняет запрос. Если out == nil, ответ читается и отбрасывается.
func (c *PredictionClient) do(ctx context.Context, endpoint, method, path string, body, out interface{}, schema *gojsonschema.Schema) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(zap.String("endpoint", endpoint), zap.String("request_id", requestID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		log.Warn("prediction service request failed", zap.Error(err), zap.Duration("duration", elapsed))
		return fmt.Errorf("%s request: %v: %w", endpoint, err, ErrUpstream)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug("prediction service responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %v: %w", endpoint, err, ErrUpstream)
	}

	if out == nil {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		log.Info("prediction service rejected request", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s returned status %d: %w", endpoint, resp.StatusCode, ErrUpstream)
	}

	if schema != nil {
		if err := validateBody(schema, data); err != nil {
			log.Warn("unexpected prediction service response", zap.Error(err))
			return fmt.Errorf("%s response: %v: %w", endpoint, err, ErrUpstream)
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %v: %w", endpoint, err, ErrUpstream)
	}
	return nil
}

func validateBody(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.New(strings.Join(details, "; "))
}
