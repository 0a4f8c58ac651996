// Package parser разбирает текст сообщения в записи координат.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ivanoskov/atm_bot/internal/model"
)

// ErrMalformed возвращается, если текст не удалось разобрать
var ErrMalformed = errors.New("malformed coordinates")

// Mode определяет, ожидается одна запись или несколько
type Mode int

const (
	Single Mode = iota
	Batch
)

// fieldSeparator - единственный поддерживаемый разделитель полей записи
const fieldSeparator = ", "

// Parse разбирает текст в соответствии с режимом
func Parse(text string, mode Mode) ([]model.CoordinateRecord, error) {
	switch mode {
	case Single:
		record, err := ParseSingle(text)
		if err != nil {
			return nil, err
		}
		return []model.CoordinateRecord{record}, nil
	case Batch:
		return ParseBatch(text)
	}
	return nil, fmt.Errorf("unknown parse mode %d", mode)
}

// ParseSingle разбирает команду вида "/predict <lat>, <long>, <bank>".
// Префикс команды (в том числе "/predict@bot") отбрасывается.
func ParseSingle(text string) (model.CoordinateRecord, error) {
	return parseLine(stripCommand(text))
}

// ParseBatch разбирает многострочный ввод, по одной записи в строке.
// Пустые строки пропускаются, любая некорректная строка отклоняет весь ввод.
func ParseBatch(text string) ([]model.CoordinateRecord, error) {
	var records []model.CoordinateRecord
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		record, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty batch: %w", ErrMalformed)
	}
	return records, nil
}

func stripCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx:])
}

func parseLine(line string) (model.CoordinateRecord, error) {
	fields := strings.Split(strings.TrimSpace(line), fieldSeparator)
	if len(fields) != 3 {
		return model.CoordinateRecord{}, fmt.Errorf("expected 3 fields, got %d: %w", len(fields), ErrMalformed)
	}

	lat, err := parseNumber(fields[0])
	if err != nil {
		return model.CoordinateRecord{}, fmt.Errorf("latitude: %w", err)
	}
	long, err := parseNumber(fields[1])
	if err != nil {
		return model.CoordinateRecord{}, fmt.Errorf("longitude: %w", err)
	}

	bank := strings.TrimSpace(fields[2])
	if bank == "" {
		return model.CoordinateRecord{}, fmt.Errorf("empty bank: %w", ErrMalformed)
	}

	return model.CoordinateRecord{
		Latitude:     lat,
		Longitude:    long,
		BankCategory: bank,
	}, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number: %w", s, ErrMalformed)
	}
	return v, nil
}
