package validator

import (
	"errors"
	"fmt"

	"github.com/ivanoskov/atm_bot/internal/model"
)

// ErrUnknownBank возвращается для банка вне канонического списка
var ErrUnknownBank = errors.New("unknown bank")

// Validate проверяет, что банк записи входит в список
func Validate(record model.CoordinateRecord) error {
	if _, ok := Canonical(record.BankCategory); !ok {
		return fmt.Errorf("%q: %w", record.BankCategory, ErrUnknownBank)
	}
	return nil
}

// ValidateBatch отклоняет весь пакет, если хотя бы одна запись не прошла проверку.
// Записи возвращаются без изменений.
func ValidateBatch(records []model.CoordinateRecord) ([]model.CoordinateRecord, error) {
	for i, record := range records {
		if err := Validate(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return records, nil
}
