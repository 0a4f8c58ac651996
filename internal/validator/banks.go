// Package validator проверяет записи координат по закрытому списку банков.
package validator

import (
	"strings"
)

// Bank - банк из списка, поддерживаемого сервисом предсказаний
type Bank struct {
	Name    string
	Aliases []string
}

// Banks - канонический список банков. Он же выводится по команде /banks.
var Banks = []Bank{
	{Name: "ВТБ", Aliases: []string{"VTB"}},
	{Name: "Альфа-Банк", Aliases: []string{"ALFA-BANK"}},
	{Name: "Росбанк", Aliases: []string{"ROSBANK"}},
	{Name: "Россельхозбанк", Aliases: []string{"ROSSELKHOZBANK"}},
	{Name: "Газпромбанк", Aliases: []string{"GAZPROMBANK"}},
	{Name: "Ак Барс", Aliases: []string{"AK BARS"}},
	{Name: "Уралсиб Банк", Aliases: []string{"URALSIB BANK"}},
}

var knownBanks = buildIndex(Banks)

func buildIndex(banks []Bank) map[string]string {
	index := make(map[string]string)
	for _, bank := range banks {
		index[normalize(bank.Name)] = bank.Name
		for _, alias := range bank.Aliases {
			index[normalize(alias)] = bank.Name
		}
	}
	return index
}

// normalize приводит название к верхнему регистру и схлопывает пробелы
func normalize(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// Canonical возвращает каноническое название банка
func Canonical(name string) (string, bool) {
	canonical, ok := knownBanks[normalize(name)]
	return canonical, ok
}

// BankNames возвращает канонические названия в порядке списка
func BankNames() []string {
	names := make([]string, 0, len(Banks))
	for _, bank := range Banks {
		names = append(names, bank.Name)
	}
	return names
}
