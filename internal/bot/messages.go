package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ivanoskov/atm_bot/internal/model"
	"github.com/ivanoskov/atm_bot/internal/validator"
)

const (
	msgStart       = "Готов к работе!"
	msgCancel      = "Отмена"
	msgInvalidData = "Некорректные данные"
	msgNoHistory   = "Нет истории"
	msgRatePrompt  = "Оставьте отзыв"
	msgThanks      = "Спасибо!"
	msgUnavailable = "Сервис временно недоступен, попробуйте позже"
)

const msgBatchPrompt = "Введите координаты и банк (каждая запись с новой строки)\n\n" +
	"Пример:\n" +
	"60.56805, 45.04305, ВТБ\n" +
	"55.75222, 37.61556, Росбанк"

const msgHelp = "Список доступных команд:\n\n" +
	"/predict [lat], [long], [bank] - предсказание по координатам\n" +
	"/predict_batch - предсказания по нескольким точкам\n" +
	"/history - история запросов\n" +
	"/banks - список банков\n" +
	"/rate - оставить обратную связь\n" +
	"/cancel - отменить текущее действие\n\n" +
	"Пример:\n" +
	"/predict 60.56805, 45.04305, ВТБ"

// maxMessageLength - ограничение Telegram на длину текста сообщения
const maxMessageLength = 4096

func banksText() string {
	var sb strings.Builder
	sb.WriteString("Список доступных банков:\n")
	for _, name := range validator.BankNames() {
		sb.WriteString("\n• ")
		sb.WriteString(name)
	}
	return sb.String()
}

// formatResult выводит результат как "(lat, long): prediction" или "(lat, long, bank): prediction"
func formatResult(result model.PredictionResult) string {
	if result.BankCategory != "" {
		return fmt.Sprintf("(%s, %s, %s): %s", result.Latitude, result.Longitude, result.BankCategory, result.Prediction)
	}
	return fmt.Sprintf("(%s, %s): %s", result.Latitude, result.Longitude, result.Prediction)
}

func formatResults(results []model.PredictionResult) []string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		lines = append(lines, formatResult(result))
	}
	return lines
}

// splitMessage склеивает строки в сообщения не длиннее limit символов.
// Строка длиннее limit режется на части.
func splitMessage(lines []string, limit int) []string {
	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if size > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range lines {
		for utf8.RuneCountInString(line) > limit {
			flush()
			head, tail := splitAtRune(line, limit)
			chunks = append(chunks, head)
			line = tail
		}

		n := utf8.RuneCountInString(line)
		if size > 0 && size+1+n > limit {
			flush()
		}
		if size > 0 {
			current.WriteByte('\n')
			size++
		}
		current.WriteString(line)
		size += n
	}
	flush()
	return chunks
}

func splitAtRune(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
