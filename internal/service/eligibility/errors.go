package eligibility

import "errors"

var (
	// ErrRulesNotFound возвращается, когда для формы не настроены правила
	ErrRulesNotFound = errors.New("eligibility: form rules not found")

	// ErrCategoryNotFound возвращается, когда форма ссылается на несуществующую категорию (ошибка конфигурации)
	ErrCategoryNotFound = errors.New("eligibility: category not found")

	// ErrHistoryUnavailable возвращается, когда не удалось прочитать историю записей
	ErrHistoryUnavailable = errors.New("eligibility: appointment history unavailable")

	// ErrInvalidCandidate возвращается при некорректном кандидате
	ErrInvalidCandidate = errors.New("eligibility: invalid candidate")
)
