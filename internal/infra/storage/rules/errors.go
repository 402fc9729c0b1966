package rules

import "errors"

var (
	// ErrRulesNotFound возвращается, когда для формы не настроены правила
	ErrRulesNotFound = errors.New("rules.repository: form rules not found")

	// ErrCategoryNotFound возвращается, когда категория не найдена
	ErrCategoryNotFound = errors.New("rules.repository: category not found")

	// ErrScheduleNotFound возвращается, когда для формы не настроена неделя
	ErrScheduleNotFound = errors.New("rules.repository: week schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rules.repository: failed to scan row")
)
