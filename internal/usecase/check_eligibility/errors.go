package check_eligibility

import "errors"

var (
	// ErrSlotNotFound возвращается, когда хотя бы один слот не найден
	ErrSlotNotFound = errors.New("check_eligibility: slot not found")

	// ErrRulesNotFound возвращается, когда для формы не настроены правила
	ErrRulesNotFound = errors.New("check_eligibility: form rules not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_eligibility: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_eligibility: internal error")
)
