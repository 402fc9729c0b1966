package events

import "errors"

var (
	// ErrPublish возвращается, когда событие не удалось отправить брокеру
	ErrPublish = errors.New("events publisher: publish failed")

	// ErrMarshal возвращается при ошибке сериализации события
	ErrMarshal = errors.New("events publisher: failed to marshal event")

	// ErrClosed возвращается после закрытия издателя
	ErrClosed = errors.New("events publisher: closed")
)
