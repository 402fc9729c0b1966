package holdscheduler

// FireFunc вызывается по истечении задержки в отдельной горутине
// Функция сама забирает токен через Token.Claim под блокировкой слота
type FireFunc func(token *Token)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
