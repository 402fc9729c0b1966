package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger логгер с printf-интерфейсом поверх log/slog
// Пишет в stdout и, если задан путь, дополнительно в файл
type Logger struct {
	slog *slog.Logger
	file *os.File
}

// New создает логгер. Пустой filePath означает запись только в stdout
func New(filePath string, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		out  io.Writer = os.Stdout
		file *os.File
	)
	if filePath != "" {
		file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open log file %s: %w", filePath, err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	return &Logger{
		slog: slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})),
		file: file,
	}, nil
}

// NewWithWriter создает логгер, пишущий в произвольный writer (используется в тестах)
func NewWithWriter(w io.Writer, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return &Logger{slog: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))}, nil
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", level)
	}
}

func (l *Logger) log(level slog.Level, format string, v ...interface{}) {
	if !l.slog.Enabled(context.Background(), level) {
		return
	}
	l.slog.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(slog.LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.log(slog.LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(slog.LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.log(slog.LevelError, format, v...)
}

// Fatal пишет ошибку и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(slog.LevelError, format, v...)
	_ = l.Close()
	os.Exit(1)
}

// Close закрывает файл лога, если он был открыт
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
