package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type contextKey string

const (
	// HeaderSessionID заголовок с идентификатором сессии пользователя
	HeaderSessionID = "X-Session-ID"

	sessionIDKey contextKey = "sessionID"

	maxSessionIDLength = 128
	msgMissingSession  = "отсутствует идентификатор сессии"
)

// Session требует заголовок X-Session-ID и кладёт его в контекст запроса
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if sessionID == "" || len(sessionID) > maxSessionIDLength {
			handlers.RespondUnauthorized(w, msgMissingSession)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID извлекает идентификатор сессии из контекста
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}

// WithSessionID кладёт идентификатор сессии в контекст (для тестов обработчиков)
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}
