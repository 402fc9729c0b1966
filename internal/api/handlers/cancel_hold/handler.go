package cancel_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
)

const (
	msgMissingSession = "отсутствует идентификатор сессии"
	msgHoldNotFound   = "удержание не найдено или уже истекло"
	msgForbidden      = "доступ запрещен"
	msgSlotBusy       = "слот занят другими запросами, попробуйте ещё раз"
)

type Handler struct {
	service HoldService
	logger  Logger
}

func NewHandler(service HoldService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/holds/{holdId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID := mux.Vars(r)["holdId"]

	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	tok, found := h.service.LookupHold(holdID)
	if !found {
		handlers.RespondNotFound(w, msgHoldNotFound)
		return
	}

	// Удержание может отменить только сессия, которая его получила
	if tok.SessionID != sessionID {
		h.logger.Warn("DELETE /holds/{id} - Access denied: hold_id=%s, session=%s", holdID, sessionID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	released, err := h.service.CancelHold(r.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, slotcapacity.ErrLockTimeout):
			w.Header().Set("Retry-After", "1")
			handlers.RespondUnavailable(w, msgSlotBusy)
		default:
			h.logger.Error("DELETE /holds/{id} - Failed to cancel hold: hold_id=%s, error=%v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Удержание истекло между поиском и отменой
	if !released {
		handlers.RespondNotFound(w, msgHoldNotFound)
		return
	}

	h.logger.Info("DELETE /holds/{id} - Hold cancelled: hold_id=%s, session=%s", holdID, sessionID)
	w.WriteHeader(http.StatusNoContent)
}
