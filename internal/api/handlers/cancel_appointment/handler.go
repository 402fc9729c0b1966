package cancel_appointment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	cancelAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgAlreadyCancelled     = "запись уже отменена"
	msgPassed               = "запись уже прошла"
	msgForbidden            = "доступ запрещен"
	msgSlotBusy             = "слот занят другими запросами, попробуйте ещё раз"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
// и PATCH /api/v1/appointments/reference/{reference}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var appointmentID int64
	if raw, ok := vars["appointmentId"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)
			return
		}
		appointmentID = id
	}
	reference := vars["reference"]

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID, reference))
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cancelAppointment.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelAppointment.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/cancel - Access denied: id=%d, reference=%q", appointmentID, reference)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelAppointment.ErrAlreadyCancelled):
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, cancelAppointment.ErrAppointmentPassed):
			handlers.RespondConflict(w, msgPassed)

		case errors.Is(err, cancelAppointment.ErrSlotBusy):
			w.Header().Set("Retry-After", "1")
			handlers.RespondUnavailable(w, msgSlotBusy)

		default:
			h.logger.Error("PATCH /appointments/cancel - Failed to cancel: id=%d, reference=%q, error=%v",
				appointmentID, reference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/cancel - Appointment cancelled: id=%d, reference=%s", resp.ID, resp.Reference)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
