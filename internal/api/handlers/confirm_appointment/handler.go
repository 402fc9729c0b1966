package confirm_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	confirmAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSession     = "отсутствует идентификатор сессии"
	msgSlotNotFound       = "слот не найден"
	msgRulesNotFound      = "правила формы не настроены"
	msgNotEligible        = "запись нарушает правила формы"
	msgNoSeats            = "мест больше нет"
	msgSlotClosed         = "слот закрыт для записи"
	msgSlotBusy           = "слот занят другими запросами, попробуйте ещё раз"
	msgShuttingDown       = "сервис останавливается"
)

type Handler struct {
	useCase ConfirmAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	var req ConfirmAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(sessionID))
	if err != nil {
		var notEligible *confirmAppointment.EligibilityError

		switch {
		case errors.As(err, &notEligible):
			h.logger.Info("POST /appointments - Not eligible: session=%s, form_id=%d", sessionID, req.FormID)
			handlers.RespondJSON(w, http.StatusUnprocessableEntity,
				FromViolations(http.StatusUnprocessableEntity, msgNotEligible, notEligible.Violations))

		case errors.Is(err, confirmAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, confirmAppointment.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, confirmAppointment.ErrRulesNotFound):
			h.logger.Error("POST /appointments - Rules missing for form_id=%d", req.FormID)
			handlers.RespondNotFound(w, msgRulesNotFound)

		case errors.Is(err, confirmAppointment.ErrNoSeatsAvailable):
			h.logger.Warn("POST /appointments - Capacity exceeded: session=%s, slots=%v", sessionID, req.SlotIDs)
			handlers.RespondConflict(w, msgNoSeats)

		case errors.Is(err, confirmAppointment.ErrSlotClosed):
			handlers.RespondConflict(w, msgSlotClosed)

		case errors.Is(err, confirmAppointment.ErrSlotBusy):
			w.Header().Set("Retry-After", "1")
			handlers.RespondUnavailable(w, msgSlotBusy)

		case errors.Is(err, confirmAppointment.ErrShuttingDown):
			handlers.RespondUnavailable(w, msgShuttingDown)

		default:
			h.logger.Error("POST /appointments - Failed to confirm appointment: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment confirmed: id=%d, reference=%s", resp.ID, resp.Reference)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
