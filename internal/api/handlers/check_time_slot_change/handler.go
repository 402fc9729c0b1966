package check_time_slot_change

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	checkTimeSlotChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_time_slot_change"
)

const (
	msgInvalidFormID      = "некорректный ID формы"
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	useCase CheckTimeSlotChangeUseCase
	logger  Logger
}

func NewHandler(useCase CheckTimeSlotChangeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/forms/{formId}/time-slots/impact
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	formID, err := strconv.ParseInt(mux.Vars(r)["formId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFormID)
		return
	}

	var body TimeSlotChangeRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /forms/{id}/time-slots/impact - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req, err := body.ToUseCaseRequest(formID)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, checkTimeSlotChange.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /forms/{id}/time-slots/impact - Failed: form_id=%d, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /forms/{id}/time-slots/impact - form_id=%d, impacted=%t, slots=%d",
		formID, resp.Impacted, len(resp.ImpactedSlotIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
