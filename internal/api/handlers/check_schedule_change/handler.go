package check_schedule_change

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	checkScheduleChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_schedule_change"
)

const (
	msgInvalidFormID      = "некорректный ID формы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgScheduleNotFound   = "расписание формы не найдено"
)

type Handler struct {
	useCase CheckScheduleChangeUseCase
	logger  Logger
}

func NewHandler(useCase CheckScheduleChangeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/forms/{formId}/schedule/impact
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	formID, err := strconv.ParseInt(mux.Vars(r)["formId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFormID)
		return
	}

	var body ScheduleChangeRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /forms/{id}/schedule/impact - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req, err := body.ToUseCaseRequest(formID)
	if err != nil {
		h.logger.Warn("POST /forms/{id}/schedule/impact - Invalid schedule: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, checkScheduleChange.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, checkScheduleChange.ErrScheduleNotFound):
			handlers.RespondNotFound(w, msgScheduleNotFound)
		default:
			h.logger.Error("POST /forms/{id}/schedule/impact - Failed: form_id=%d, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /forms/{id}/schedule/impact - form_id=%d, impacted=%t", formID, resp.Impacted)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
