package check_eligibility

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	checkEligibility "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_eligibility"
)

const (
	msgInvalidFormID      = "некорректный ID формы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotFound       = "слот не найден"
	msgRulesNotFound      = "правила формы не настроены"
)

type Handler struct {
	useCase CheckEligibilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckEligibilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/forms/{formId}/eligibility
// Сессия необязательна: без неё число мест не сверяется с удержаниями
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	formID, err := strconv.ParseInt(mux.Vars(r)["formId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFormID)
		return
	}

	var req CheckEligibilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /forms/{id}/eligibility - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get(middleware.HeaderSessionID))

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(formID, sessionID))
	if err != nil {
		switch {
		case errors.Is(err, checkEligibility.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, checkEligibility.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, checkEligibility.ErrRulesNotFound):
			handlers.RespondNotFound(w, msgRulesNotFound)
		default:
			h.logger.Error("POST /forms/{id}/eligibility - Failed: form_id=%d, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
