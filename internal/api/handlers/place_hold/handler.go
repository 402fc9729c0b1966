package place_hold

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	placeHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/place_hold"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSession     = "отсутствует идентификатор сессии"
	msgSlotNotFound       = "слот не найден"
	msgRulesNotFound      = "правила формы не настроены"
	msgSlotClosed         = "слот закрыт для записи"
	msgNoSeats            = "свободных мест нет"
	msgSlotBusy           = "слот занят другими запросами, попробуйте ещё раз"
	msgShuttingDown       = "сервис останавливается"
)

type Handler struct {
	useCase PlaceHoldUseCase
	logger  Logger
}

func NewHandler(useCase PlaceHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /slots/{id}/holds - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	// Тело необязательно: без него удерживается максимум формы
	var req PlaceHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /slots/{id}/holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(sessionID, slotID))
	if err != nil {
		switch {
		case errors.Is(err, placeHold.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, placeHold.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, placeHold.ErrRulesNotFound):
			h.logger.Error("POST /slots/{id}/holds - Rules missing for slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgRulesNotFound)

		case errors.Is(err, placeHold.ErrSlotClosed):
			handlers.RespondConflict(w, msgSlotClosed)

		case errors.Is(err, placeHold.ErrNoSeatsAvailable):
			h.logger.Info("POST /slots/{id}/holds - Slot is full: slot_id=%d, session=%s", slotID, sessionID)
			handlers.RespondConflict(w, msgNoSeats)

		case errors.Is(err, placeHold.ErrSlotBusy):
			w.Header().Set("Retry-After", "1")
			handlers.RespondUnavailable(w, msgSlotBusy)

		case errors.Is(err, placeHold.ErrShuttingDown):
			handlers.RespondUnavailable(w, msgShuttingDown)

		default:
			h.logger.Error("POST /slots/{id}/holds - Failed to place hold: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/holds - Hold placed: slot_id=%d, session=%s, seats=%d",
		slotID, sessionID, resp.GrantedSeats)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
