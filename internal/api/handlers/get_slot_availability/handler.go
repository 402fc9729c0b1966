package get_slot_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgSlotNotFound  = "слот не найден"
	msgSlotBusy      = "слот занят другими запросами, попробуйте ещё раз"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/{slotId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	availability, err := h.service.Availability(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, slotcapacity.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, slotcapacity.ErrLockTimeout):
			w.Header().Set("Retry-After", "1")
			handlers.RespondUnavailable(w, msgSlotBusy)
		default:
			h.logger.Error("GET /slots/{id}/availability - Failed: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(availability))
}
