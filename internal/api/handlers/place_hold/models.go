package place_hold

import (
	"time"

	placeHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/place_hold"
)

// PlaceHoldRequest HTTP request model
type PlaceHoldRequest struct {
	Seats int `json:"seats"` // 0 = максимум формы
}

// HoldResponse HTTP response model
type HoldResponse struct {
	HoldID                   string `json:"holdId"`
	SlotID                   int64  `json:"slotId"`
	GrantedSeats             int    `json:"grantedSeats"`
	RemainingPlaces          int    `json:"remainingPlaces"`
	PotentialRemainingPlaces int    `json:"potentialRemainingPlaces"`
	ExpiresAt                string `json:"expiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PlaceHoldRequest) ToUseCaseRequest(sessionID string, slotID int64) *placeHold.Request {
	return &placeHold.Request{
		SessionID: sessionID,
		SlotID:    slotID,
		Seats:     r.Seats,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *placeHold.Response) *HoldResponse {
	return &HoldResponse{
		HoldID:                   resp.HoldID,
		SlotID:                   resp.SlotID,
		GrantedSeats:             resp.GrantedSeats,
		RemainingPlaces:          resp.RemainingPlaces,
		PotentialRemainingPlaces: resp.PotentialRemainingPlaces,
		ExpiresAt:                resp.ExpiresAt.Format(time.RFC3339),
	}
}
