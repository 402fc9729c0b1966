package place_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	rulesRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/rules"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
)

// UseCase use case для временного удержания мест на слоте
type UseCase struct {
	slotRepo       SlotRepository
	rulesRepo      RulesRepository
	manager        CapacityManager
	defaultTimeout time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	rulesRepo RulesRepository,
	manager CapacityManager,
	defaultTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		rulesRepo:      rulesRepo,
		manager:        manager,
		defaultTimeout: defaultTimeout,
		logger:         logger,
	}
}

// Execute выполняет use case удержания мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PlaceHold: session=%s, slot=%d, seats=%d", req.SessionID, req.SlotID, req.Seats)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PlaceHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Слот нужен, чтобы найти правила его формы
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("PlaceHold: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("PlaceHold: failed to get slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Правила формы: максимум мест и время жизни удержания
	rules, err := uc.rulesRepo.GetFormRules(ctx, slot.FormID)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			uc.logger.Warn("PlaceHold: rules for form id=%d not found", slot.FormID)
			return nil, ErrRulesNotFound
		}
		uc.logger.Error("PlaceHold: failed to get rules for form id=%d: %v", slot.FormID, err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	limit := maxSeats(rules)
	requested := req.Seats
	if requested == 0 || requested > limit {
		requested = limit
	}

	// 4. Удержание
	result, err := uc.manager.PlaceHold(ctx, slotcapacity.HoldRequest{
		SessionID:      req.SessionID,
		SlotID:         req.SlotID,
		RequestedSeats: requested,
		MaxSeats:       limit,
		Timeout:        holdTimeout(rules, uc.defaultTimeout),
	})
	if err != nil {
		return nil, uc.mapError(req, err)
	}

	uc.logger.Info("PlaceHold: session=%s holds %d seats on slot id=%d, potential remaining=%d",
		req.SessionID, result.GrantedSeats, req.SlotID, result.PotentialRemainingPlaces)

	return &Response{
		HoldID:                   result.Token.ID,
		SlotID:                   req.SlotID,
		GrantedSeats:             result.GrantedSeats,
		RemainingPlaces:          result.RemainingPlaces,
		PotentialRemainingPlaces: result.PotentialRemainingPlaces,
		ExpiresAt:                result.Token.ExpiresAt,
	}, nil
}

func (uc *UseCase) mapError(req *Request, err error) error {
	switch {
	case errors.Is(err, slotcapacity.ErrBusy):
		uc.logger.Warn("PlaceHold: no seats left on slot id=%d", req.SlotID)
		return ErrNoSeatsAvailable
	case errors.Is(err, slotcapacity.ErrSlotClosed):
		uc.logger.Warn("PlaceHold: slot id=%d is closed", req.SlotID)
		return ErrSlotClosed
	case errors.Is(err, slotcapacity.ErrSlotNotFound):
		return ErrSlotNotFound
	case errors.Is(err, slotcapacity.ErrLockTimeout):
		uc.logger.Warn("PlaceHold: slot id=%d lock wait exceeded", req.SlotID)
		return ErrSlotBusy
	case errors.Is(err, slotcapacity.ErrShuttingDown):
		return ErrShuttingDown
	case errors.Is(err, slotcapacity.ErrInvalidRequest):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	uc.logger.Error("PlaceHold: failed to place hold on slot id=%d: %v", req.SlotID, err)
	return fmt.Errorf("%w: failed to place hold: %v", ErrInternal, err)
}
