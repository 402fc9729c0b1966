package check_eligibility

import (
	"context"
	"errors"
	"fmt"

	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
)

// UseCase use case для предварительной проверки правил записи
type UseCase struct {
	slotRepo SlotRepository
	engine   EligibilityEngine
	holds    HoldsReader
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, engine EligibilityEngine, holds HoldsReader, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		engine:   engine,
		holds:    holds,
		logger:   logger,
	}
}

// Execute выполняет проверку и возвращает все нарушения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckEligibility: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем слоты
	slots, err := uc.slotRepo.GetByIDs(ctx, req.SlotIDs)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CheckEligibility: failed to get slots=%v: %v", req.SlotIDs, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}
	for _, slot := range slots {
		if slot.FormID != req.FormID {
			return nil, fmt.Errorf("%w: slot id=%d does not belong to form id=%d", ErrInvalidInput, slot.ID, req.FormID)
		}
	}

	// 3. Без сессии места не ограничиваются удержаниями
	granted, unlimited := heldSeats(uc.holds.SessionHolds(req.SessionID, req.SlotIDs), req.SlotIDs, req.SessionID)

	// 4. Правила формы
	result, err := uc.engine.Evaluate(ctx, eligibility.Candidate{
		FormID:               req.FormID,
		Email:                req.Email,
		ConfirmEmail:         req.ConfirmEmail,
		Slots:                slots,
		RawSeats:             req.Seats,
		GrantedSeats:         granted,
		AllowOverbooking:     unlimited,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		if errors.Is(err, eligibility.ErrRulesNotFound) {
			return nil, ErrRulesNotFound
		}
		uc.logger.Error("CheckEligibility: form id=%d: %v", req.FormID, err)
		return nil, fmt.Errorf("%w: eligibility check: %v", ErrInternal, err)
	}

	uc.logger.Info("CheckEligibility: form=%d, slots=%v, violations=[%s]", req.FormID, req.SlotIDs, result.String())

	return &Response{
		Eligible:   result.OK(),
		Violations: result.Violations,
		Seats:      result.Seats,
	}, nil
}
