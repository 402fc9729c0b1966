package eligibility

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CheckEmail проверяет email и его подтверждение
// Пустые значения - нарушение только для форм с обязательным email; сравнение без учёта регистра
func CheckEmail(email, confirmEmail string, mandatory bool) []Code {
	var codes []Code
	if mandatory {
		if strings.TrimSpace(email) == "" {
			codes = append(codes, CodeEmailEmpty)
		}
		if strings.TrimSpace(confirmEmail) == "" {
			codes = append(codes, CodeConfirmEmailEmpty)
		}
	}
	if !strings.EqualFold(email, confirmEmail) {
		codes = append(codes, CodeEmailMismatch)
	}
	return codes
}

// DateNotInPast возвращает false, если начала нет или его календарная дата раньше сегодняшней
// Сегодня определяется в часовом поясе слота
func DateNotInPast(start time.Time, now time.Time) bool {
	if start.IsZero() {
		return false
	}
	today := domain.DateOf(now.In(start.Location()))
	return !domain.DateOf(start).Before(today)
}

// GapRespected правило минимального числа дней между записями
// Сравнивается начало последней (по времени начала) неотменённой записи с кандидатом по модулю,
// то есть правило запрещает и запись перед уже существующей будущей записью.
// Граница включительна: |дни| == minGapDays - нарушение
func GapRespected(history []*domain.Appointment, candidateStart time.Time, minGapDays int, excludeID int64) bool {
	if minGapDays <= 0 {
		return true
	}

	var last time.Time
	for _, a := range history {
		if a.IsCancelled || a.ID == excludeID || len(a.Slots) == 0 {
			continue
		}
		if start := a.StartingAt(); last.IsZero() || start.After(last) {
			last = start
		}
	}
	if last.IsZero() {
		return true
	}
	return abs(domain.DaysBetween(last, candidateStart)) > minGapDays
}

// GapSinceLastTakenRespected то же правило по дате оформления последней записи
// Граница строгая: |дни| < minGapDays - нарушение
func GapSinceLastTakenRespected(history []*domain.Appointment, now time.Time, minGapDays int, excludeID int64) bool {
	if minGapDays <= 0 {
		return true
	}

	var lastTaken time.Time
	for _, a := range history {
		if a.IsCancelled || a.ID == excludeID || a.DateTaken.IsZero() {
			continue
		}
		if lastTaken.IsZero() || a.DateTaken.After(lastTaken) {
			lastTaken = a.DateTaken
		}
	}
	if lastTaken.IsZero() {
		return true
	}
	return abs(domain.DaysBetween(lastTaken, now)) >= minGapDays
}

// WindowCapRespected ограничение числа записей за период
// При windowDays > 0 учитываются записи в [дата-(windowDays-1), дата+(windowDays-1)],
// которые делятся на "до" (дата записи <= даты кандидата) и "после" (>=);
// нарушение, если любая из частей уже достигла maxPerPeriod.
// При windowDays == 0 ограничивается общее число записей
func WindowCapRespected(history []*domain.Appointment, candidateDate time.Time, maxPerPeriod, windowDays int, excludeID int64) bool {
	if maxPerPeriod <= 0 {
		return true
	}

	active := make([]*domain.Appointment, 0, len(history))
	for _, a := range history {
		if a.IsCancelled || a.ID == excludeID || len(a.Slots) == 0 {
			continue
		}
		active = append(active, a)
	}

	if windowDays <= 0 {
		return len(active) < maxPerPeriod
	}

	date := domain.DateOf(candidateDate)
	lower := date.AddDate(0, 0, -(windowDays - 1))
	upper := date.AddDate(0, 0, windowDays-1)

	before, after := 0, 0
	for _, a := range active {
		d := domain.DateOf(a.StartingAt().In(date.Location()))
		if d.Before(lower) || d.After(upper) {
			continue
		}
		if !d.After(date) {
			before++
		}
		if !d.Before(date) {
			after++
		}
	}
	return before < maxPerPeriod && after < maxPerPeriod
}

// CategoryCapRespected ограничение числа активных записей пользователя в категории
// Не учитываются отменённые и уже закончившиеся записи
func CategoryCapRespected(history []*domain.Appointment, now time.Time, maxPerUser int, excludeID int64) bool {
	if maxPerUser <= 0 {
		return true
	}

	count := 0
	for _, a := range history {
		if a.IsCancelled || a.ID == excludeID || a.IsExpired(now) {
			continue
		}
		count++
	}
	return count < maxPerUser
}

// ParseSeats разбирает число мест
// Для форм на одного человека место всегда одно и ввод не требуется. Для остальных пустое значение
// и ошибка формата - нарушения. Ноль и превышение выданного удержания (если перебронирование
// запрещено) проверяются для любой формы
func ParseSeats(raw string, maxPeople int, grantedSeats int, allowOverbooking bool) (int, []Code) {
	seats := 1
	if maxPeople > 1 {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, []Code{CodeSeatsEmpty}
		}

		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 1, []Code{CodeSeatsFormat}
		}
		seats = n
	}

	var codes []Code
	if seats > grantedSeats && !allowOverbooking {
		codes = append(codes, CodeSeatsExceeded)
	}
	if seats == 0 {
		codes = append(codes, CodeSeatsEmpty)
	}
	return seats, codes
}

// SlotsConsecutive проверяет, что выбранные слоты идут подряд без промежутков
// Слоты упорядочиваются по началу; конец каждого должен совпадать с началом следующего
func SlotsConsecutive(slots []*domain.Slot) bool {
	for _, s := range slots {
		if s == nil {
			return false
		}
	}
	if len(slots) < 2 {
		return true
	}

	ordered := append([]*domain.Slot(nil), slots...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartingAt.Before(ordered[j].StartingAt) })

	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].EndingAt.Equal(ordered[i+1].StartingAt) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
