package domain

// FormRules represents the per-form reservation rules used by eligibility and capacity checks
type FormRules struct {
	FormID                     int64
	CategoryID                 *int64 // NULL = form is not attached to a category
	EnableMandatoryEmail       bool
	MinDaysBetweenAppointments int // 0 = no gap rule
	MaxAppointmentsPerPeriod   int // 0 = unlimited
	PeriodDays                 int // 0 = the cap applies to the whole history
	MaxPeoplePerAppointment    int
	MaxCapacityPerSlot         int
	HoldTimeoutSeconds         int // 0 = use the service default
}

// HasGapRule returns true if a minimum number of days between appointments is configured
func (r *FormRules) HasGapRule() bool {
	return r.MinDaysBetweenAppointments > 0
}

// HasPeriodCap returns true if the number of appointments per user is limited
func (r *FormRules) HasPeriodCap() bool {
	return r.MaxAppointmentsPerPeriod > 0
}

// HasRollingWindow returns true if the appointment cap is evaluated on a two-sided window
func (r *FormRules) HasRollingWindow() bool {
	return r.PeriodDays > 0
}

// SupportsSeveralSeats returns true if a single appointment can book more than one seat
func (r *FormRules) SupportsSeveralSeats() bool {
	return r.MaxPeoplePerAppointment > 1
}

// Category groups forms sharing a cap of appointments per user
type Category struct {
	ID                     int64
	Name                   string
	MaxAppointmentsPerUser int // 0 = unlimited
}

// HasCap returns true if the category limits the number of active appointments per user
func (c *Category) HasCap() bool {
	return c.MaxAppointmentsPerUser > 0
}
