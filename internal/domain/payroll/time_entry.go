package payroll

import (
	"context"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Time entries
// ---------------------------------------------------------------------------

// JobClassification is the tag carried by the job a time entry was booked
// against. It drives payroll categorization.
type JobClassification string

const (
	// JobWork is ordinary production/fabrication work
	JobWork JobClassification = "work"
	// JobAnnualLeave accrues against the annual leave balance
	JobAnnualLeave JobClassification = "annual_leave"
	// JobSickLeave accrues against the sick leave balance
	JobSickLeave JobClassification = "sick_leave"
	// JobPublicHoliday is paid but has no balance effect
	JobPublicHoliday JobClassification = "public_holiday"
	// JobPaidOther is other paid non-work time with no balance effect
	JobPaidOther JobClassification = "paid_other"
	// JobUnpaid is unpaid time; it is never posted
	JobUnpaid JobClassification = "unpaid"
)

// IsValid returns true if the classification is known
func (c JobClassification) IsValid() bool {
	switch c {
	case JobWork, JobAnnualLeave, JobSickLeave, JobPublicHoliday, JobPaidOther, JobUnpaid:
		return true
	default:
		return false
	}
}

// TimeEntry is one time-tracking record: one staff member, one calendar day,
// one job, a number of hours.
type TimeEntry struct {
	shared.BaseEntity
	StaffID uuid.UUID
	// Date is the calendar day (time component zeroed, UTC)
	Date           time.Time
	Hours          decimal.Decimal
	JobCode        string
	Classification JobClassification
}

// NewTimeEntry creates a time entry for one calendar day
func NewTimeEntry(staffID uuid.UUID, date time.Time, hours decimal.Decimal, jobCode string, classification JobClassification) (*TimeEntry, error) {
	if staffID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if !classification.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLASSIFICATION", "Unknown job classification")
	}
	if hours.IsNegative() {
		return nil, shared.NewDomainError("INVALID_HOURS", "Hours cannot be negative")
	}
	return &TimeEntry{
		BaseEntity:     shared.NewBaseEntity(),
		StaffID:        staffID,
		Date:           Day(date),
		Hours:          hours,
		JobCode:        jobCode,
		Classification: classification,
	}, nil
}

// Day truncates a timestamp to its UTC calendar day
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekEnding returns the Sunday ending the calendar week containing t
func WeekEnding(t time.Time) time.Time {
	d := Day(t)
	offset := (7 - int(d.Weekday())) % 7
	return d.AddDate(0, 0, offset)
}

// TimeEntryRepository defines the persistence port for time entries
type TimeEntryRepository interface {
	// FindForStaffWeek returns all entries for one staff member within the
	// calendar week ending on weekEnding, ordered by date.
	FindForStaffWeek(ctx context.Context, staffID uuid.UUID, weekEnding time.Time) ([]TimeEntry, error)
	Save(ctx context.Context, entry *TimeEntry) error
}
