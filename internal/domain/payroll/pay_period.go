package payroll

import (
	"errors"
	"time"
)

// ErrPayPeriodLocked indicates the target pay period has been posted and is
// immutable; posting aborts before any remote write.
var ErrPayPeriodLocked = errors.New("payroll: pay period is posted and locked")

// PayPeriodStatus is the remote pay period lock state
type PayPeriodStatus string

const (
	// PayPeriodDraft is editable
	PayPeriodDraft PayPeriodStatus = "DRAFT"
	// PayPeriodPosted is finalized and immutable
	PayPeriodPosted PayPeriodStatus = "POSTED"
)

// PayPeriod is a remote-owned payroll period. Local postings must check the
// lock state before writing anything.
type PayPeriod struct {
	RemoteID  string
	StartDate time.Time
	EndDate   time.Time
	Status    PayPeriodStatus
}

// Locked returns true once the period is posted
func (p *PayPeriod) Locked() bool {
	return p.Status == PayPeriodPosted
}

// Contains reports whether the calendar day falls inside the period
func (p *PayPeriod) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(p.StartDate)) && !d.After(Day(p.EndDate))
}
