package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Payroll poster
// ---------------------------------------------------------------------------

// PostResult summarizes one staff-week posting
type PostResult struct {
	StaffID    uuid.UUID `json:"staff_id"`
	WeekEnding time.Time `json:"week_ending"`

	WorkHours            decimal.Decimal `json:"work_hours"`
	LeaveBalancedHours   decimal.Decimal `json:"leave_balanced_hours"`
	LeaveUnbalancedHours decimal.Decimal `json:"leave_unbalanced_hours"`
	UnpaidHours          decimal.Decimal `json:"unpaid_hours"`

	// TimesheetEntries counts entries posted through the timesheet API
	TimesheetEntries int `json:"timesheet_entries"`
	// LeavePeriods counts merged periods posted through the leave API
	LeavePeriods int `json:"leave_periods"`
}

// Poster posts one staff member's week of time entries to the remote payroll
// system. Entries are split into posting buckets: ordinary work and unbalanced
// paid leave go through the timesheet API, balanced leave goes through the
// leave API as merged periods, unpaid time is discarded. Posting is
// delete-then-recreate so a re-post replaces the previous remote state instead
// of stacking on top of it.
type Poster struct {
	entries payroll.TimeEntryRepository
	gateway payroll.RemoteGateway
	audit   *appsync.AuditGateway
	logger  *zap.Logger
}

// NewPoster creates the payroll poster
func NewPoster(
	entries payroll.TimeEntryRepository,
	gateway payroll.RemoteGateway,
	audit *appsync.AuditGateway,
	logger *zap.Logger,
) *Poster {
	return &Poster{
		entries: entries,
		gateway: gateway,
		audit:   audit,
		logger:  logger.Named("payroll"),
	}
}

// PostWeek posts the calendar week ending on weekEnding (normalized to its
// Sunday) for one staff member. staffRemoteID is the staff member's identifier
// on the remote payroll system.
func (p *Poster) PostWeek(ctx context.Context, staffID uuid.UUID, staffRemoteID string, weekEnding time.Time) (*PostResult, error) {
	if staffID == uuid.Nil || staffRemoteID == "" {
		return nil, fmt.Errorf("payroll: staff identifiers are required")
	}
	weekEnding = payroll.WeekEnding(weekEnding)

	entries, err := p.entries.FindForStaffWeek(ctx, staffID, weekEnding)
	if err != nil {
		return nil, fmt.Errorf("load week entries: %w", err)
	}

	buckets := payroll.Categorize(entries)
	if !buckets.Conserved(entries) {
		return nil, fmt.Errorf("payroll: categorization lost hours for staff %s week %s",
			staffID, weekEnding.Format("2006-01-02"))
	}

	// The lock check runs before any remote write: a posted period must see
	// zero deletes and zero posts from this call.
	period, err := p.gateway.ResolvePayPeriod(ctx, weekEnding)
	if err != nil {
		return nil, fmt.Errorf("resolve pay period: %w", err)
	}
	if period.Locked() {
		p.audit.Record(ctx, sync.NewErrorRecord(
			sync.ErrorKindPayrollLocked,
			sync.EntityTypePayrollItems,
			period.RemoteID,
			"pay period is posted and locked; nothing was written",
			fmt.Sprintf("staff %s week ending %s", staffRemoteID, weekEnding.Format("2006-01-02")),
			staffID,
		))
		return nil, payroll.ErrPayPeriodLocked
	}

	// Delete-then-recreate: clear both remote posting kinds for the week, then
	// post the current local state.
	if err := p.gateway.DeleteTimesheet(ctx, staffRemoteID, weekEnding); err != nil {
		return nil, fmt.Errorf("delete timesheet: %w", err)
	}
	if err := p.gateway.DeleteLeave(ctx, staffRemoteID, weekEnding); err != nil {
		return nil, fmt.Errorf("delete leave: %w", err)
	}

	result := &PostResult{
		StaffID:              staffID,
		WeekEnding:           weekEnding,
		WorkHours:            sumHours(buckets.Work),
		LeaveBalancedHours:   sumHours(buckets.LeaveBalanced),
		LeaveUnbalancedHours: sumHours(buckets.LeaveUnbalanced),
		UnpaidHours:          sumHours(buckets.Unpaid),
	}

	timesheet := make([]payroll.TimeEntry, 0, len(buckets.Work)+len(buckets.LeaveUnbalanced))
	timesheet = append(timesheet, buckets.Work...)
	timesheet = append(timesheet, buckets.LeaveUnbalanced...)
	if len(timesheet) > 0 {
		if err := p.gateway.PostTimesheet(ctx, staffRemoteID, weekEnding, timesheet); err != nil {
			return nil, fmt.Errorf("post timesheet: %w", err)
		}
		result.TimesheetEntries = len(timesheet)
	}

	periods := payroll.MergeLeavePeriods(buckets.LeaveBalanced)
	for _, lp := range periods {
		if err := p.gateway.PostLeave(ctx, staffRemoteID, lp); err != nil {
			return nil, fmt.Errorf("post leave %s: %w", lp.Classification, err)
		}
	}
	result.LeavePeriods = len(periods)

	p.logger.Info("Week posted",
		zap.String("staff_remote_id", staffRemoteID),
		zap.Time("week_ending", weekEnding),
		zap.Int("timesheet_entries", result.TimesheetEntries),
		zap.Int("leave_periods", result.LeavePeriods),
		zap.String("unpaid_hours_discarded", result.UnpaidHours.String()),
	)
	return result, nil
}

func sumHours(entries []payroll.TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}
