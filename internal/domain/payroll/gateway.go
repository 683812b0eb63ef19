package payroll

import (
	"context"
	"time"
)

// RemoteGateway is the port to the remote payroll subsystem. Timesheet and
// leave postings for one staff-week are addressed by the staff member's remote
// id and the week-ending date, so a re-post can replace what a prior post
// wrote.
type RemoteGateway interface {
	// ResolvePayPeriod returns the pay period covering the given calendar day.
	ResolvePayPeriod(ctx context.Context, day time.Time) (*PayPeriod, error)

	// PostTimesheet writes work-style entries for one staff-week.
	PostTimesheet(ctx context.Context, staffRemoteID string, weekEnding time.Time, entries []TimeEntry) error

	// PostLeave writes one merged leave period for a staff member.
	PostLeave(ctx context.Context, staffRemoteID string, period LeavePeriod) error

	// DeleteTimesheet removes any previously posted timesheet entries for the
	// staff-week. Deleting a week with no postings is not an error.
	DeleteTimesheet(ctx context.Context, staffRemoteID string, weekEnding time.Time) error

	// DeleteLeave removes any previously posted leave periods overlapping the
	// staff-week. Deleting a week with no postings is not an error.
	DeleteLeave(ctx context.Context, staffRemoteID string, weekEnding time.Time) error
}
