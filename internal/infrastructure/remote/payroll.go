package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fabworks/backend/internal/domain/payroll"
)

var _ payroll.RemoteGateway = (*Client)(nil)

// dateOnly is the calendar-day format used by the remote payroll endpoints
const dateOnly = "2006-01-02"

// payPeriodResponse is the remote pay period envelope
type payPeriodResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// ResolvePayPeriod returns the pay period covering the given calendar day
func (c *Client) ResolvePayPeriod(ctx context.Context, day time.Time) (*payroll.PayPeriod, error) {
	query := url.Values{}
	query.Set("date", payroll.Day(day).Format(dateOnly))

	body, err := c.doRequest(ctx, http.MethodGet, "payroll/pay-periods?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp payPeriodResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayPeriod, err)
	}
	start, err := time.Parse(dateOnly, resp.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start date %q", errInvalidPayPeriod, resp.StartDate)
	}
	end, err := time.Parse(dateOnly, resp.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end date %q", errInvalidPayPeriod, resp.EndDate)
	}

	return &payroll.PayPeriod{
		RemoteID:  resp.ID,
		StartDate: start,
		EndDate:   end,
		Status:    payroll.PayPeriodStatus(resp.Status),
	}, nil
}

var errInvalidPayPeriod = errors.New("remote: invalid pay period response")

// timesheetEntry is one remote timesheet line
type timesheetEntry struct {
	Date    string `json:"date"`
	Hours   string `json:"hours"`
	JobCode string `json:"job_code"`
}

// PostTimesheet writes work-style entries for one staff-week
func (c *Client) PostTimesheet(ctx context.Context, staffRemoteID string, weekEnding time.Time, entries []payroll.TimeEntry) error {
	lines := make([]timesheetEntry, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, timesheetEntry{
			Date:    e.Date.Format(dateOnly),
			Hours:   e.Hours.String(),
			JobCode: e.JobCode,
		})
	}

	payload := map[string]any{"entries": lines}
	_, err := c.doRequest(ctx, http.MethodPut, timesheetPath(staffRemoteID, weekEnding), payload)
	return err
}

// PostLeave writes one merged leave period for a staff member
func (c *Client) PostLeave(ctx context.Context, staffRemoteID string, period payroll.LeavePeriod) error {
	payload := map[string]any{
		"type":        string(period.Classification),
		"start_date":  period.StartDate.Format(dateOnly),
		"end_date":    period.EndDate.Format(dateOnly),
		"total_hours": period.TotalHours.String(),
	}
	_, err := c.doRequest(ctx, http.MethodPost, "payroll/leave/"+url.PathEscape(staffRemoteID), payload)
	return err
}

// DeleteTimesheet removes previously posted timesheet entries for a staff-week.
// A week with nothing posted is not an error.
func (c *Client) DeleteTimesheet(ctx context.Context, staffRemoteID string, weekEnding time.Time) error {
	_, err := c.doRequest(ctx, http.MethodDelete, timesheetPath(staffRemoteID, weekEnding), nil)
	if errors.Is(err, errRemoteNotFound) {
		return nil
	}
	return err
}

// DeleteLeave removes previously posted leave periods overlapping a staff-week.
// A week with nothing posted is not an error.
func (c *Client) DeleteLeave(ctx context.Context, staffRemoteID string, weekEnding time.Time) error {
	query := url.Values{}
	query.Set("week_ending", payroll.Day(weekEnding).Format(dateOnly))

	_, err := c.doRequest(ctx, http.MethodDelete, "payroll/leave/"+url.PathEscape(staffRemoteID)+"?"+query.Encode(), nil)
	if errors.Is(err, errRemoteNotFound) {
		return nil
	}
	return err
}

// timesheetPath addresses one staff-week's timesheet
func timesheetPath(staffRemoteID string, weekEnding time.Time) string {
	return "payroll/timesheets/" + url.PathEscape(staffRemoteID) + "/" + payroll.Day(weekEnding).Format(dateOnly)
}
