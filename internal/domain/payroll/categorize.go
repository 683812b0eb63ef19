package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Categorization
// ---------------------------------------------------------------------------

// Category is the payroll posting bucket for a time entry
type Category string

const (
	// CategoryWork is posted through the timesheet API as ordinary work
	CategoryWork Category = "work"
	// CategoryLeaveBalanced is posted through the leave-balance API so accrual
	// balances stay correct
	CategoryLeaveBalanced Category = "leave_balanced"
	// CategoryLeaveUnbalanced is paid with no balance effect and is posted
	// through the timesheet API like ordinary work
	CategoryLeaveUnbalanced Category = "leave_unbalanced"
	// CategoryUnpaid is discarded and never posted
	CategoryUnpaid Category = "unpaid"
)

// Categorize maps a job classification to its posting bucket
func (c JobClassification) Category() Category {
	switch c {
	case JobAnnualLeave, JobSickLeave:
		return CategoryLeaveBalanced
	case JobPublicHoliday, JobPaidOther:
		return CategoryLeaveUnbalanced
	case JobUnpaid:
		return CategoryUnpaid
	default:
		return CategoryWork
	}
}

// Buckets holds one staff-week's entries split by posting bucket. The split is
// exhaustive: every input entry lands in exactly one bucket, so total hours are
// conserved.
type Buckets struct {
	Work            []TimeEntry
	LeaveBalanced   []TimeEntry
	LeaveUnbalanced []TimeEntry
	Unpaid          []TimeEntry
}

// Categorize splits entries into posting buckets
func Categorize(entries []TimeEntry) Buckets {
	var b Buckets
	for _, e := range entries {
		switch e.Classification.Category() {
		case CategoryLeaveBalanced:
			b.LeaveBalanced = append(b.LeaveBalanced, e)
		case CategoryLeaveUnbalanced:
			b.LeaveUnbalanced = append(b.LeaveUnbalanced, e)
		case CategoryUnpaid:
			b.Unpaid = append(b.Unpaid, e)
		default:
			b.Work = append(b.Work, e)
		}
	}
	return b
}

// TotalHours sums hours across all four buckets
func (b *Buckets) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, bucket := range [][]TimeEntry{b.Work, b.LeaveBalanced, b.LeaveUnbalanced, b.Unpaid} {
		for _, e := range bucket {
			total = total.Add(e.Hours)
		}
	}
	return total
}

// Conserved verifies the conservation invariant: bucketed hours equal the
// input hours exactly.
func (b *Buckets) Conserved(input []TimeEntry) bool {
	total := decimal.Zero
	for _, e := range input {
		total = total.Add(e.Hours)
	}
	return b.TotalHours().Equal(total)
}

// ---------------------------------------------------------------------------
// Leave periods
// ---------------------------------------------------------------------------

// LeavePeriod is a run of consecutive calendar days of the same leave type,
// matching the remote leave API's period-based model.
type LeavePeriod struct {
	Classification JobClassification
	StartDate      time.Time
	EndDate        time.Time
	TotalHours     decimal.Decimal
}

// MergeLeavePeriods merges balanced-leave entries into periods: entries of the
// same leave type on consecutive calendar days collapse into one period.
// Entries on the same day add their hours to the day's period. Merging is
// tracked per leave type, so a different type sharing a day cannot split
// another type's run of consecutive days.
func MergeLeavePeriods(entries []TimeEntry) []LeavePeriod {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]TimeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Classification < sorted[j].Classification
	})

	periods := make([]LeavePeriod, 0, 1)
	open := make(map[JobClassification]int)
	for _, e := range sorted {
		day := Day(e.Date)
		if idx, ok := open[e.Classification]; ok {
			p := &periods[idx]
			if day.Equal(p.EndDate) || day.Equal(p.EndDate.AddDate(0, 0, 1)) {
				p.EndDate = day
				p.TotalHours = p.TotalHours.Add(e.Hours)
				continue
			}
		}
		open[e.Classification] = len(periods)
		periods = append(periods, LeavePeriod{
			Classification: e.Classification,
			StartDate:      day,
			EndDate:        day,
			TotalHours:     e.Hours,
		})
	}
	return periods
}
