package timesheet

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	minWeekdayHours = 8.0
	maxWeekdayHours = 10.0
	maxWeekendHours = 10.0
	maxWeeklyHours  = 56.0
	maxEntryHours   = 24.0
)

// Rules carries the deployment-specific validation knobs. All methods
// are pure so results can be recomputed on every request and on retry.
type Rules struct {
	HourStep         float64 // allowed hours increment, 0.25 or 0.5
	BillableTraining bool    // deployments may bill training time
}

func DefaultRules() Rules {
	return Rules{HourStep: 0.25}
}

type ValidationResult struct {
	BlockingErrors []string                  `json:"blocking_errors"`
	Warnings       []string                  `json:"warnings"`
	FieldErrors    map[int]map[string]string `json:"field_errors,omitempty"`
}

// Valid reports whether submission may proceed. Warnings never block.
func (r ValidationResult) Valid() bool {
	return len(r.BlockingErrors) == 0 && len(r.FieldErrors) == 0
}

// WeekDates returns the seven days of the week starting at weekStart.
func WeekDates(weekStart time.Time) []time.Time {
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = weekStart.AddDate(0, 0, i)
	}
	return dates
}

// ValidateWeek checks a full week of entries against the business
// rules. Daily and weekly hour bounds and missing tasks are blocking;
// empty weekdays and heavy weekends are advisory only.
func (r Rules) ValidateWeek(entries []TimeEntry, weekStart time.Time) ValidationResult {
	result := ValidationResult{
		BlockingErrors: []string{},
		Warnings:       []string{},
		FieldErrors:    map[int]map[string]string{},
	}

	weekEnd := weekStart.AddDate(0, 0, 6)
	dailyTotals := make(map[string]float64, 7)
	var weeklyTotal float64

	for i, e := range entries {
		fields := map[string]string{}

		if e.EntryDate.Before(weekStart) || e.EntryDate.After(weekEnd) {
			fields["entry_date"] = "date falls outside the timesheet week"
		}
		if e.Hours <= 0 || e.Hours > maxEntryHours {
			fields["hours"] = "hours must be greater than 0 and at most 24"
		} else if !r.validStep(e.Hours) {
			fields["hours"] = fmt.Sprintf("hours must be a multiple of %s", fmtHours(r.HourStep))
		}

		if e.EntryCategory == CategoryProject {
			if e.ProjectID == nil {
				fields["project_id"] = "project is required for project entries"
			}
			hasTask := e.TaskID != nil
			hasCustom := e.CustomTaskDescription != nil && *e.CustomTaskDescription != ""
			switch {
			case !hasTask && !hasCustom:
				fields["task"] = "a task or a custom task description is required"
			case hasTask && hasCustom:
				fields["task"] = "set either a task or a custom task description, not both"
			}
		}

		if len(fields) > 0 {
			result.FieldErrors[i] = fields
		}

		dailyTotals[e.EntryDate.Format("2006-01-02")] += e.Hours
		weeklyTotal += e.Hours
	}

	for _, d := range WeekDates(weekStart) {
		key := d.Format("2006-01-02")
		total := dailyTotals[key]

		if isWeekend(d) {
			if total > maxWeekendHours {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"%s hours on %s (%s) exceed %s",
					fmtHours(total), d.Weekday(), key, fmtHours(maxWeekendHours),
				))
			}
			continue
		}

		if total == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"no hours recorded for %s (%s)", d.Weekday(), key,
			))
			continue
		}
		if total < minWeekdayHours || total > maxWeekdayHours {
			result.BlockingErrors = append(result.BlockingErrors, fmt.Sprintf(
				"hours for %s (%s) must total between %s and %s, got %s",
				d.Weekday(), key,
				fmtHours(minWeekdayHours), fmtHours(maxWeekdayHours), fmtHours(total),
			))
		}
	}

	if weeklyTotal > maxWeeklyHours {
		result.BlockingErrors = append(result.BlockingErrors, fmt.Sprintf(
			"weekly total must not exceed %s hours, got %s",
			fmtHours(maxWeeklyHours), fmtHours(weeklyTotal),
		))
	}

	if len(result.FieldErrors) == 0 {
		result.FieldErrors = nil
	}
	return result
}

// NormalizeEntries returns a copy with billability coerced to the
// category contract: weekend work and LEAVE/MISCELLANEOUS entries are
// never billable, TRAINING only when the deployment allows it.
func (r Rules) NormalizeEntries(entries []TimeEntry) []TimeEntry {
	out := make([]TimeEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if isWeekend(out[i].EntryDate) {
			out[i].IsBillable = false
			continue
		}
		switch out[i].EntryCategory {
		case CategoryLeave, CategoryMiscellaneous:
			out[i].IsBillable = false
		case CategoryTraining:
			if !r.BillableTraining {
				out[i].IsBillable = false
			}
		}
	}
	return out
}

func (r Rules) validStep(hours float64) bool {
	step := r.HourStep
	if step <= 0 {
		step = 0.25
	}
	mult := hours / step
	return math.Abs(mult-math.Round(mult)) < 1e-9
}

func fmtHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
