package analytics

import (
	"github.com/frahmantamala/leave-management/internal/core/calendar"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/shopspring/decimal"
)

// placeholderWeekendDays is subtracted instead of the real weekend count
// when an employee has not submitted for the period.
const placeholderWeekendDays = 8

type EmployeeSummary struct {
	UserID                 string `json:"user_id"`
	EmployeeName           string `json:"employee_name"`
	EmployeeID             string `json:"employee_id"`
	Month                  int    `json:"month"`
	Year                   int    `json:"year"`
	DaysInMonth            int    `json:"days_in_month"`
	WeekendDays            int    `json:"weekend_days"`
	HasSubmission          bool   `json:"has_submission"`
	WorkingDays            int    `json:"working_days"`
	LeaveDays              int    `json:"leave_days"`
	WFHDays                int    `json:"wfh_days"`
	CalculatedTotalDaysOff int    `json:"calculated_total_days_off"`
}

type OrganizationSummary struct {
	Month               int     `json:"month"`
	Year                int     `json:"year"`
	DaysInMonth         int     `json:"days_in_month"`
	WeekendDays         int     `json:"weekend_days"`
	EmployeesSubmitted  int     `json:"employees_submitted"`
	ActiveEmployees     int64   `json:"active_employees"`
	TotalLeaveDays      int     `json:"total_leave_days"`
	TotalWFHDays        int     `json:"total_wfh_days"`
	WorkingDaysPossible int     `json:"working_days_possible"`
	WorkingDays         int     `json:"working_days"`
	SubmissionRate      float64 `json:"submission_rate"`
}

// SummarizeEmployee computes one employee's day accounting. s may be nil.
func SummarizeEmployee(year, month int, s *leaveDatamodel.Submission) EmployeeSummary {
	days := calendar.DaysInMonth(year, month)
	weekends := calendar.WeekendCount(year, month)

	summary := EmployeeSummary{
		Month:       month,
		Year:        year,
		DaysInMonth: days,
		WeekendDays: weekends,
	}

	if s == nil {
		summary.WorkingDays = days - placeholderWeekendDays
		return summary
	}

	calculated := len(s.MonthlyLeaveDates) + len(s.OptionalLeaveDates)
	leaveDays := calculated + len(s.TotalDaysOffDates)

	summary.HasSubmission = true
	summary.CalculatedTotalDaysOff = calculated
	summary.LeaveDays = leaveDays
	summary.WFHDays = len(s.WFHDates)
	summary.WorkingDays = max(0, days-weekends-leaveDays)
	return summary
}

// SummarizeOrganization aggregates every submission of a period.
func SummarizeOrganization(year, month int, submissions []*leaveDatamodel.Submission, activeEmployees int64) OrganizationSummary {
	days := calendar.DaysInMonth(year, month)
	weekends := calendar.WeekendCount(year, month)

	submitted := make(map[string]struct{})
	leaveDays, wfhDays := 0, 0
	for _, s := range submissions {
		submitted[s.UserID] = struct{}{}
		leaveDays += len(s.MonthlyLeaveDates) + len(s.OptionalLeaveDates) + len(s.TotalDaysOffDates)
		wfhDays += len(s.WFHDates)
	}

	possible := (days - weekends) * len(submitted)

	return OrganizationSummary{
		Month:               month,
		Year:                year,
		DaysInMonth:         days,
		WeekendDays:         weekends,
		EmployeesSubmitted:  len(submitted),
		ActiveEmployees:     activeEmployees,
		TotalLeaveDays:      leaveDays,
		TotalWFHDays:        wfhDays,
		WorkingDaysPossible: possible,
		WorkingDays:         max(0, possible-leaveDays),
		SubmissionRate:      SubmissionRate(len(submitted), activeEmployees),
	}
}

// SubmissionRate is the submitted share of active employees as a percentage rounded to one decimal.
func SubmissionRate(submitted int, activeEmployees int64) float64 {
	if activeEmployees <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(submitted)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(activeEmployees)).
		Round(1)
	return rate.InexactFloat64()
}
