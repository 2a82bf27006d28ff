package leave

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

type SubmitLeaveDTO struct {
	Month              int      `json:"month"`
	Year               int      `json:"year"`
	MonthlyLeaveDates  []string `json:"monthly_leave_dates"`
	OptionalLeaveDates []string `json:"optional_leave_dates"`
	WFHDates           []string `json:"wfh_dates"`
	AdditionalHours    string   `json:"additional_hours"`
	PendingLeaves      int      `json:"pending_leaves"`
	TotalDaysOffDates  []string `json:"total_days_off_dates"`
}

// Filter narrows listings to a month and/or year. Nil fields match everything.
type Filter struct {
	Month *int
	Year  *int
}

type SubmitResult struct {
	Message    string      `json:"message"`
	Created    bool        `json:"created"`
	Submission *Submission `json:"submission"`
}

type SubmissionsResponse struct {
	Submissions []*Submission `json:"submissions"`
	Total       int           `json:"total"`
}

type PeriodDeleteResult struct {
	Message string `json:"message"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Deleted int64  `json:"deleted"`
}

type Stats struct {
	UserID                  string `json:"user_id"`
	Year                    int    `json:"year"`
	TotalOptionalLeavesUsed int    `json:"total_optional_leaves_used"`
	RemainingOptionalLeaves int    `json:"remaining_optional_leaves"`
	SubmissionsCount        int    `json:"submissions_count"`
}

func (d *SubmitLeaveDTO) Normalize() {
	d.MonthlyLeaveDates = trimDates(d.MonthlyLeaveDates)
	d.OptionalLeaveDates = trimDates(d.OptionalLeaveDates)
	d.WFHDates = trimDates(d.WFHDates)
	d.TotalDaysOffDates = trimDates(d.TotalDaysOffDates)
	d.AdditionalHours = strings.TrimSpace(d.AdditionalHours)
}

func (d SubmitLeaveDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("month", d.Month).
		MinInt(1, errors.ErrCodeInvalidMonth).
		MaxInt(12, errors.ErrCodeInvalidMonth)
	validator.Field("year", d.Year).
		MinInt(1, errors.ErrCodeInvalidYear)
	validator.Field("monthly_leave_dates", d.MonthlyLeaveDates).Dates()
	validator.Field("optional_leave_dates", d.OptionalLeaveDates).
		Dates().
		Custom(func(value interface{}) *errors.AppError {
			if dates, ok := value.([]string); ok && len(dates) > OptionalLeaveCap {
				return errors.NewValidationFieldError("optional_leave_dates",
					fmt.Sprintf("at most %d optional leave dates are allowed per year", OptionalLeaveCap),
					errors.ErrCodeOptionalLeaveCap)
			}
			return nil
		})
	validator.Field("wfh_dates", d.WFHDates).Dates()
	validator.Field("total_days_off_dates", d.TotalDaysOffDates).Dates()
	validator.Field("additional_hours", d.AdditionalHours).MaxLength(1000)
	validator.Field("pending_leaves", d.PendingLeaves).MinInt(0, errors.ErrCodeValidationFailed)
	return validator.Validate()
}

func (f Filter) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if f.Month != nil {
		validator.Field("month", *f.Month).
			MinInt(1, errors.ErrCodeInvalidMonth).
			MaxInt(12, errors.ErrCodeInvalidMonth)
	}
	if f.Year != nil {
		validator.Field("year", *f.Year).MinInt(1, errors.ErrCodeInvalidYear)
	}
	return validator.Validate()
}

func trimDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, strings.TrimSpace(d))
	}
	return out
}
