package leave

import (
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// OptionalLeaveCap is the yearly policy limit on optional leave dates.
const OptionalLeaveCap = 6

const (
	MessageCreated = "Leave submission created successfully"
	MessageUpdated = "Leave submission updated successfully"
)

type Submission struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"user_id"`
	EmployeeName           string    `json:"employee_name"`
	EmployeeID             string    `json:"employee_id"`
	Month                  int       `json:"month"`
	Year                   int       `json:"year"`
	MonthlyLeaveDates      []string  `json:"monthly_leave_dates"`
	OptionalLeaveDates     []string  `json:"optional_leave_dates"`
	WFHDates               []string  `json:"wfh_dates"`
	AdditionalHours        string    `json:"additional_hours"`
	PendingLeaves          int       `json:"pending_leaves"`
	TotalDaysOffDates      []string  `json:"total_days_off_dates"`
	CalculatedTotalDaysOff int       `json:"calculated_total_days_off"`
	SubmittedAt            time.Time `json:"submitted_at"`
}

// CalculateTotalDaysOff counts monthly plus optional leave dates.
// total_days_off_dates is tracked separately and never feeds this value.
func CalculateTotalDaysOff(monthly, optional []string) int {
	return len(monthly) + len(optional)
}

func FromDataModel(s *leaveDatamodel.Submission) *Submission {
	if s == nil {
		return nil
	}
	return &Submission{
		ID:                     s.ID,
		UserID:                 s.UserID,
		EmployeeName:           s.EmployeeName,
		EmployeeID:             s.EmployeeID,
		Month:                  s.Month,
		Year:                   s.Year,
		MonthlyLeaveDates:      nonNil(s.MonthlyLeaveDates),
		OptionalLeaveDates:     nonNil(s.OptionalLeaveDates),
		WFHDates:               nonNil(s.WFHDates),
		AdditionalHours:        s.AdditionalHours,
		PendingLeaves:          s.PendingLeaves,
		TotalDaysOffDates:      nonNil(s.TotalDaysOffDates),
		CalculatedTotalDaysOff: s.CalculatedTotalDaysOff,
		SubmittedAt:            s.SubmittedAt,
	}
}

func FromDataModels(rows []*leaveDatamodel.Submission) []*Submission {
	out := make([]*Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
