package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one employee's leave declaration for a (month, year) period.
// The (user_id, month, year) triple is unique.
type Submission struct {
	ID                     string    `gorm:"primaryKey;type:varchar(36)"`
	UserID                 string    `gorm:"column:user_id;not null;uniqueIndex:idx_leave_submissions_period,priority:1"`
	EmployeeName           string    `gorm:"column:employee_name;not null"`
	EmployeeID             string    `gorm:"column:employee_id;not null;index"`
	Month                  int       `gorm:"column:month;not null;uniqueIndex:idx_leave_submissions_period,priority:2"`
	Year                   int       `gorm:"column:year;not null;uniqueIndex:idx_leave_submissions_period,priority:3"`
	MonthlyLeaveDates      []string  `gorm:"column:monthly_leave_dates;serializer:json"`
	OptionalLeaveDates     []string  `gorm:"column:optional_leave_dates;serializer:json"`
	WFHDates               []string  `gorm:"column:wfh_dates;serializer:json"`
	AdditionalHours        string    `gorm:"column:additional_hours"`
	PendingLeaves          int       `gorm:"column:pending_leaves;not null;default:0"`
	TotalDaysOffDates      []string  `gorm:"column:total_days_off_dates;serializer:json"`
	CalculatedTotalDaysOff int       `gorm:"column:calculated_total_days_off;not null;default:0"`
	SubmittedAt            time.Time `gorm:"column:submitted_at;not null"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Submission) TableName() string {
	return "leave_submissions"
}

func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
