package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/storage"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Leave Submissions"
	FileName    = "leave_submissions.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	archivePrefix = "exports/"
)

// Headers is the fixed column order of the export.
var Headers = []string{
	"Employee Name",
	"Employee ID",
	"Month",
	"Year",
	"Monthly Leave Dates",
	"Optional Leave Dates",
	"Work From Home Dates",
	"Additional Hours",
	"Pending Leaves",
	"Total Days Off",
	"Submitted At",
}

type SubmissionLister interface {
	List(ctx context.Context, filter leave.Filter) ([]*leaveDatamodel.Submission, error)
}

type Export struct {
	FileName   string
	Content    []byte
	Rows       int
	ArchiveKey string
}

type Service struct {
	submissions SubmissionLister
	archive     storage.ObjectStorage
	logger      *slog.Logger
	now         func() time.Time
}

// NewService builds the exporter. archive may be nil to skip archiving.
func NewService(submissions SubmissionLister, archive storage.ObjectStorage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		submissions: submissions,
		archive:     archive,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Export(ctx context.Context, filter leave.Filter) (*Export, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load leave submissions", err)
	}
	if len(rows) == 0 {
		return nil, errors.ErrNoSubmissionsToExport
	}

	content, err := Render(rows)
	if err != nil {
		return nil, errors.NewInternalError("Failed to render spreadsheet", err)
	}

	export := &Export{
		FileName: FileName,
		Content:  content,
		Rows:     len(rows),
	}

	if s.archive != nil {
		key := archiveKey(s.now(), filter)
		if err := s.archive.Put(ctx, key, bytes.NewReader(content), int64(len(content)), ContentType); err != nil {
			s.logger.Warn("failed to archive export", "error", err, "key", key)
		} else {
			export.ArchiveKey = key
			s.logger.Info("export archived", "bucket", s.archive.Bucket(), "key", key)
		}
	}

	return export, nil
}

// Render writes the submissions into a single-sheet workbook.
func Render(rows []*leaveDatamodel.Submission) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 22); err != nil {
		return nil, err
	}

	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		record := []interface{}{
			s.EmployeeName,
			s.EmployeeID,
			s.Month,
			s.Year,
			strings.Join(s.MonthlyLeaveDates, ", "),
			strings.Join(s.OptionalLeaveDates, ", "),
			strings.Join(s.WFHDates, ", "),
			s.AdditionalHours,
			s.PendingLeaves,
			strings.Join(s.TotalDaysOffDates, ", "),
			s.SubmittedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, cell, &record); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func archiveKey(now time.Time, filter leave.Filter) string {
	period := "all"
	switch {
	case filter.Month != nil && filter.Year != nil:
		period = fmt.Sprintf("%d-%02d", *filter.Year, *filter.Month)
	case filter.Year != nil:
		period = fmt.Sprintf("%d", *filter.Year)
	case filter.Month != nil:
		period = fmt.Sprintf("month-%02d", *filter.Month)
	}
	return fmt.Sprintf("%sleave_submissions_%s_%s.xlsx", archivePrefix, period, now.Format("20060102T150405Z"))
}
