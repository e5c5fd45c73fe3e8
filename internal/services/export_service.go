package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

const enrollmentSheet = "Enrollments"

var enrollmentHeader = []interface{}{
	"Enrollment ID", "Student ID", "Student", "Email", "Course ID", "Course",
	"Status", "Progress (%)", "Completed Lessons", "Enrolled At", "Completed At",
}

type exportService struct {
	deps *Dependencies
}

func NewExportService(deps *Dependencies) ExportService {
	return &exportService{deps: deps}
}

// CourseEnrollments exports the students of one course for its educator or an admin
func (s *exportService) CourseEnrollments(ctx context.Context, actor Actor, courseID uint) (*ExportFile, error) {
	course, err := s.deps.Repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}
	if !actor.CanManage(course.EducatorID) {
		return nil, NewPermissionError(actor.UserID, courseID, "course", "export", "only the course educator can export its students")
	}

	rows, err := s.deps.Repo.Enrollment().ExportRows(ctx, &courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	content, err := EnrollmentWorkbook(rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename: fmt.Sprintf("course-%d-enrollments-%s.xlsx", courseID, s.deps.now().Format(models.DateLayout)),
		Content:  content,
	}, nil
}

func (s *exportService) AllEnrollments(ctx context.Context) (*ExportFile, error) {
	rows, err := s.deps.Repo.Enrollment().ExportRows(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	content, err := EnrollmentWorkbook(rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename: fmt.Sprintf("enrollments-%s.xlsx", s.deps.now().Format(models.DateLayout)),
		Content:  content,
	}, nil
}

// EnrollmentWorkbook renders export rows as a single-sheet xlsx document
func EnrollmentWorkbook(rows []models.EnrollmentExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", enrollmentSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(enrollmentSheet, "A1", &enrollmentHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(enrollmentHeader))
	if err := f.SetCellStyle(enrollmentSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(enrollmentSheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.EnrollmentID, r.StudentID, r.StudentName, r.StudentEmail, r.CourseID, r.CourseTitle,
			string(r.Status), r.Progress, r.CompletedCount, formatTime(&r.EnrolledAt), formatTime(r.CompletedAt),
		}
		if err := f.SetSheetRow(enrollmentSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
