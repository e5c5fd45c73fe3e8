package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

func TestExportService_CourseEnrollments(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "edu", models.RoleEducator)
	env.addUser(t, "stu", models.RoleStudent)
	env.addUser(t, "peer", models.RoleStudent)
	course := env.addCourse(t, "edu", models.CoursePublished)
	other := env.addCourse(t, "someone", models.CoursePublished)
	env.enroll(t, "stu", course.ID, models.EnrollmentActive)
	env.enroll(t, "peer", course.ID, models.EnrollmentCompleted)
	env.enroll(t, "stu", other.ID, models.EnrollmentActive)
	svc := NewExportService(env.deps)
	ctx := context.Background()

	var perr *PermissionError
	if _, err := svc.CourseEnrollments(ctx, Actor{UserID: "stu", Role: models.RoleStudent}, course.ID); !errors.As(err, &perr) {
		t.Errorf("CourseEnrollments(student) error = %v, want PermissionError", err)
	}
	if _, err := svc.CourseEnrollments(ctx, Actor{UserID: "edu", Role: models.RoleEducator}, 999); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("CourseEnrollments(missing) error = %v, want ErrCourseNotFound", err)
	}

	file, err := svc.CourseEnrollments(ctx, Actor{UserID: "edu", Role: models.RoleEducator}, course.ID)
	if err != nil {
		t.Fatalf("CourseEnrollments() error = %v", err)
	}
	if want := fmt.Sprintf("course-%d-enrollments-2025-03-14.xlsx", course.ID); file.Filename != want {
		t.Errorf("filename = %q, want %q", file.Filename, want)
	}

	rows := readSheet(t, file.Content)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Enrollment ID" || rows[0][len(rows[0])-1] != "Completed At" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "User stu" || rows[1][3] != "stu@example.com" || rows[1][5] != "Intro to Go" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][6] != string(models.EnrollmentCompleted) {
		t.Errorf("status cell = %q, want completed", rows[2][6])
	}
}

func TestExportService_AllEnrollments(t *testing.T) {
	env := newTestEnv(t)
	a := env.addCourse(t, "edu", models.CoursePublished)
	b := env.addCourse(t, "edu", models.CoursePublished)
	env.enroll(t, "stu", a.ID, models.EnrollmentActive)
	env.enroll(t, "stu", b.ID, models.EnrollmentDropped)

	file, err := NewExportService(env.deps).AllEnrollments(context.Background())
	if err != nil {
		t.Fatalf("AllEnrollments() error = %v", err)
	}
	if !strings.HasPrefix(file.Filename, "enrollments-") {
		t.Errorf("filename = %q", file.Filename)
	}
	if rows := readSheet(t, file.Content); len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
}

func TestEnrollmentWorkbook_Empty(t *testing.T) {
	content, err := EnrollmentWorkbook(nil)
	if err != nil {
		t.Fatalf("EnrollmentWorkbook() error = %v", err)
	}
	if rows := readSheet(t, content); len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

func readSheet(t *testing.T, content []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(enrollmentSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	return rows
}
