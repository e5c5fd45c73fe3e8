package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	tests := []struct {
		name     string
		status   models.CourseStatus
		existing models.EnrollmentStatus
		wantErr  error
		wantRule string
	}{
		{name: "new enrollment", status: models.CoursePublished},
		{name: "draft course", status: models.CourseDraft, wantRule: "course_not_published"},
		{name: "archived course", status: models.CourseArchived, wantRule: "course_not_published"},
		{name: "already active", status: models.CoursePublished, existing: models.EnrollmentActive, wantErr: ErrAlreadyEnrolled},
		{name: "already completed", status: models.CoursePublished, existing: models.EnrollmentCompleted, wantErr: ErrAlreadyEnrolled},
		{name: "reactivate dropped", status: models.CoursePublished, existing: models.EnrollmentDropped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			course := env.addCourse(t, "edu", tt.status)
			if tt.existing != "" {
				env.enroll(t, "stu", course.ID, tt.existing)
			}
			svc := NewEnrollmentService(env.deps)

			got, err := svc.Enroll(context.Background(), "stu", course.ID)
			if tt.wantRule != "" {
				var rerr *BusinessRuleError
				if !errors.As(err, &rerr) || rerr.Rule != tt.wantRule {
					t.Fatalf("Enroll() error = %v, want rule %s", err, tt.wantRule)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Enroll() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if got.Status != models.EnrollmentActive || !got.EnrolledAt.Equal(testNow) {
				t.Errorf("Enroll() = status %s enrolled_at %v", got.Status, got.EnrolledAt)
			}
			if c := env.course(t, course.ID); c.EnrollmentCount != 1 {
				t.Errorf("enrollment_count = %d, want 1", c.EnrollmentCount)
			}
			if !hasEvent(env.publisher.EventTypes(), events.EnrollmentCreated) {
				t.Errorf("events = %v, want enrollment.created", env.publisher.EventTypes())
			}
			if len(env.store.enrollments) != 1 {
				t.Errorf("stored enrollments = %d, want 1", len(env.store.enrollments))
			}
		})
	}

	t.Run("missing course", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := NewEnrollmentService(env.deps).Enroll(context.Background(), "stu", 42); !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Enroll() error = %v, want ErrCourseNotFound", err)
		}
	})
}

func TestEnrollmentService_DropAndReenroll(t *testing.T) {
	env := newTestEnv(t)
	course := env.addCourse(t, "edu", models.CoursePublished)
	svc := NewEnrollmentService(env.deps)
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, "stu", course.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if _, err := svc.UpdateProgress(ctx, "stu", course.ID, &ProgressRequest{LessonID: "l1", Completed: boolPtr(true)}); err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}

	dropped, err := svc.Drop(ctx, "stu", course.ID)
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if dropped.Status != models.EnrollmentDropped {
		t.Errorf("status = %s, want dropped", dropped.Status)
	}
	if c := env.course(t, course.ID); c.EnrollmentCount != 0 {
		t.Errorf("enrollment_count after drop = %d, want 0", c.EnrollmentCount)
	}

	// dropping twice is a no-op
	if _, err := svc.Drop(ctx, "stu", course.ID); err != nil {
		t.Fatalf("Drop(again) error = %v", err)
	}
	if c := env.course(t, course.ID); c.EnrollmentCount != 0 {
		t.Errorf("enrollment_count after second drop = %d, want 0", c.EnrollmentCount)
	}

	_, err = svc.UpdateProgress(ctx, "stu", course.ID, &ProgressRequest{LessonID: "l2", Completed: boolPtr(true)})
	var rerr *BusinessRuleError
	if !errors.As(err, &rerr) || rerr.Rule != "enrollment_dropped" {
		t.Errorf("UpdateProgress(dropped) error = %v, want enrollment_dropped", err)
	}

	again, err := svc.Enroll(ctx, "stu", course.ID)
	if err != nil {
		t.Fatalf("Enroll(again) error = %v", err)
	}
	if again.Progress != 50 || len(again.CompletedLessons) != 1 {
		t.Errorf("progress = %d lessons = %v, want progress kept", again.Progress, again.CompletedLessons)
	}
	if c := env.course(t, course.ID); c.EnrollmentCount != 1 {
		t.Errorf("enrollment_count after re-enroll = %d, want 1", c.EnrollmentCount)
	}

	if _, err := svc.Drop(ctx, "nobody", course.ID); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("Drop(not enrolled) error = %v, want ErrEnrollmentNotFound", err)
	}
}

func TestEnrollmentService_UpdateProgress(t *testing.T) {
	env := newTestEnv(t)
	course := env.addCourse(t, "edu", models.CoursePublished)
	env.enroll(t, "stu", course.ID, models.EnrollmentActive)
	svc := NewEnrollmentService(env.deps)
	ctx := context.Background()

	steps := []struct {
		lesson       string
		completed    bool
		wantProgress int
		wantStatus   models.EnrollmentStatus
	}{
		{"l1", true, 50, models.EnrollmentActive},
		{"l1", true, 50, models.EnrollmentActive},
		{"l2", true, 100, models.EnrollmentCompleted},
		{"l2", false, 50, models.EnrollmentActive},
		{"l2", true, 100, models.EnrollmentCompleted},
	}
	for i, step := range steps {
		got, err := svc.UpdateProgress(ctx, "stu", course.ID, &ProgressRequest{LessonID: step.lesson, Completed: boolPtr(step.completed)})
		if err != nil {
			t.Fatalf("step %d: UpdateProgress() error = %v", i, err)
		}
		if got.Progress != step.wantProgress || got.Status != step.wantStatus {
			t.Errorf("step %d: progress=%d status=%s, want %d %s", i, got.Progress, got.Status, step.wantProgress, step.wantStatus)
		}
	}

	completed := 0
	for _, typ := range env.publisher.EventTypes() {
		if typ == events.EnrollmentCompleted {
			completed++
		}
	}
	if completed != 2 {
		t.Errorf("enrollment.completed events = %d, want 2", completed)
	}

	if _, err := svc.UpdateProgress(ctx, "stu", course.ID, &ProgressRequest{LessonID: "nope", Completed: boolPtr(true)}); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("UpdateProgress(unknown lesson) error = %v, want ErrLessonNotFound", err)
	}
	if _, err := svc.UpdateProgress(ctx, "other", course.ID, &ProgressRequest{LessonID: "l1", Completed: boolPtr(true)}); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("UpdateProgress(not enrolled) error = %v, want ErrEnrollmentNotFound", err)
	}
}

func TestEnrollmentService_ListMine(t *testing.T) {
	env := newTestEnv(t)
	a := env.addCourse(t, "edu", models.CoursePublished)
	b := env.addCourse(t, "edu", models.CoursePublished)
	env.enroll(t, "stu", a.ID, models.EnrollmentActive)
	env.enroll(t, "stu", b.ID, models.EnrollmentCompleted)
	env.enroll(t, "other", a.ID, models.EnrollmentActive)
	svc := NewEnrollmentService(env.deps)

	resp, err := svc.ListMine(context.Background(), "stu", &EnrollmentListParams{Status: models.EnrollmentCompleted})
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	got := resp.Content.([]*models.Enrollment)
	if len(got) != 1 || got[0].CourseID != b.ID {
		t.Errorf("ListMine(completed) = %+v, want course %d only", got, b.ID)
	}
	if resp.TotalElements != 1 {
		t.Errorf("total = %d, want 1", resp.TotalElements)
	}
}
