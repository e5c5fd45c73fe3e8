package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

func TestDiscussionService_Access(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "edu", models.RoleEducator)
	env.addUser(t, "stu", models.RoleStudent)
	env.addUser(t, "gone", models.RoleStudent)
	env.addUser(t, "stranger", models.RoleStudent)
	env.addUser(t, "root", models.RoleAdmin)
	course := env.addCourse(t, "edu", models.CoursePublished)
	env.enroll(t, "stu", course.ID, models.EnrollmentActive)
	env.enroll(t, "gone", course.ID, models.EnrollmentDropped)
	svc := NewDiscussionService(env.deps)

	tests := []struct {
		name     string
		actor    Actor
		wantPerm bool
	}{
		{name: "enrolled student", actor: Actor{UserID: "stu", Role: models.RoleStudent}},
		{name: "course educator", actor: Actor{UserID: "edu", Role: models.RoleEducator}},
		{name: "admin", actor: Actor{UserID: "root", Role: models.RoleAdmin}},
		{name: "dropped student", actor: Actor{UserID: "gone", Role: models.RoleStudent}, wantPerm: true},
		{name: "stranger", actor: Actor{UserID: "stranger", Role: models.RoleStudent}, wantPerm: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Create(context.Background(), tt.actor, course.ID, &CreateDiscussionRequest{Title: " Question ", Body: "How do channels close?"})
			if tt.wantPerm {
				var perr *PermissionError
				if !errors.As(err, &perr) {
					t.Fatalf("Create() error = %v, want PermissionError", err)
				}
				if _, err := svc.ListByCourse(context.Background(), tt.actor, course.ID, models.PageParams{}); !errors.As(err, &perr) {
					t.Errorf("ListByCourse() error = %v, want PermissionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if got.Title != "Question" || got.AuthorName != "User "+tt.actor.UserID || got.ID.IsZero() {
				t.Errorf("Create() = %+v", got)
			}
		})
	}

	if _, err := svc.Create(context.Background(), Actor{UserID: "stu", Role: models.RoleStudent}, 999, &CreateDiscussionRequest{Title: "x", Body: "y"}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Create(missing course) error = %v, want ErrCourseNotFound", err)
	}
}

func TestDiscussionService_RepliesAndModeration(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "edu", models.RoleEducator)
	env.addUser(t, "stu", models.RoleStudent)
	env.addUser(t, "peer", models.RoleStudent)
	course := env.addCourse(t, "edu", models.CoursePublished)
	env.enroll(t, "stu", course.ID, models.EnrollmentActive)
	env.enroll(t, "peer", course.ID, models.EnrollmentActive)
	svc := NewDiscussionService(env.deps)
	ctx := context.Background()

	student := Actor{UserID: "stu", Role: models.RoleStudent}
	peer := Actor{UserID: "peer", Role: models.RoleStudent}
	educator := Actor{UserID: "edu", Role: models.RoleEducator}

	disc, err := svc.Create(ctx, student, course.ID, &CreateDiscussionRequest{Title: "Deadlock", Body: "My program hangs"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := disc.ID.Hex()

	got, err := svc.Reply(ctx, educator, id, &CreateReplyRequest{Body: " Close the channel "})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if len(got.Replies) != 1 || got.Replies[0].Body != "Close the channel" || got.Replies[0].AuthorID != "edu" {
		t.Errorf("Reply() replies = %+v", got.Replies)
	}
	stored, err := svc.Get(ctx, peer, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(stored.Replies) != 1 {
		t.Errorf("stored replies = %d, want 1", len(stored.Replies))
	}

	var perr *PermissionError
	if _, err := svc.SetPinned(ctx, student, id, true); !errors.As(err, &perr) {
		t.Errorf("SetPinned(student) error = %v, want PermissionError", err)
	}
	pinned, err := svc.SetPinned(ctx, educator, id, true)
	if err != nil || !pinned.IsPinned {
		t.Fatalf("SetPinned(educator) = %v, %v", pinned, err)
	}

	if err := svc.Delete(ctx, peer, id); !errors.As(err, &perr) {
		t.Errorf("Delete(peer) error = %v, want PermissionError", err)
	}
	if err := svc.Delete(ctx, student, id); err != nil {
		t.Fatalf("Delete(author) error = %v", err)
	}
	if _, err := svc.Get(ctx, student, id); !errors.Is(err, ErrDiscussionNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrDiscussionNotFound", err)
	}

	if _, err := svc.Get(ctx, student, "not-an-object-id"); !errors.Is(err, ErrDiscussionNotFound) {
		t.Errorf("Get(bad id) error = %v, want ErrDiscussionNotFound", err)
	}
	if _, err := svc.Get(ctx, student, primitive.NewObjectID().Hex()); !errors.Is(err, ErrDiscussionNotFound) {
		t.Errorf("Get(unknown id) error = %v, want ErrDiscussionNotFound", err)
	}
}

func TestDocumentServices_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Documents = nil
	ctx := context.Background()
	actor := Actor{UserID: "root", Role: models.RoleAdmin}

	checks := map[string]error{}
	_, checks["discussions"] = NewDiscussionService(env.deps).ListByCourse(ctx, actor, 1, models.PageParams{})
	checks["delete discussion"] = NewDiscussionService(env.deps).Delete(ctx, actor, primitive.NewObjectID().Hex())
	_, checks["counseling"] = NewCounselingService(env.deps).ListSessions(ctx, "root")
	_, checks["activity"] = NewAdminService(env.deps).Activity(ctx, nil)

	for name, err := range checks {
		if !errors.Is(err, ErrDocumentsNotConfigured) {
			t.Errorf("%s error = %v, want ErrDocumentsNotConfigured", name, err)
		}
	}
}
