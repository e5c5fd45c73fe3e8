package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

type discussionService struct {
	deps *Dependencies
}

func NewDiscussionService(deps *Dependencies) DiscussionService {
	return &discussionService{deps: deps}
}

func (s *discussionService) ListByCourse(ctx context.Context, actor Actor, courseID uint, params models.PageParams) (*models.PaginatedResponse, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	if _, err := s.access(ctx, actor, courseID, "read discussions of"); err != nil {
		return nil, err
	}

	page := params.Normalize()
	discussions, total, err := s.deps.Documents.Discussion().ListByCourse(ctx, courseID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list discussions: %w", err)
	}
	return models.NewPaginatedResponse(discussions, len(discussions), total, page), nil
}

func (s *discussionService) Create(ctx context.Context, actor Actor, courseID uint, req *CreateDiscussionRequest) (*models.Discussion, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}
	if _, err := s.access(ctx, actor, courseID, "start a discussion in"); err != nil {
		return nil, err
	}

	name, err := s.authorName(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	now := s.deps.now()
	discussion := &models.Discussion{
		CourseID:   courseID,
		AuthorID:   actor.UserID,
		AuthorName: name,
		Title:      strings.TrimSpace(req.Title),
		Body:       strings.TrimSpace(req.Body),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.deps.Documents.Discussion().Create(ctx, discussion); err != nil {
		return nil, fmt.Errorf("failed to create discussion: %w", err)
	}
	return discussion, nil
}

func (s *discussionService) Get(ctx context.Context, actor Actor, id string) (*models.Discussion, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	discussion, err := s.deps.Documents.Discussion().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrDiscussionNotFound)
	}
	if _, err := s.access(ctx, actor, discussion.CourseID, "read discussions of"); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (s *discussionService) Reply(ctx context.Context, actor Actor, id string, req *CreateReplyRequest) (*models.Discussion, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	discussion, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	name, err := s.authorName(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	reply := models.DiscussionReply{
		ID:         primitive.NewObjectID(),
		AuthorID:   actor.UserID,
		AuthorName: name,
		Body:       strings.TrimSpace(req.Body),
		CreatedAt:  s.deps.now(),
	}
	if err := s.deps.Documents.Discussion().AddReply(ctx, id, reply); err != nil {
		return nil, orNotFound(err, ErrDiscussionNotFound)
	}

	discussion.Replies = append(discussion.Replies, reply)
	discussion.UpdatedAt = reply.CreatedAt
	return discussion, nil
}

// Delete is allowed to the author, the course educator and admins
func (s *discussionService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.deps.requireDocuments(); err != nil {
		return err
	}
	discussion, err := s.deps.Documents.Discussion().GetByID(ctx, id)
	if err != nil {
		return orNotFound(err, ErrDiscussionNotFound)
	}

	if discussion.AuthorID != actor.UserID {
		if _, err := s.moderated(ctx, actor, discussion, "delete"); err != nil {
			return err
		}
	}

	if err := s.deps.Documents.Discussion().Delete(ctx, id); err != nil {
		return orNotFound(err, ErrDiscussionNotFound)
	}
	return nil
}

func (s *discussionService) SetPinned(ctx context.Context, actor Actor, id string, pinned bool) (*models.Discussion, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	discussion, err := s.deps.Documents.Discussion().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrDiscussionNotFound)
	}
	if _, err := s.moderated(ctx, actor, discussion, "pin"); err != nil {
		return nil, err
	}

	if err := s.deps.Documents.Discussion().SetPinned(ctx, id, pinned); err != nil {
		return nil, orNotFound(err, ErrDiscussionNotFound)
	}
	discussion.IsPinned = pinned
	return discussion, nil
}

// access admits admins, the course educator and students with a live enrollment
func (s *discussionService) access(ctx context.Context, actor Actor, courseID uint, action string) (*models.Course, error) {
	course, err := s.deps.Repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}
	if actor.CanManage(course.EducatorID) {
		return course, nil
	}

	enrollment, err := s.deps.Repo.Enrollment().GetByUserAndCourse(ctx, actor.UserID, courseID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrollment == nil || enrollment.Status == models.EnrollmentDropped {
		return nil, NewPermissionError(actor.UserID, courseID, "course", action, "only enrolled students and the course educator take part in discussions")
	}
	return course, nil
}

// moderated checks the actor is the course educator or an admin
func (s *discussionService) moderated(ctx context.Context, actor Actor, discussion *models.Discussion, action string) (*models.Course, error) {
	course, err := s.deps.Repo.Course().GetByID(ctx, discussion.CourseID)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}
	if !actor.CanManage(course.EducatorID) {
		return nil, NewPermissionError(actor.UserID, discussion.ID.Hex(), "discussion", action, "only the course educator can moderate discussions")
	}
	return course, nil
}

func (s *discussionService) authorName(ctx context.Context, userID string) (string, error) {
	user, err := s.deps.Repo.User().GetByID(ctx, userID)
	if err != nil {
		return "", orNotFound(err, ErrUserNotFound)
	}
	return user.Name, nil
}
