package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/models"
)

const (
	defaultOutlineModules = 4
	defaultQuizQuestions  = 5
	defaultQuizDifficulty = "medium"
	quizOptionCount       = 4
	// course text sent along with a quiz prompt
	maxQuizMaterial = 6000
)

type aiContentService struct {
	deps    *Dependencies
	courses CourseService
}

func NewAIContentService(deps *Dependencies, courses CourseService) AIContentService {
	return &aiContentService{deps: deps, courses: courses}
}

func (s *aiContentService) CourseOutline(ctx context.Context, req *CourseOutlineRequest) (*ai.CourseOutline, error) {
	if s.deps.AI == nil {
		return nil, ErrAINotConfigured
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	count := req.ModuleCount
	if count == 0 {
		count = defaultOutlineModules
	}

	var outline ai.CourseOutline
	if err := s.deps.AI.ChatJSON(ctx, ai.CourseOutlinePrompt(strings.TrimSpace(req.Topic), req.Level, count), &outline); err != nil {
		return nil, err
	}
	if len(outline.Modules) == 0 {
		return nil, fmt.Errorf("%w: outline has no modules", ai.ErrAIInvalidResponse)
	}
	return &outline, nil
}

func (s *aiContentService) CourseDescription(ctx context.Context, req *CourseDescriptionRequest) (*ai.CourseDescription, error) {
	if s.deps.AI == nil {
		return nil, ErrAINotConfigured
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	var desc ai.CourseDescription
	prompt := ai.CourseDescriptionPrompt(strings.TrimSpace(req.Title), req.Category, req.Level, req.Keywords)
	if err := s.deps.AI.ChatJSON(ctx, prompt, &desc); err != nil {
		return nil, err
	}
	desc.Description = strings.TrimSpace(desc.Description)
	if desc.Description == "" {
		return nil, fmt.Errorf("%w: empty description", ai.ErrAIInvalidResponse)
	}
	return &desc, nil
}

// Quiz writes multiple-choice questions on a topic or on the content of a visible course
func (s *aiContentService) Quiz(ctx context.Context, actor Actor, req *QuizRequest) (*ai.Quiz, error) {
	if s.deps.AI == nil {
		return nil, ErrAINotConfigured
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(req.Topic)
	material := ""
	if req.CourseID != nil {
		course, err := s.courses.GetByID(ctx, *req.CourseID, &actor)
		if err != nil {
			return nil, err
		}
		if topic == "" {
			topic = course.Title
		}
		material = courseMaterial(course.Course)
	}

	count := req.QuestionCount
	if count == 0 {
		count = defaultQuizQuestions
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = defaultQuizDifficulty
	}

	var quiz ai.Quiz
	if err := s.deps.AI.ChatJSON(ctx, ai.QuizPrompt(topic, material, count, difficulty), &quiz); err != nil {
		return nil, err
	}

	valid := make([]ai.QuizQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) != quizOptionCount {
			continue
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= quizOptionCount {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no well-formed questions", ai.ErrAIInvalidResponse)
	}

	quiz.Topic = topic
	quiz.Questions = valid
	return &quiz, nil
}

// Thumbnail generates a cover image, stores it and optionally attaches it to a course
func (s *aiContentService) Thumbnail(ctx context.Context, actor Actor, req *ThumbnailRequest) (*ThumbnailResponse, error) {
	if s.deps.AI == nil {
		return nil, ErrAINotConfigured
	}
	if s.deps.Storage == nil {
		return nil, ErrStorageNotConfigured
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(req.Prompt)
	if req.CourseID != nil {
		course, err := s.deps.Repo.Course().GetByID(ctx, *req.CourseID)
		if err != nil {
			return nil, orNotFound(err, ErrCourseNotFound)
		}
		if !actor.CanManage(course.EducatorID) {
			return nil, NewPermissionError(actor.UserID, course.ID, "course", "generate a thumbnail for", "only the course educator can do this")
		}
		if prompt == "" {
			prompt = ai.ThumbnailPrompt(course.Title, course.Category, course.Description)
		}
	}

	image, err := s.deps.AI.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}

	key := "thumbnails/" + uuid.NewString() + ".png"
	url, err := s.deps.Storage.Upload(ctx, key, bytes.NewReader(image), int64(len(image)), "image/png")
	if err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	resp := &ThumbnailResponse{URL: url}
	if req.CourseID != nil {
		if _, err := s.courses.SetThumbnail(ctx, actor, *req.CourseID, url); err != nil {
			return nil, err
		}
		resp.CourseID = req.CourseID
	}
	return resp, nil
}

// courseMaterial flattens module and lesson text for a prompt
func courseMaterial(course *models.Course) string {
	var b strings.Builder
	if course.Description != "" {
		b.WriteString(course.Description)
		b.WriteString("\n")
	}
	for _, m := range course.Modules {
		fmt.Fprintf(&b, "Module: %s\n", m.Title)
		for _, l := range m.Lessons {
			fmt.Fprintf(&b, "Lesson: %s\n", l.Title)
			if l.Content != "" {
				b.WriteString(l.Content)
				b.WriteString("\n")
			}
		}
		if b.Len() >= maxQuizMaterial {
			break
		}
	}

	text := b.String()
	if r := []rune(text); len(r) > maxQuizMaterial {
		text = string(r[:maxQuizMaterial])
	}
	return strings.TrimSpace(text)
}
