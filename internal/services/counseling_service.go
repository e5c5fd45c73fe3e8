package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

const (
	counselingMoodWindow    = 7
	counselingHistoryWindow = 20
	counselingSessionLimit  = 50
)

type counselingService struct {
	deps *Dependencies
}

func NewCounselingService(deps *Dependencies) CounselingService {
	return &counselingService{deps: deps}
}

func (s *counselingService) CreateSession(ctx context.Context, userID string, req *CounselingSessionRequest) (*models.CounselingSession, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	if req == nil {
		req = &CounselingSessionRequest{}
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	now := s.deps.now()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Session " + now.Format(models.DateLayout)
	}

	session := &models.CounselingSession{
		UserID:    userID,
		Title:     title,
		Messages:  []models.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Documents.Counseling().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create counseling session: %w", err)
	}
	return session, nil
}

func (s *counselingService) ListSessions(ctx context.Context, userID string) ([]*models.CounselingSession, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	sessions, err := s.deps.Documents.Counseling().ListByUser(ctx, userID, counselingSessionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list counseling sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*models.CounselingSession{}
	}
	return sessions, nil
}

// GetSession hides sessions of other users behind not found
func (s *counselingService) GetSession(ctx context.Context, userID, id string) (*models.CounselingSession, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	session, err := s.deps.Documents.Counseling().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrSessionNotFound)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SendMessage persists the student's message and the counselor reply together,
// so a failed model call leaves the transcript unchanged
func (s *counselingService) SendMessage(ctx context.Context, userID, id string, req *CounselingMessageRequest) (*CounselingReply, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	if s.deps.AI == nil {
		return nil, ErrAINotConfigured
	}
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	session, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	moods, err := s.deps.Repo.Mood().ListByUser(ctx, userID, repositories.MoodFilters{Limit: counselingMoodWindow})
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	message := models.ChatMessage{
		Role:      models.ChatRoleUser,
		Content:   strings.TrimSpace(req.Message),
		CreatedAt: s.deps.now(),
	}
	history := recentMessages(session.Messages, counselingHistoryWindow-1)
	history = append(history, message)

	answer, err := s.deps.AI.Chat(ctx, ai.CounselingMessages(moods, history))
	if err != nil {
		return nil, err
	}

	reply := models.ChatMessage{
		Role:      models.ChatRoleAssistant,
		Content:   strings.TrimSpace(answer),
		CreatedAt: s.deps.now(),
	}
	if err := s.deps.Documents.Counseling().AppendMessages(ctx, id, message, reply); err != nil {
		return nil, orNotFound(err, ErrSessionNotFound)
	}

	return &CounselingReply{SessionID: id, Message: message, Reply: reply}, nil
}

// recentMessages returns a copy of the last n messages
func recentMessages(messages []models.ChatMessage, n int) []models.ChatMessage {
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	out := make([]models.ChatMessage, len(messages), len(messages)+1)
	copy(out, messages)
	return out
}
