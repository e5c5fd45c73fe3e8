package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

type uploadService struct {
	deps *Dependencies
}

func NewUploadService(deps *Dependencies) UploadService {
	return &uploadService{deps: deps}
}

// UploadImage stores a validated image under uploads/<user>/
func (s *uploadService) UploadImage(ctx context.Context, userID string, file UploadedFile) (*UploadResponse, error) {
	if s.deps.Storage == nil {
		return nil, ErrStorageNotConfigured
	}

	key := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.NewString(), file.Extension)
	url, err := s.deps.Storage.Upload(ctx, key, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.deps.Logger.Info("Image uploaded", "user_id", userID, "key", key, "size", file.Size)
	return &UploadResponse{URL: url, Key: key, ContentType: file.ContentType, Size: file.Size}, nil
}

func (s *uploadService) UpdateAvatar(ctx context.Context, userID string, file UploadedFile) (*models.User, error) {
	user, err := s.deps.Repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}

	upload, err := s.UploadImage(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = &upload.URL
	if err := s.deps.Repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return user, nil
}
