package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type studentProfilePostgreSQL struct {
	db *gorm.DB
}

func NewStudentProfilePostgreSQL(db *gorm.DB) repositories.StudentProfileRepository {
	return &studentProfilePostgreSQL{db: db}
}

func (r *studentProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, handleDBError(err, "get student profile")
	}
	return &profile, nil
}

func (r *studentProfilePostgreSQL) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(profile).Error
	return handleDBError(err, "upsert student profile")
}

type educatorProfilePostgreSQL struct {
	db *gorm.DB
}

func NewEducatorProfilePostgreSQL(db *gorm.DB) repositories.EducatorProfileRepository {
	return &educatorProfilePostgreSQL{db: db}
}

func (r *educatorProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.EducatorProfile, error) {
	var profile models.EducatorProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, handleDBError(err, "get educator profile")
	}
	return &profile, nil
}

func (r *educatorProfilePostgreSQL) Upsert(ctx context.Context, profile *models.EducatorProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(profile).Error
	return handleDBError(err, "upsert educator profile")
}
