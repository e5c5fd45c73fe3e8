package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type moodPostgreSQL struct {
	db *gorm.DB
}

func NewMoodPostgreSQL(db *gorm.DB) repositories.MoodRepository {
	return &moodPostgreSQL{db: db}
}

func (r *moodPostgreSQL) Create(ctx context.Context, entry *models.MoodEntry) error {
	entry.EntryDate = models.Day(entry.EntryDate)
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return handleDBError(err, "create mood entry")
	}
	return nil
}

func (r *moodPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, handleDBError(err, "get mood entry")
	}
	return &entry, nil
}

func (r *moodPostgreSQL) GetByUserAndDate(ctx context.Context, userID string, day time.Time) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, models.Day(day).Format(models.DateLayout)).
		First(&entry).Error; err != nil {
		return nil, handleDBError(err, "get mood entry by date")
	}
	return &entry, nil
}

func (r *moodPostgreSQL) Update(ctx context.Context, entry *models.MoodEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return handleDBError(err, "update mood entry")
	}
	return nil
}

func (r *moodPostgreSQL) Delete(ctx context.Context, entry *models.MoodEntry) error {
	result := r.db.WithContext(ctx).Delete(entry)
	if result.Error != nil {
		return handleDBError(result.Error, "delete mood entry")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete mood entry")
	}
	return nil
}

// ListByUser returns entries newest day first
func (r *moodPostgreSQL) ListByUser(ctx context.Context, userID string, filters repositories.MoodFilters) ([]*models.MoodEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filters.From != nil {
		query = query.Where("entry_date >= ?", models.Day(*filters.From).Format(models.DateLayout))
	}
	if filters.To != nil {
		query = query.Where("entry_date <= ?", models.Day(*filters.To).Format(models.DateLayout))
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var entries []*models.MoodEntry
	if err := query.Order("entry_date DESC").Find(&entries).Error; err != nil {
		return nil, handleDBError(err, "list mood entries")
	}
	return entries, nil
}
