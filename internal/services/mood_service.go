package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

const (
	DefaultMoodStatsDays = 30
	MaxMoodStatsDays     = 365
)

type moodService struct {
	deps *Dependencies
}

func NewMoodService(deps *Dependencies) MoodService {
	return &moodService{deps: deps}
}

// Create logs the mood of one calendar day (UTC); today unless a past date is given
func (s *moodService) Create(ctx context.Context, userID string, req *CreateMoodRequest) (*models.MoodEntry, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	today := models.Day(s.deps.now())
	day := today
	if req.Date != "" {
		parsed, err := time.Parse(models.DateLayout, req.Date)
		if err != nil {
			return nil, validator.ValidationErrors{{Field: "date", Message: "must be a date in YYYY-MM-DD format", Value: req.Date, Rule: "calendar_date"}}
		}
		day = models.Day(parsed)
	}
	if day.After(today) {
		return nil, validator.ValidationErrors{{Field: "date", Message: "must not be in the future", Value: req.Date, Rule: "not_future_date"}}
	}

	if _, err := s.deps.Repo.Mood().GetByUserAndDate(ctx, userID, day); err == nil {
		return nil, ErrMoodAlreadyLogged
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check mood entry: %w", err)
	}

	entry := &models.MoodEntry{
		UserID:    userID,
		EntryDate: day,
		Mood:      req.Mood,
		Intensity: req.Intensity,
		Note:      strings.TrimSpace(req.Note),
		Tags:      datatypes.JSONSlice[string](trimAll(req.Tags)),
	}
	if err := s.deps.Repo.Mood().Create(ctx, entry); err != nil {
		if isDuplicate(err) {
			return nil, ErrMoodAlreadyLogged
		}
		return nil, fmt.Errorf("failed to log mood: %w", err)
	}

	publish(ctx, s.deps, events.MoodLogged, userID, "mood", uintID(entry.ID), map[string]interface{}{
		"mood":      entry.Mood,
		"intensity": entry.Intensity,
		"date":      day.Format(models.DateLayout),
	})
	return entry, nil
}

func (s *moodService) Update(ctx context.Context, userID string, id uint, req *UpdateMoodRequest) (*models.MoodEntry, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	entry, err := s.owned(ctx, userID, id, "update")
	if err != nil {
		return nil, err
	}

	if req.Mood != nil {
		entry.Mood = *req.Mood
	}
	if req.Intensity != nil {
		entry.Intensity = *req.Intensity
	}
	if req.Note != nil {
		entry.Note = strings.TrimSpace(*req.Note)
	}
	if req.Tags != nil {
		entry.Tags = datatypes.JSONSlice[string](trimAll(req.Tags))
	}

	if err := s.deps.Repo.Mood().Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update mood entry: %w", err)
	}
	return entry, nil
}

func (s *moodService) Delete(ctx context.Context, userID string, id uint) error {
	entry, err := s.owned(ctx, userID, id, "delete")
	if err != nil {
		return err
	}
	if err := s.deps.Repo.Mood().Delete(ctx, entry); err != nil {
		return orNotFound(err, ErrMoodNotFound)
	}
	return nil
}

func (s *moodService) List(ctx context.Context, userID string, params *MoodListParams) ([]*models.MoodEntry, error) {
	if params == nil {
		params = &MoodListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}

	var filters repositories.MoodFilters
	if params.From != "" {
		from, _ := time.Parse(models.DateLayout, params.From)
		filters.From = &from
	}
	if params.To != "" {
		to, _ := time.Parse(models.DateLayout, params.To)
		filters.To = &to
	}
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, ErrInvalidDateRange
	}

	entries, err := s.deps.Repo.Mood().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	if entries == nil {
		entries = []*models.MoodEntry{}
	}
	return entries, nil
}

// Today returns nil without error when nothing was logged today
func (s *moodService) Today(ctx context.Context, userID string) (*models.MoodEntry, error) {
	entry, err := s.deps.Repo.Mood().GetByUserAndDate(ctx, userID, s.deps.now())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (s *moodService) Stats(ctx context.Context, userID string, days int) (*models.MoodStats, error) {
	if days <= 0 {
		days = DefaultMoodStatsDays
	}
	if days > MaxMoodStatsDays {
		days = MaxMoodStatsDays
	}

	today := models.Day(s.deps.now())
	from := today.AddDate(0, 0, -(days - 1))
	entries, err := s.deps.Repo.Mood().ListByUser(ctx, userID, repositories.MoodFilters{From: &from, To: &today})
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	streak, err := moodStreak(ctx, s.deps, userID)
	if err != nil {
		return nil, err
	}

	stats := summarizeMoods(entries)
	stats.Days = days
	stats.CurrentStreak = streak
	return stats, nil
}

func (s *moodService) owned(ctx context.Context, userID string, id uint, action string) (*models.MoodEntry, error) {
	entry, err := s.deps.Repo.Mood().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrMoodNotFound)
	}
	if entry.UserID != userID {
		return nil, NewPermissionError(userID, id, "mood entry", action, "entries are private to their author")
	}
	return entry, nil
}

// summarizeMoods computes distribution, mean intensity and the most frequent mood.
// Ties for most frequent resolve in the order of models.AllMoods.
func summarizeMoods(entries []*models.MoodEntry) *models.MoodStats {
	stats := &models.MoodStats{
		TotalEntries: len(entries),
		Distribution: make(map[models.MoodType]int, len(models.AllMoods)),
	}
	for _, m := range models.AllMoods {
		stats.Distribution[m] = 0
	}
	if len(entries) == 0 {
		return stats
	}

	sum := 0
	for _, e := range entries {
		stats.Distribution[e.Mood]++
		sum += e.Intensity
	}
	stats.AverageIntensity = models.RoundRating(float64(sum) / float64(len(entries)))

	best := 0
	for _, m := range models.AllMoods {
		if n := stats.Distribution[m]; n > best {
			mood := m
			stats.MostFrequentMood = &mood
			best = n
		}
	}
	return stats
}

// moodStreak loads the last year of entries and counts the current streak
func moodStreak(ctx context.Context, deps *Dependencies, userID string) (int, error) {
	today := models.Day(deps.now())
	from := today.AddDate(0, 0, -MaxMoodStatsDays)
	entries, err := deps.Repo.Mood().ListByUser(ctx, userID, repositories.MoodFilters{From: &from, To: &today})
	if err != nil {
		return 0, fmt.Errorf("failed to load mood entries: %w", err)
	}

	days := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		days = append(days, e.EntryDate)
	}
	return currentStreak(days, today), nil
}

// currentStreak counts consecutive logged days ending today, or ending yesterday
// when today has no entry yet
func currentStreak(days []time.Time, today time.Time) int {
	logged := make(map[string]bool, len(days))
	for _, d := range days {
		logged[models.Day(d).Format(models.DateLayout)] = true
	}

	day := models.Day(today)
	if !logged[day.Format(models.DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for logged[day.Format(models.DateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
