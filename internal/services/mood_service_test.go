package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func TestMoodService_Create(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		wantDay  string
		wantErr  error
		wantRule string
	}{
		{name: "defaults to today", wantDay: "2025-03-14"},
		{name: "past day", date: "2025-03-01", wantDay: "2025-03-01"},
		{name: "future day", date: "2025-03-15", wantRule: "not_future_date"},
		{name: "malformed day", date: "14/03/2025", wantRule: "calendar_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			svc := NewMoodService(env.deps)

			got, err := svc.Create(context.Background(), "stu", &CreateMoodRequest{Mood: models.MoodCalm, Intensity: 6, Date: tt.date})
			if tt.wantRule != "" {
				var verrs validator.ValidationErrors
				if !errors.As(err, &verrs) || verrs[0].Rule != tt.wantRule {
					t.Fatalf("Create() error = %v, want rule %s", err, tt.wantRule)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if day := got.EntryDate.Format(models.DateLayout); day != tt.wantDay {
				t.Errorf("entry date = %s, want %s", day, tt.wantDay)
			}
			if !hasEvent(env.publisher.EventTypes(), events.MoodLogged) {
				t.Errorf("events = %v, want mood.logged", env.publisher.EventTypes())
			}
		})
	}

	t.Run("one entry per day", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewMoodService(env.deps)
		ctx := context.Background()
		if _, err := svc.Create(ctx, "stu", &CreateMoodRequest{Mood: models.MoodHappy, Intensity: 7}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := svc.Create(ctx, "stu", &CreateMoodRequest{Mood: models.MoodSad, Intensity: 3, Date: "2025-03-14"}); !errors.Is(err, ErrMoodAlreadyLogged) {
			t.Errorf("Create(same day) error = %v, want ErrMoodAlreadyLogged", err)
		}
		if _, err := svc.Create(ctx, "other", &CreateMoodRequest{Mood: models.MoodSad, Intensity: 3}); err != nil {
			t.Errorf("Create(other user) error = %v", err)
		}
	})
}

func TestMoodService_Ownership(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMoodService(env.deps)
	ctx := context.Background()

	entry, err := svc.Create(ctx, "stu", &CreateMoodRequest{Mood: models.MoodAnxious, Intensity: 8, Tags: []string{" exams "}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(entry.Tags) != 1 || entry.Tags[0] != "exams" {
		t.Errorf("tags = %v, want trimmed", entry.Tags)
	}

	var perr *PermissionError
	if _, err := svc.Update(ctx, "other", entry.ID, &UpdateMoodRequest{Intensity: intPtr(2)}); !errors.As(err, &perr) {
		t.Errorf("Update(other) error = %v, want PermissionError", err)
	}
	if err := svc.Delete(ctx, "other", entry.ID); !errors.As(err, &perr) {
		t.Errorf("Delete(other) error = %v, want PermissionError", err)
	}

	mood := models.MoodCalm
	got, err := svc.Update(ctx, "stu", entry.ID, &UpdateMoodRequest{Mood: &mood, Note: strPtr(" better now ")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Mood != models.MoodCalm || got.Note != "better now" || got.Intensity != 8 {
		t.Errorf("Update() = %+v", got)
	}

	if err := svc.Delete(ctx, "stu", entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Update(ctx, "stu", entry.ID, &UpdateMoodRequest{Intensity: intPtr(2)}); !errors.Is(err, ErrMoodNotFound) {
		t.Errorf("Update(deleted) error = %v, want ErrMoodNotFound", err)
	}
}

func TestMoodService_ListAndToday(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMoodService(env.deps)
	ctx := context.Background()

	today, err := svc.Today(ctx, "stu")
	if err != nil || today != nil {
		t.Fatalf("Today() = %v, %v, want nil, nil", today, err)
	}

	for _, day := range []string{"2025-03-10", "2025-03-12", "2025-03-14"} {
		if _, err := svc.Create(ctx, "stu", &CreateMoodRequest{Mood: models.MoodNeutral, Intensity: 5, Date: day}); err != nil {
			t.Fatalf("Create(%s) error = %v", day, err)
		}
	}

	today, err = svc.Today(ctx, "stu")
	if err != nil || today == nil {
		t.Fatalf("Today() = %v, %v, want entry", today, err)
	}

	got, err := svc.List(ctx, "stu", &MoodListParams{From: "2025-03-11", To: "2025-03-14"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].EntryDate.Format(models.DateLayout) != "2025-03-14" {
		t.Errorf("List() returned %d entries, want 2 newest first", len(got))
	}

	if _, err := svc.List(ctx, "stu", &MoodListParams{From: "2025-03-14", To: "2025-03-01"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("List(inverted) error = %v, want ErrInvalidDateRange", err)
	}

	empty, err := svc.List(ctx, "nobody", nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("List(no entries) = %v, %v, want empty slice", empty, err)
	}
}

func TestMoodService_Stats(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMoodService(env.deps)
	ctx := context.Background()

	seed := []struct {
		day       string
		mood      models.MoodType
		intensity int
	}{
		{"2025-03-14", models.MoodHappy, 8},
		{"2025-03-13", models.MoodHappy, 6},
		{"2025-03-12", models.MoodSad, 3},
		{"2025-03-10", models.MoodCalm, 5},
		{"2025-01-01", models.MoodAngry, 9},
	}
	for _, s := range seed {
		if _, err := svc.Create(ctx, "stu", &CreateMoodRequest{Mood: s.mood, Intensity: s.intensity, Date: s.day}); err != nil {
			t.Fatalf("Create(%s) error = %v", s.day, err)
		}
	}

	stats, err := svc.Stats(ctx, "stu", 7)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Days != 7 || stats.TotalEntries != 4 {
		t.Errorf("days=%d total=%d, want 7/4", stats.Days, stats.TotalEntries)
	}
	if stats.AverageIntensity != 5.5 {
		t.Errorf("average intensity = %.2f, want 5.50", stats.AverageIntensity)
	}
	if stats.MostFrequentMood == nil || *stats.MostFrequentMood != models.MoodHappy {
		t.Errorf("most frequent = %v, want happy", stats.MostFrequentMood)
	}
	if stats.Distribution[models.MoodAngry] != 0 || len(stats.Distribution) != len(models.AllMoods) {
		t.Errorf("distribution = %v, want every mood with angry outside the window", stats.Distribution)
	}
	if stats.CurrentStreak != 3 {
		t.Errorf("streak = %d, want 3", stats.CurrentStreak)
	}

	all, err := svc.Stats(ctx, "stu", 1000)
	if err != nil {
		t.Fatalf("Stats(1000) error = %v", err)
	}
	if all.Days != MaxMoodStatsDays || all.TotalEntries != 5 {
		t.Errorf("days=%d total=%d, want %d/5", all.Days, all.TotalEntries, MaxMoodStatsDays)
	}

	empty, err := svc.Stats(ctx, "nobody", 0)
	if err != nil {
		t.Fatalf("Stats(empty) error = %v", err)
	}
	if empty.Days != DefaultMoodStatsDays || empty.MostFrequentMood != nil || empty.AverageIntensity != 0 {
		t.Errorf("Stats(empty) = %+v", empty)
	}
}

func TestSummarizeMoodsTieBreak(t *testing.T) {
	entries := []*models.MoodEntry{
		{Mood: models.MoodSad, Intensity: 2},
		{Mood: models.MoodCalm, Intensity: 4},
	}
	stats := summarizeMoods(entries)
	if stats.MostFrequentMood == nil || *stats.MostFrequentMood != models.MoodCalm {
		t.Errorf("most frequent = %v, want calm (earlier in mood order)", stats.MostFrequentMood)
	}
	if stats.AverageIntensity != 3 {
		t.Errorf("average = %.2f, want 3", stats.AverageIntensity)
	}
}

func TestCurrentStreak(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse(models.DateLayout, s)
		return d
	}
	today := day("2025-03-14")

	tests := []struct {
		name string
		days []string
		want int
	}{
		{name: "none", want: 0},
		{name: "today only", days: []string{"2025-03-14"}, want: 1},
		{name: "ends yesterday", days: []string{"2025-03-13", "2025-03-12"}, want: 2},
		{name: "gap breaks streak", days: []string{"2025-03-14", "2025-03-13", "2025-03-11"}, want: 2},
		{name: "last entry two days ago", days: []string{"2025-03-12", "2025-03-11"}, want: 0},
		{name: "across month boundary", days: []string{"2025-03-02", "2025-03-01", "2025-02-28"}, want: 0},
		{name: "unordered input", days: []string{"2025-03-12", "2025-03-14", "2025-03-13"}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var days []time.Time
			for _, d := range tt.days {
				days = append(days, day(d))
			}
			if got := currentStreak(days, today); got != tt.want {
				t.Errorf("currentStreak() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("month boundary from march 2", func(t *testing.T) {
		days := []time.Time{day("2025-03-02"), day("2025-03-01"), day("2025-02-28")}
		if got := currentStreak(days, day("2025-03-02")); got != 3 {
			t.Errorf("currentStreak() = %d, want 3", got)
		}
	})
}
