package models

import (
	"fmt"
	"testing"
	"time"
)

func testCourse() *Course {
	return &Course{
		ID: 1,
		Modules: []Module{
			{ID: "m1", Lessons: []Lesson{{ID: "l1"}, {ID: "l2"}}},
			{ID: "m2", Lessons: []Lesson{{ID: "l3"}}},
		},
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		want        int
	}{
		{"no lessons", 0, 0, 0},
		{"none done", 0, 3, 0},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 67},
		{"all done", 3, 3, 100},
		{"more than total", 4, 3, 100},
		{"one short of many", 199, 200, 99},
		{"one of many", 1, 300, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressPercent(tt.done, tt.total); got != tt.want {
				t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
			}
		})
	}
}

func TestEnrollment_MarkLesson(t *testing.T) {
	course := testCourse()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Enrollment{Status: EnrollmentActive}

	e.MarkLesson(course, "l3", true, now)
	e.MarkLesson(course, "l1", true, now)
	if e.Progress != 67 || e.Status != EnrollmentActive {
		t.Fatalf("after two lessons: progress=%d status=%s", e.Progress, e.Status)
	}
	if got := []string(e.CompletedLessons); len(got) != 2 || got[0] != "l1" || got[1] != "l3" {
		t.Errorf("CompletedLessons = %v, want course order [l1 l3]", got)
	}

	e.MarkLesson(course, "l2", true, now)
	if e.Progress != 100 || e.Status != EnrollmentCompleted || e.CompletedAt == nil {
		t.Fatalf("after all lessons: progress=%d status=%s completedAt=%v", e.Progress, e.Status, e.CompletedAt)
	}

	e.MarkLesson(course, "l2", false, now)
	if e.Status != EnrollmentActive || e.CompletedAt != nil || e.Progress != 67 {
		t.Errorf("after un-completing: progress=%d status=%s completedAt=%v", e.Progress, e.Status, e.CompletedAt)
	}

	e.MarkLesson(course, "l1", true, now)
	if e.Progress != 67 || len(e.CompletedLessons) != 2 {
		t.Errorf("marking twice changed progress: %d %v", e.Progress, e.CompletedLessons)
	}
}

func TestEnrollment_MarkLesson_OneLessonLeft(t *testing.T) {
	lessons := make([]Lesson, 200)
	for i := range lessons {
		lessons[i] = Lesson{ID: fmt.Sprintf("l%d", i)}
	}
	course := &Course{ID: 2, Modules: []Module{{ID: "m1", Lessons: lessons}}}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Enrollment{Status: EnrollmentActive}

	for _, l := range lessons[:199] {
		e.MarkLesson(course, l.ID, true, now)
	}
	if e.Progress != 99 || e.Status != EnrollmentActive || e.CompletedAt != nil {
		t.Fatalf("199 of 200: progress=%d status=%s completedAt=%v", e.Progress, e.Status, e.CompletedAt)
	}

	e.MarkLesson(course, lessons[199].ID, true, now)
	if e.Progress != 100 || e.Status != EnrollmentCompleted {
		t.Errorf("200 of 200: progress=%d status=%s", e.Progress, e.Status)
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []int{4}, 4},
		{"thirds", []int{5, 4, 4}, 4.33},
		{"two thirds", []int{5, 5, 4}, 4.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageRating(tt.ratings); got != tt.want {
				t.Errorf("AverageRating(%v) = %v, want %v", tt.ratings, got, tt.want)
			}
		})
	}
}

func TestPageParams_Normalize(t *testing.T) {
	tests := []struct {
		in         PageParams
		want       PageParams
		wantOffset int
	}{
		{PageParams{}, PageParams{Page: 1, Size: 10}, 0},
		{PageParams{Page: 3, Size: 20}, PageParams{Page: 3, Size: 20}, 40},
		{PageParams{Page: -1, Size: 500}, PageParams{Page: 1, Size: 100}, 0},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got := tt.in.Offset(); got != tt.wantOffset {
			t.Errorf("Offset(%+v) = %d, want %d", tt.in, got, tt.wantOffset)
		}
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2}, 2, 12, PageParams{Page: 2, Size: 10})
	if resp.TotalPages != 2 || !resp.Last || resp.First || resp.Empty {
		t.Errorf("unexpected page metadata: %+v", resp)
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2025, 3, 2, 3, 0, 0, 0, loc)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := Day(in); !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
}
