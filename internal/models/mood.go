package models

import (
	"time"

	"gorm.io/datatypes"
)

type MoodType string

const (
	MoodHappy    MoodType = "happy"
	MoodCalm     MoodType = "calm"
	MoodNeutral  MoodType = "neutral"
	MoodSad      MoodType = "sad"
	MoodAnxious  MoodType = "anxious"
	MoodStressed MoodType = "stressed"
	MoodAngry    MoodType = "angry"
	MoodExcited  MoodType = "excited"
)

var AllMoods = []MoodType{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAnxious, MoodStressed, MoodAngry, MoodExcited}

// DateLayout is the wire format of calendar days
const DateLayout = "2006-01-02"

type MoodEntry struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	UserID    string                      `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_mood_user_day"`
	EntryDate time.Time                   `json:"entry_date" gorm:"type:date;not null;uniqueIndex:idx_mood_user_day"`
	Mood      MoodType                    `json:"mood" gorm:"size:20;not null;index"`
	Intensity int                         `json:"intensity" gorm:"not null;check:intensity >= 1 AND intensity <= 10"`
	Note      string                      `json:"note" gorm:"type:text"`
	Tags      datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MoodEntry) TableName() string {
	return "mood_entries"
}

// Day truncates t to its calendar day in UTC
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
