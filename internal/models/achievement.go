package models

import "time"

// AchievementCategory groups achievements by the counter that drives them.
type AchievementCategory string

const (
	CategoryStreak  AchievementCategory = "streak"
	CategoryCards   AchievementCategory = "cards"
	CategoryLessons AchievementCategory = "lessons"
	CategoryExams   AchievementCategory = "exams"
	CategoryScore   AchievementCategory = "score"
)

// Achievement is an immutable achievement definition.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Requirement int                 `json:"requirement"`
	Category    AchievementCategory `json:"category"`
}

// UnlockedAchievement is an unlock record. Created once per achievement id,
// never revoked.
type UnlockedAchievement struct {
	Achievement
	UnlockedAt time.Time `json:"unlockedAt"`
}

// AchievementProgress pairs a definition with the caller's progress toward
// it, as a capped percentage.
type AchievementProgress struct {
	Achievement Achievement `json:"achievement"`
	Progress    float64     `json:"progress"`
	Unlocked    bool        `json:"unlocked"`
}
