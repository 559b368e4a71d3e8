package models

import "encoding/json"

// UserMetrics is the dashboard summary the backend computes per user.
type UserMetrics struct {
	OverallProgress  float64 `json:"overallProgress"`
	StudyStreak      int     `json:"studyStreak"`
	IFlashDue        int     `json:"iflashDue"`
	CEHours          float64 `json:"ceHours"`
	CEHoursTotal     float64 `json:"ceHoursTotal"`
	LessonsCompleted int     `json:"lessonsCompleted"`
	QuizzesPassed    int     `json:"quizzesPassed"`
	AverageScore     float64 `json:"averageScore"`
}

// CourseTrack is one track inside the course progress summary.
type CourseTrack struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Progress         float64 `json:"progress"`
	CEHours          float64 `json:"ceHours"`
	CompletedLessons int     `json:"completedLessons"`
	TotalLessons     int     `json:"totalLessons"`
}

// CourseProgress is the backend course progress summary.
type CourseProgress struct {
	Tracks          []CourseTrack `json:"tracks"`
	OverallProgress float64       `json:"overallProgress"`
}

// Lesson carries lesson identity plus the server-defined content blob, which
// the client treats as opaque and hands straight to the UI shell.
type Lesson struct {
	ID      string          `json:"id"`
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content,omitempty"`
}
