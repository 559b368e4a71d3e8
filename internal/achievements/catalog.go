package achievements

import "github.com/mfreitas/studypilot/internal/models"

// Catalog is the fixed set of achievement definitions, ordered by ascending
// requirement within each category. Unlock records reference these by id.
var Catalog = []models.Achievement{
	{
		ID:          "first_card",
		Title:       "First Step",
		Description: "Review your first flashcard",
		Icon:        "🎯",
		Requirement: 1,
		Category:    models.CategoryCards,
	},
	{
		ID:          "card_master",
		Title:       "Card Master",
		Description: "Review 100 flashcards",
		Icon:        "🎓",
		Requirement: 100,
		Category:    models.CategoryCards,
	},
	{
		ID:          "streak_warrior",
		Title:       "Streak Warrior",
		Description: "Maintain a 7-day study streak",
		Icon:        "🔥",
		Requirement: 7,
		Category:    models.CategoryStreak,
	},
	{
		ID:          "lesson_complete",
		Title:       "Lesson Learner",
		Description: "Complete your first lesson",
		Icon:        "📚",
		Requirement: 1,
		Category:    models.CategoryLessons,
	},
	{
		ID:          "ce_certified",
		Title:       "CE Certified",
		Description: "Earn all 24 CE hours",
		Icon:        "🏆",
		Requirement: 24,
		Category:    models.CategoryLessons,
	},
	{
		ID:          "exam_passer",
		Title:       "Exam Passer",
		Description: "Pass your first exam",
		Icon:        "✅",
		Requirement: 1,
		Category:    models.CategoryExams,
	},
	{
		ID:          "perfect_score",
		Title:       "Perfect Score",
		Description: "Score 100% on an exam",
		Icon:        "🌟",
		Requirement: 100,
		Category:    models.CategoryScore,
	},
}

// byCategory returns the definitions for one category in catalog order.
func byCategory(category models.AchievementCategory) []models.Achievement {
	var out []models.Achievement
	for _, a := range Catalog {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
