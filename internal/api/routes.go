package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)

		r.Get("/question-banks", s.handleQuestionBanks)
		r.Get("/metrics", s.handleUserMetrics)
		r.Get("/courses/progress", s.handleCourseProgress)

		r.Get("/lessons/recent", s.handleRecentLessons)
		r.Get("/lessons/{slug}", s.handleLessonBySlug)
		r.Post("/lessons/{id}/progress", s.handleSaveLessonProgress)
		r.Post("/lessons/{id}/checkpoint", s.handleSaveCheckpoint)

		r.Post("/exams/{bankId}/start", s.handleStartExam)
		r.Get("/exam", s.handleExamSession)
		r.Post("/exam/answer", s.handleSelectAnswer)
		r.Post("/exam/flag", s.handleToggleFlag)
		r.Post("/exam/goto", s.handleGoToQuestion)
		r.Post("/exam/next", s.handleNextQuestion)
		r.Post("/exam/prev", s.handlePrevQuestion)
		r.Post("/exam/finish", s.handleFinishExam)
		r.Get("/exam/result", s.handleExamResult)

		r.Post("/review/start", s.handleStartReview)
		r.Get("/review", s.handleReviewSession)
		r.Post("/review/grade", s.handleGradeCard)
		r.Post("/review/choice", s.handleGradeChoice)

		r.Get("/agents", s.handleAgents)
		r.Get("/agents/{agentId}/messages", s.handleTranscript)
		r.Post("/agents/{agentId}/messages", s.handleSendMessage)
		r.Delete("/agents/{agentId}/messages", s.handleClearConversation)

		r.Get("/achievements", s.handleUnlockedAchievements)
		r.Get("/achievements/{category}/progress", s.handleAchievementProgress)
		r.Post("/achievements/check", s.handleCheckAchievements)
		r.Delete("/achievements", s.handleClearAchievements)

		r.Get("/queue", s.handleQueueEntries)
		r.Post("/queue/drain", s.handleDrainQueue)
		r.Delete("/queue", s.handleClearQueue)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/reminder", s.handleGetReminder)
		r.Put("/reminder", s.handlePutReminder)
		r.Get("/notifications", s.handleDrainNotifications)

		r.Get("/billing/products", s.handleBillingProducts)
		r.Get("/billing/entitlement", s.handleBillingEntitlement)
	})

	return r
}
