package api

import (
	"net/http"

	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/store"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := models.DefaultSettings()
	if _, err := s.Store.GetJSON(r.Context(), store.KeySettings, &settings); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

type settingsRequest struct {
	Notifications bool   `json:"notifications"`
	Haptics       bool   `json:"haptics"`
	Theme         string `json:"theme" validate:"required,oneof=dark light"`
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	settings := models.Settings{
		Notifications: req.Notifications,
		Haptics:       req.Haptics,
		Theme:         req.Theme,
	}
	if err := s.Store.PutJSON(r.Context(), store.KeySettings, settings); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.Notify.Reminder(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if reminder == nil {
		reminder = &models.StudyReminder{}
	}
	writeJSON(w, r, http.StatusOK, reminder)
}

type reminderRequest struct {
	Hour    int  `json:"hour" validate:"gte=0,lte=23"`
	Minute  int  `json:"minute" validate:"gte=0,lte=59"`
	Enabled bool `json:"enabled"`
}

func (s *Server) handlePutReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var err error
	if req.Enabled {
		err = s.Notify.ScheduleReminder(r.Context(), req.Hour, req.Minute)
	} else {
		err = s.Notify.DisableReminder(r.Context())
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	reminder, err := s.Notify.Reminder(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reminder)
}

func (s *Server) handleDrainNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Notify.Drain())
}

func (s *Server) handleBillingProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Billing.Products(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, products)
}

func (s *Server) handleBillingEntitlement(w http.ResponseWriter, r *http.Request) {
	premium, err := s.Billing.IsPremium(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"premium": premium})
}
