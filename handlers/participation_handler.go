package handlers

import (
	"net/http"

	"github.com/Mas2205/UrbanFootCenter-sub000/middleware"
	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/services"
)

type ParticipationHandler struct {
	participationService services.ParticipationService
}

func NewParticipationHandler(ps services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps}
}

// RequestHandler обрабатывает POST /api/tournaments/{tournamentID}/participations
func (h *ParticipationHandler) RequestHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participation, err := h.participationService.Request(r.Context(), tournamentID, input.TeamID, principal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participation": participation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReviewHandler обрабатывает PATCH /api/participations/{participationID}/review
func (h *ParticipationHandler) ReviewHandler(w http.ResponseWriter, r *http.Request) {
	participationID, err := getIDFromURL(r, "participationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.ReviewParticipationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participation, err := h.participationService.Review(r.Context(), participationID, principal, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participation": participation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /api/tournaments/{tournamentID}/participations
func (h *ParticipationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var statusFilter *models.ParticipationStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.ParticipationStatus(statusStr)
		statusFilter = &status
	}

	participations, err := h.participationService.ListByTournament(r.Context(), tournamentID, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participations": participations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
