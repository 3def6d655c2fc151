package handlers

import (
	"net/http"

	"github.com/Mas2205/UrbanFootCenter-sub000/middleware"
	"github.com/Mas2205/UrbanFootCenter-sub000/services"
)

type DrawHandler struct {
	drawService services.DrawService
}

func NewDrawHandler(ds services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: ds}
}

// GenerateHandler обрабатывает POST /api/tournaments/{tournamentID}/draw
func (h *DrawHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.drawService.GenerateDraw(r.Context(), tournamentID, principal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"draw": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RequestRedrawHandler обрабатывает POST /api/tournaments/{tournamentID}/request-redraw
func (h *DrawHandler) RequestRedrawHandler(w http.ResponseWriter, r *http.Request) {
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

	ticket, err := h.drawService.RequestRedraw(r.Context(), tournamentID, principal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"redraw": ticket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmRedrawHandler обрабатывает POST /api/tournaments/{tournamentID}/confirm-redraw
func (h *DrawHandler) ConfirmRedrawHandler(w http.ResponseWriter, r *http.Request) {
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
		Token string `json:"token"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.drawService.ConfirmRedraw(r.Context(), tournamentID, input.Token, principal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"draw": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
