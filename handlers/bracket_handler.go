package handlers

import (
	"net/http"

	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

// Generate godoc
// @Summary      Generate the bracket for a tournament
// @Tags         brackets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/bracket [post]
func (h *BracketHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	opts := services.GenerateBracketOptions{
		Force: r.URL.Query().Get("force") == "true",
	}

	matches, err := h.bracketService.Generate(r.Context(), tournamentID, userID, role, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil)
}

// Get godoc
// @Summary      Get the full bracket of a tournament
// @Tags         brackets
// @Produce      json
// @Router       /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matches, err := h.bracketService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
}
