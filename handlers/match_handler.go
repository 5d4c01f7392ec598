package handlers

import (
	"net/http"

	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// Get godoc
// @Summary      Get one match
// @Tags         matches
// @Produce      json
// @Router       /tournaments/{tournamentID}/matches/{matchID} [get]
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := uuidURLParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	m, err := h.matchService.Get(r.Context(), tournamentID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": m}, nil)
}

// SubmitResult godoc
// @Summary      Submit a match result
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := uuidURLParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		OwnScore      int    `json:"own_score"`
		OpponentScore int    `json:"opponent_score"`
		EvidenceURL   string `json:"evidence_url"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.matchService.SubmitResult(r.Context(), tournamentID, matchID, userID, services.SubmitResultInput{
		OwnScore:      input.OwnScore,
		OpponentScore: input.OpponentScore,
		EvidenceURL:   input.EvidenceURL,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"match":      res.Match,
		"completed":  res.Completed,
		"placements": res.Placements,
	}, nil)
}

// Start godoc
// @Summary      Mark a scheduled match as in progress
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/matches/{matchID}/start [post]
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := uuidURLParam(r, "matchID")
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

	m, err := h.matchService.Start(r.Context(), tournamentID, matchID, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": m}, nil)
}

// ForceResolve godoc
// @Summary      Resolve a match with an operator-chosen winner
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/matches/{matchID}/force-resolve [post]
func (h *MatchHandler) ForceResolve(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := uuidURLParam(r, "matchID")
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

	var input struct {
		WinnerParticipantID int `json:"winner_participant_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.matchService.ForceResolve(r.Context(), tournamentID, matchID, input.WinnerParticipantID, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"match":      res.Match,
		"completed":  res.Completed,
		"placements": res.Placements,
	}, nil)
}
