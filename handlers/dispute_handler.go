package handlers

import (
	"net/http"

	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/services"
)

type DisputeHandler struct {
	disputeService services.DisputeService
}

func NewDisputeHandler(disputeService services.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService}
}

// File godoc
// @Summary      File a dispute against a match result
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/matches/{matchID}/disputes [post]
func (h *DisputeHandler) File(w http.ResponseWriter, r *http.Request) {
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
		Reason   string   `json:"reason"`
		Evidence []string `json:"evidence"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.disputeService.File(r.Context(), tournamentID, matchID, userID, services.FileDisputeInput{
		Reason:   input.Reason,
		Evidence: input.Evidence,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"dispute": res.Dispute, "match": res.Match}, nil)
}

// Resolve godoc
// @Summary      Resolve a dispute with an authoritative outcome
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/disputes/{disputeID}/resolve [post]
func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	disputeID, err := uuidURLParam(r, "disputeID")
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
		Outcome                  string `json:"outcome"`
		BeneficiaryParticipantID *int   `json:"beneficiary_participant_id"`
		Note                     string `json:"note"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.disputeService.Resolve(r.Context(), tournamentID, disputeID, userID, role, services.ResolveDisputeInput{
		Outcome:                  models.DisputeOutcome(input.Outcome),
		BeneficiaryParticipantID: input.BeneficiaryParticipantID,
		Note:                     input.Note,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"dispute":     res.Dispute,
		"match":       res.Match,
		"rolled_back": res.RolledBack,
		"completed":   res.Completed,
		"placements":  res.Placements,
	}, nil)
}

// List godoc
// @Summary      List disputes of a tournament
// @Tags         disputes
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/disputes [get]
func (h *DisputeHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	disputes, err := h.disputeService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"disputes": disputes}, nil)
}

// Get godoc
// @Summary      Get one dispute
// @Tags         disputes
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/disputes/{disputeID} [get]
func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	disputeID, err := uuidURLParam(r, "disputeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	d, err := h.disputeService.GetByID(r.Context(), disputeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"dispute": d}, nil)
}
