package handlers

import (
	"net/http"

	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// Register godoc
// @Summary      Register for a tournament
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/participants [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		GameTag string `json:"game_tag"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	p, err := h.participantService.Register(r.Context(), tournamentID, userID, input.GameTag)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"participant": p}, nil)
}

// ConfirmPayment godoc
// @Summary      Confirm a participant's entry fee
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/participants/{participantID}/payment [post]
func (h *ParticipantHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := intURLParam(r, "participantID")
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

	p, err := h.participantService.ConfirmPayment(r.Context(), tournamentID, participantID, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"participant": p}, nil)
}

// List godoc
// @Summary      List tournament participants
// @Tags         participants
// @Produce      json
// @Router       /tournaments/{tournamentID}/participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participants, err := h.participantService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil)
}
