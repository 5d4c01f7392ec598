package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/repositories"
	"github.com/gamebay/tournament-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// Create godoc
// @Summary      Create a tournament
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Name            string    `json:"name"`
		Description     *string   `json:"description"`
		Format          string    `json:"format"`
		RegOpenDate     time.Time `json:"reg_open_date"`
		RegCloseDate    time.Time `json:"reg_close_date"`
		StartDate       time.Time `json:"start_date"`
		MaxParticipants int       `json:"max_participants"`
		PrizePool       int64     `json:"prize_pool"`
		PrizeShares     *string   `json:"prize_shares"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.tournamentService.Create(r.Context(), userID, services.CreateTournamentInput{
		Name:            input.Name,
		Description:     input.Description,
		Format:          models.TournamentFormat(input.Format),
		RegOpenDate:     input.RegOpenDate,
		RegCloseDate:    input.RegCloseDate,
		StartDate:       input.StartDate,
		MaxParticipants: input.MaxParticipants,
		PrizePool:       input.PrizePool,
		PrizeShares:     input.PrizeShares,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": t}, nil)
}

// Get godoc
// @Summary      Get one tournament
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Router       /tournaments/{tournamentID} [get]
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	t, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil)
}

// List godoc
// @Summary      List tournaments
// @Tags         tournaments
// @Produce      json
// @Router       /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{Limit: 50}

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := models.TournamentStatus(v)
		filter.Status = &status
	}
	if v := q.Get("format"); v != "" {
		format := models.TournamentFormat(v)
		filter.Format = &format
	}
	if v := q.Get("organizer_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			filter.OrganizerID = &id
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	tournaments, err := h.tournamentService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

// UpdateStatus godoc
// @Summary      Update tournament status
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/status [patch]
func (h *TournamentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "tournamentID")
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
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.tournamentService.UpdateStatus(r.Context(), id, models.TournamentStatus(input.Status), userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil)
}
