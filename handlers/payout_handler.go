package handlers

import (
	"net/http"

	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/services"
)

type PayoutHandler struct {
	payoutService services.PayoutService
}

func NewPayoutHandler(payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// List godoc
// @Summary      List payout records of a tournament
// @Tags         payouts
// @Produce      json
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/payouts [get]
func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.PayoutStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.PayoutStatus(v)
		status = &s
	}

	payouts, err := h.payoutService.ListByTournament(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"payouts": payouts}, nil)
}

// MarkPaid godoc
// @Summary      Mark a pending payout as paid
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /payouts/{payoutID}/paid [post]
func (h *PayoutHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	payoutID, err := uuidURLParam(r, "payoutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TransactionRef string `json:"transaction_ref"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	p, err := h.payoutService.MarkPaid(r.Context(), payoutID, input.TransactionRef)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"payout": p}, nil)
}

// MarkFailed godoc
// @Summary      Mark a pending payout as failed
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /payouts/{payoutID}/failed [post]
func (h *PayoutHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	payoutID, err := uuidURLParam(r, "payoutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	p, err := h.payoutService.MarkFailed(r.Context(), payoutID, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"payout": p}, nil)
}
