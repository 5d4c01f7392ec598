package handlers

import (
	"net/http"

	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body object true "email, password, optional nickname and role"
// @Success      201 {object} models.User
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string  `json:"email"`
		Nickname *string `json:"nickname"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), services.RegisterInput{
		Email:    input.Email,
		Nickname: input.Nickname,
		Password: input.Password,
		Role:     models.UserRole(input.Role),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil)
}

// Login godoc
// @Summary      Authenticate and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, user, err := h.authService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"token": token, "user": user}, nil)
}
