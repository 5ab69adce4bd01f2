package http

import (
	"encoding/json"
	"net/http"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	respondJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID.Hex(), ports.UpdateProfileInput{
		FullName: req.FullName,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type changePasswordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation)
		return
	}

	err := h.userService.ChangePassword(r.Context(), user.ID.Hex(), ports.ChangePasswordInput{
		Current: req.Current,
		New:     req.New,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
