package http

import (
	"net/http"

	"github.com/blogify/api/internal/core/ports"
)

const (
	stateCookie    = "tw_state"
	verifierCookie = "tw_code_verifier"
	// transientTTL bounds one OAuth round trip.
	transientTTL = 10 * 60
)

type SocialHandler struct {
	socialService ports.SocialService
	secureCookie  bool
}

func NewSocialHandler(socialService ports.SocialService, secureCookie bool) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		secureCookie:  secureCookie,
	}
}

// Connect starts the authorization-code + PKCE flow: the anti-forgery
// state and the code verifier ride in short-lived HttpOnly cookies for the
// duration of the round trip.
func (h *SocialHandler) Connect(w http.ResponseWriter, r *http.Request) {
	begin, err := h.socialService.BeginLink(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	h.setTransientCookie(w, stateCookie, begin.State)
	h.setTransientCookie(w, verifierCookie, begin.Verifier)

	http.Redirect(w, r, begin.RedirectURL, http.StatusTemporaryRedirect)
}

func (h *SocialHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// The transient cookies are cleared no matter how the callback ends,
	// so a replayed callback fails closed.
	storedState := h.cookieValue(r, stateCookie)
	verifier := h.cookieValue(r, verifierCookie)
	h.clearTransientCookie(w, stateCookie)
	h.clearTransientCookie(w, verifierCookie)

	user, _ := CurrentUser(r.Context())

	_, err := h.socialService.CompleteLink(r.Context(), user.ID.Hex(), ports.CompleteLinkInput{
		Code:        r.URL.Query().Get("code"),
		State:       r.URL.Query().Get("state"),
		StoredState: storedState,
		Verifier:    verifier,
	})
	if err != nil {
		http.Redirect(w, r, "/profile?twitter=error", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/profile?twitter=connected", http.StatusSeeOther)
}

func (h *SocialHandler) Disable(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	if err := h.socialService.Disable(r.Context(), user.ID.Hex()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
}

func (h *SocialHandler) Test(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	handle, err := h.socialService.TestConnection(r.Context(), user.ID.Hex())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "connected",
		"handle": handle,
	})
}

func (h *SocialHandler) cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *SocialHandler) setTransientCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   transientTTL,
	})
}

func (h *SocialHandler) clearTransientCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		MaxAge:   -1,
	})
}
