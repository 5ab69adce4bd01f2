package http

import (
	"encoding/json"
	"net/http"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

type AssistHandler struct {
	assistService ports.AssistService
}

func NewAssistHandler(assistService ports.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

type draftRequest struct {
	Topic string `json:"topic"`
}

func (h *AssistHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation)
		return
	}

	draft, err := h.assistService.Draft(r.Context(), req.Topic)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

type seoRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type seoResponse struct {
	Meta    *domain.SEOMetadata `json:"meta"`
	Outcome domain.ParseOutcome `json:"outcome"`
}

func (h *AssistHandler) SEO(w http.ResponseWriter, r *http.Request) {
	var req seoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation)
		return
	}

	meta, err := h.assistService.SEOMetadata(r.Context(), req.Content, req.Title)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, seoResponse{Meta: meta, Outcome: meta.Outcome})
}

type calendarResponse struct {
	Entries []domain.CalendarEntry `json:"entries"`
	Outcome domain.ParseOutcome    `json:"outcome"`
}

func (h *AssistHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	calendar, err := h.assistService.Calendar(r.Context(), user.ID.Hex())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calendarResponse{
		Entries: calendar.Entries,
		Outcome: calendar.Outcome,
	})
}
