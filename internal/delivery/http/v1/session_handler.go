package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-catalog/internal/delivery/http/middleware"
	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"
)

type SessionHandler struct {
	sessionUC       *usecase.SessionUsecase
	longPollTimeout time.Duration
	secureCookie    bool
}

func NewSessionHandler(uc *usecase.SessionUsecase, longPollTimeout time.Duration, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		sessionUC:       uc,
		longPollTimeout: longPollTimeout,
		secureCookie:    secureCookie,
	}
}

type sessionResponse struct {
	Token     string             `json:"token"`
	SessionID string             `json:"sessionId"`
	ExpiresAt time.Time          `json:"expiresAt"`
	Catalog   domain.CatalogView `json:"catalog"`
}

// CreateSession starts a browsing session and sets its token cookie.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, token, err := h.sessionUC.Create(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteData(w, http.StatusCreated, sessionResponse{
		Token:     token,
		SessionID: s.ID,
		ExpiresAt: s.ExpiresAt,
		Catalog:   s.Engine.View(),
	}, nil)
}

// EndSession drops the session and clears its cookie.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.sessionUC.End(s.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetCatalog returns the session's view. With ?since=N it waits until the
// view version passes N or the long-poll timeout elapses.
func (h *SessionHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	since := r.URL.Query().Get("since")
	if since == "" {
		writeView(w, http.StatusOK, s.Engine.View())
		return
	}
	version, err := strconv.ParseUint(since, 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "since must be a non-negative integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.longPollTimeout)
	defer cancel()
	view, err := s.Engine.WaitForVersion(ctx, version)
	if err != nil && r.Context().Err() != nil {
		// Client went away.
		return
	}
	writeView(w, http.StatusOK, view)
}

type searchRequest struct {
	Term string `json:"term"`
}

// SetSearch schedules a debounced search; the result arrives on a later view.
func (h *SessionHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req searchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	scheduled := s.Engine.SetSearch(req.Term)
	logger.WithContext(r.Context()).Debug().Str("term", req.Term).Bool("scheduled", scheduled).Msg("Search updated")
	utils.WriteData(w, http.StatusAccepted, s.Engine.View(), map[string]bool{"scheduled": scheduled})
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (h *SessionHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req categoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.Engine.SetCategory(r.Context(), req.Category)
	h.writeMutation(w, r, view, err)
}

type sortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

func (h *SessionHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req sortRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	key, err := domain.ParseSortKey(req.Key)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dir, err := domain.ParseSortDirection(req.Direction)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	view, err := s.Engine.SetSort(r.Context(), key, dir)
	h.writeMutation(w, r, view, err)
}

type pageRequest struct {
	Page int `json:"page"`
}

func (h *SessionHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req pageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Page < 1 {
		utils.WriteError(w, http.StatusBadRequest, "page must be at least 1")
		return
	}

	view, err := s.Engine.SetPage(r.Context(), req.Page)
	h.writeMutation(w, r, view, err)
}

// writeMutation rejects invalid input. Retrieval failures are already in the
// view's error message, so the view is still returned.
func (h *SessionHandler) writeMutation(w http.ResponseWriter, r *http.Request, view domain.CatalogView, err error) {
	if err != nil && errors.Is(err, domain.ErrInvalidQuery) {
		writeDomainError(w, r, err)
		return
	}
	writeView(w, http.StatusOK, view)
}

func writeView(w http.ResponseWriter, status int, view domain.CatalogView) {
	utils.WriteData(w, status, view, nil)
}
