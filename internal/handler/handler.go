package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/stories-api/internal/middleware"
	"github.com/vasapolrittideah/stories-api/internal/response"
	"github.com/vasapolrittideah/stories-api/internal/usecase"
	"github.com/vasapolrittideah/stories-api/shared/storage"
	"github.com/vasapolrittideah/stories-api/shared/validation"
)

const maxJSONBodyBytes = 1 << 20

// HealthCheck reports whether the backing services are reachable.
type HealthCheck func(ctx context.Context) error

// Dependencies bundles what the HTTP handlers need.
type Dependencies struct {
	Auth          usecase.AuthUsecase
	PasswordReset usecase.PasswordResetUsecase
	Users         usecase.UserUsecase
	Stories       usecase.StoryUsecase
	Notifications usecase.NotificationUsecase
	Validator     *validation.Validator
	Logger        *zerolog.Logger
	// MaxUploadBytes bounds multipart request bodies.
	MaxUploadBytes int64
	// UploadDir is served read-only under the same path when set.
	UploadDir string
	Health    HealthCheck
}

type httpHandler struct {
	Dependencies
}

func (h *httpHandler) bindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return h.validate(w, dst)
}

func (h *httpHandler) validate(w http.ResponseWriter, v any) bool {
	if err := h.Validator.Struct(v); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.Error(w, http.StatusBadRequest, verr.Message)
			return false
		}

		h.Logger.Error().Err(err).Msg("failed to validate request")
		response.Error(w, http.StatusInternalServerError, "something went wrong")
		return false
	}

	return true
}

// handleError maps use case errors to HTTP responses. Unexpected errors are
// logged and reported without detail.
func (h *httpHandler) handleError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Username or password is incorrect")
	case errors.Is(err, usecase.ErrEmailAlreadyInUse):
		response.Error(w, http.StatusConflict, "The email address is already in use.")
	case errors.Is(err, usecase.ErrUserNotFound):
		response.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrProfileNotFound):
		response.Error(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, usecase.ErrStoryNotFound):
		response.Error(w, http.StatusNotFound, "Story not found")
	case errors.Is(err, usecase.ErrInvalidOrExpiredOTP):
		response.Error(w, http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, usecase.ErrWeakPassword):
		response.Error(w, http.StatusBadRequest,
			"Password must contain at least one letter, one number, and one special character")
	case errors.Is(err, usecase.ErrAlreadyLiked):
		response.Error(w, http.StatusBadRequest, "You already liked this story")
	case errors.Is(err, usecase.ErrNotLiked):
		response.Error(w, http.StatusBadRequest, "You have not liked this story yet")
	case errors.Is(err, usecase.ErrForbidden):
		response.Error(w, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, usecase.ErrTooManyRequests):
		response.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Error(w, http.StatusBadRequest, "File too large")
	case errors.Is(err, storage.ErrUnsupportedFileType):
		response.Error(w, http.StatusBadRequest, "Invalid file type")
	default:
		h.Logger.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
		response.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}

// pageFromQuery reads the optional limit and offset query parameters.
func pageFromQuery(w http.ResponseWriter, r *http.Request) (usecase.Page, bool) {
	var page usecase.Page
	for _, p := range []struct {
		key string
		dst *uint64
	}{
		{key: "limit", dst: &page.Limit},
		{key: "offset", dst: &page.Offset},
	} {
		raw := r.URL.Query().Get(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(w, http.StatusBadRequest, p.key+" must be a non-negative integer")
			return usecase.Page{}, false
		}
		*p.dst = v
	}

	return page, true
}

func actorFromRequest(r *http.Request) usecase.Actor {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return usecase.Actor{}
	}
	return usecase.Actor{UserID: claims.UserID, Role: claims.Role}
}

func (h *httpHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health(r.Context()); err != nil {
			h.Logger.Error().Err(err).Msg("health check failed")
			response.Error(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}

	response.OK(w, http.StatusOK, "ok", nil)
}
