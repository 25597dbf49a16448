package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/stories-api/internal/payload"
	"github.com/vasapolrittideah/stories-api/internal/response"
	"github.com/vasapolrittideah/stories-api/internal/usecase"
)

const maxMultipartMemory = 8 << 20

func (h *httpHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	users, err := h.Users.ListUsers(r.Context(), page)
	if err != nil {
		h.handleError(w, r, err, "failed to list users")
		return
	}

	response.OK(w, http.StatusOK, "Data found", payload.NewUserResponses(users))
}

func (h *httpHandler) searchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.Error(w, http.StatusBadRequest, "q is a required query parameter")
		return
	}

	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	users, err := h.Users.SearchUsers(r.Context(), query, page)
	if err != nil {
		h.handleError(w, r, err, "failed to search users")
		return
	}

	response.OK(w, http.StatusOK, "Data found", payload.NewUserResponses(users))
}

func (h *httpHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err, "failed to get user")
		return
	}

	response.OK(w, http.StatusOK, "User found", payload.NewUserResponse(user))
}

func (h *httpHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateUserRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	user, err := h.Users.UpdateUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), usecase.UpdateUserParams{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Role:   req.Role,
	})
	if err != nil {
		h.handleError(w, r, err, "failed to update user")
		return
	}

	response.OK(w, http.StatusOK, "Profile updated", payload.NewUserResponse(user))
}

func (h *httpHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.DeleteUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err, "failed to delete user")
		return
	}

	response.OK(w, http.StatusOK, "User deleted", nil)
}

func (h *httpHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Users.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err, "failed to get profile")
		return
	}

	response.OK(w, http.StatusOK, "Profile found", payload.NewProfileResponse(profile))
}

func (h *httpHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	req := payload.UpdateProfileRequest{
		Bio:           r.FormValue("bio"),
		ContactNumber: r.FormValue("contactNumber"),
		HashTags:      formValues(r, "hashTags"),
	}
	if !h.validate(w, &req) {
		return
	}

	picture, ok := h.formFile(w, r, "profilePicture")
	if !ok {
		return
	}
	params := usecase.UpdateProfileParams{
		Bio:           formValuePtr(r, "bio"),
		ContactNumber: formValuePtr(r, "contactNumber"),
		HashTags:      req.HashTags,
	}
	if picture != nil {
		defer picture.Close()
		params.Picture = picture
	}

	profile, err := h.Users.UpdateProfile(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), params)
	if err != nil {
		h.handleError(w, r, err, "failed to update profile")
		return
	}

	response.OK(w, http.StatusOK, "Profile updated successfully.", payload.NewProfileResponse(profile))
}

func (h *httpHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+maxMultipartMemory)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusBadRequest, "File too large")
			return false
		}
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}

	return true
}

// formFile returns the named upload, or nil when the field is absent.
func (h *httpHandler) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, bool) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		response.Error(w, http.StatusBadRequest, "invalid "+field+" upload")
		return nil, false
	}

	return file, true
}

func formValues(r *http.Request, key string) []string {
	if r.MultipartForm == nil {
		return nil
	}

	values := append([]string{}, r.MultipartForm.Value[key]...)
	values = append(values, r.MultipartForm.Value[key+"[]"]...)
	if len(values) == 0 {
		return nil
	}
	return values
}

func formValuePtr(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}
