package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/stories-api/internal/payload"
	"github.com/vasapolrittideah/stories-api/internal/response"
	"github.com/vasapolrittideah/stories-api/internal/usecase"
)

func (h *httpHandler) createStory(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	req := payload.CreateStoryRequest{
		MediaType: r.FormValue("mediaType"),
		Caption:   r.FormValue("caption"),
	}
	if raw := r.FormValue("promotionExpiry"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "promotionExpiry must be an RFC 3339 timestamp")
			return
		}
		req.PromotionExpiry = &at
	}
	if !h.validate(w, &req) {
		return
	}

	media, ok := h.formFile(w, r, "media")
	if !ok {
		return
	}
	if media == nil {
		response.Error(w, http.StatusBadRequest, "media is a required field")
		return
	}
	defer media.Close()

	story, err := h.Stories.CreateStory(r.Context(), actorFromRequest(r), usecase.CreateStoryParams{
		MediaType:       req.MediaType,
		Caption:         req.Caption,
		PromotionExpiry: req.PromotionExpiry,
		Media:           media,
	})
	if err != nil {
		h.handleError(w, r, err, "failed to create story")
		return
	}

	response.OK(w, http.StatusCreated, "Story created successfully", payload.NewStoryResponse(story))
}

func (h *httpHandler) listStories(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	stories, err := h.Stories.ListStories(r.Context(), page)
	if err != nil {
		h.handleError(w, r, err, "failed to list stories")
		return
	}

	response.OK(w, http.StatusOK, "Data found", payload.NewStoryResponses(stories))
}

func (h *httpHandler) listUserStories(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	stories, err := h.Stories.ListUserStories(r.Context(), chi.URLParam(r, "id"), page)
	if err != nil {
		h.handleError(w, r, err, "failed to list user stories")
		return
	}

	response.OK(w, http.StatusOK, "Data found", payload.NewStoryResponses(stories))
}

func (h *httpHandler) likeStory(w http.ResponseWriter, r *http.Request) {
	likes, err := h.Stories.LikeStory(r.Context(), actorFromRequest(r), chi.URLParam(r, "storyID"))
	if err != nil {
		h.handleError(w, r, err, "failed to like story")
		return
	}

	response.OK(w, http.StatusOK, "Story liked successfully", payload.LikesResponse{Likes: likes})
}

func (h *httpHandler) unlikeStory(w http.ResponseWriter, r *http.Request) {
	likes, err := h.Stories.UnlikeStory(r.Context(), actorFromRequest(r), chi.URLParam(r, "storyID"))
	if err != nil {
		h.handleError(w, r, err, "failed to unlike story")
		return
	}

	response.OK(w, http.StatusOK, "Story unliked successfully", payload.LikesResponse{Likes: likes})
}

func (h *httpHandler) promoteStory(w http.ResponseWriter, r *http.Request) {
	var req payload.PromoteStoryRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	story, err := h.Stories.PromoteStory(r.Context(), actorFromRequest(r), chi.URLParam(r, "storyID"), req.PromotionExpiry)
	if err != nil {
		h.handleError(w, r, err, "failed to promote story")
		return
	}

	response.OK(w, http.StatusOK, "Story promoted successfully", payload.NewStoryResponse(story))
}

func (h *httpHandler) deleteStory(w http.ResponseWriter, r *http.Request) {
	if err := h.Stories.DeleteStory(r.Context(), actorFromRequest(r), chi.URLParam(r, "storyID")); err != nil {
		h.handleError(w, r, err, "failed to delete story")
		return
	}

	response.OK(w, http.StatusOK, "Story deleted successfully", nil)
}
