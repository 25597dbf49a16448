package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/vasapolrittideah/stories-api/internal/middleware"
	"github.com/vasapolrittideah/stories-api/internal/response"
)

// NewRouter wires every route. authorize guards the routes that need a bearer token.
func NewRouter(deps Dependencies, authorize func(http.Handler) http.Handler) http.Handler {
	h := &httpHandler{Dependencies: deps}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", h.healthz)

	if deps.UploadDir != "" {
		prefix := "/" + strings.Trim(filepath.ToSlash(deps.UploadDir), "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(deps.UploadDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/sign-in", h.signIn)
		r.Post("/forget-password", h.forgetPassword)
		r.Post("/verify-otp", h.verifyOTP)
		r.Post("/reset-password", h.resetPassword)

		r.Post("/create-user", h.signUp)
		r.Get("/users/{id}", h.getUser)
		r.Get("/search-user", h.searchUsers)
		r.Get("/user-profile/{id}", h.getProfile)

		r.Group(func(r chi.Router) {
			r.Use(authorize)

			r.Get("/get-user", h.listUsers)
			r.Put("/update-user/{id}", h.updateUser)
			r.Delete("/delete-user/{id}", h.deleteUser)
			r.Put("/user/profile/{id}", h.updateProfile)

			r.Route("/stories", func(r chi.Router) {
				r.Post("/", h.createStory)
				r.Get("/", h.listStories)
				r.Get("/user/{id}", h.listUserStories)
				r.Post("/{storyID}/like", h.likeStory)
				r.Post("/{storyID}/unlike", h.unlikeStory)
				r.Post("/{storyID}/promote", h.promoteStory)
				r.Delete("/{storyID}", h.deleteStory)
			})

			r.Get("/notifications", h.listNotifications)
			r.Put("/notifications/read", h.markNotificationsRead)
		})
	})

	return r
}
