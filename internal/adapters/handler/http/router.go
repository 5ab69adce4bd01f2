package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogify/api/internal/core/ports"
)

type RouterConfig struct {
	AuthService    ports.AuthService
	UserService    ports.UserService
	PostService    ports.PostService
	CommentService ports.CommentService
	SocialService  ports.SocialService
	AssistService  ports.AssistService
	MediaDir       string
	SecureCookies  bool
}

func NewHandler(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.AuthService, cfg.SecureCookies)
	userHandler := NewUserHandler(cfg.UserService)
	postHandler := NewPostHandler(cfg.PostService, cfg.CommentService)
	socialHandler := NewSocialHandler(cfg.SocialService, cfg.SecureCookies)
	assistHandler := NewAssistHandler(cfg.AssistService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Authenticate(cfg.AuthService))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/me", func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/", userHandler.Me)
			r.Put("/", userHandler.UpdateProfile)
			r.Put("/password", userHandler.ChangePassword)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Get("/{slug}", postHandler.GetBySlug)

			r.Group(func(r chi.Router) {
				r.Use(RequireUser)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
				r.Post("/{id}/comments", postHandler.CreateComment)
			})
		})

		r.Route("/social", func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/connect", socialHandler.Connect)
			r.Get("/callback", socialHandler.Callback)
			r.Post("/disable", socialHandler.Disable)
			r.Post("/test", socialHandler.Test)
		})

		r.Route("/assist", func(r chi.Router) {
			r.Use(RequireUser)
			r.Post("/draft", assistHandler.Draft)
			r.Post("/seo", assistHandler.SEO)
			r.Post("/calendar", assistHandler.Calendar)
		})
	})

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.MediaDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}
