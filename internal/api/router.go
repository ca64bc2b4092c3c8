package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sublyze/backend/internal/api/handlers"
	"github.com/sublyze/backend/internal/api/middleware"
	"github.com/sublyze/backend/internal/config"
	"github.com/sublyze/backend/internal/pipeline"
	"github.com/sublyze/backend/internal/session"
)

func NewRouter(cfg *config.Config, sessions *session.Store, runner *pipeline.Runner) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	sessionHandler := handlers.NewSessionHandler(sessions, runner)
	artifactsHandler := handlers.NewArtifactsHandler(sessions, cfg.RenderPath)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Get("/languages", handlers.Languages)

		r.Route("/session", func(r chi.Router) {
			r.Post("/upload", sessionHandler.Upload)
			r.Get("/", sessionHandler.Get)

			// JSON mutation routes get a tight body limit; the upload
			// route manages its own.
			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBodySize(4 << 20))
				r.Put("/segments", sessionHandler.UpdateSegments)
				r.Put("/style", sessionHandler.UpdateStyle)
				r.Post("/translate", sessionHandler.Translate)
			})

			r.Get("/subtitles", artifactsHandler.Subtitles)
			r.Get("/video", artifactsHandler.Video)
			r.Get("/preview", artifactsHandler.Preview)
		})
	})

	return r
}
