package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/seven-a-side/internal/auth"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/config"
	"github.com/mauv0809/seven-a-side/internal/http/handlers"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/notifier"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
	"github.com/mauv0809/seven-a-side/internal/storage"
	"github.com/rs/cors"
)

// NewServer wires the handlers into a router. uploader may be nil when image
// uploads are not configured.
func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, recorder handlers.MatchRecorder, verifier auth.Verifier, uploader storage.FileUploader, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Recorder:       recorder,
		Verifier:       verifier,
		Uploader:       uploader,
		Router:         chi.NewRouter(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	r.Use(paramsMiddleware)

	r.Method(http.MethodGet, "/metrics", s.MetricsHandler)
	r.Get("/health", handlers.HealthCheckHandler())
	r.Post("/pubsub/match-recorded", handlers.MatchRecordedHandler(s.Store, s.Notifier, s.pubsub))

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate(s.Verifier))

		r.Post("/login", handlers.LoginHandler(s.Verifier))
		r.Get("/players", handlers.ListPlayersHandler(s.Store))
		r.Get("/players/{id}", handlers.GetPlayerHandler(s.Store))
		r.Post("/teams", handlers.BalanceTeamsHandler(s.Store, s.Notifier, s.Metrics))
		r.Get("/matches", handlers.ListMatchesHandler(s.Store))
		r.Get("/leaderboard", handlers.LeaderboardHandler(s.Store))
		r.Get("/overview", handlers.OverviewHandler(s.Store))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))

			r.Post("/players", handlers.CreatePlayerHandler(s.Store, s.Cfg.DefaultPlayerImage))
			r.Put("/players/{id}", handlers.UpdatePlayerHandler(s.Store, s.Cfg.DefaultPlayerImage))
			r.Delete("/players/{id}", handlers.DeletePlayerHandler(s.Store))
			r.Post("/players/{id}/image", handlers.UploadPlayerImageHandler(s.Store, s.Uploader))
			r.Post("/match", handlers.RecordMatchHandler(s.Recorder))
			r.Post("/leaderboard/announce", handlers.AnnounceLeaderboardHandler(s.Store, s.Notifier))
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
