package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/seven-a-side/internal/auth"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/config"
	"github.com/mauv0809/seven-a-side/internal/http/handlers"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/notifier"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
	"github.com/mauv0809/seven-a-side/internal/storage"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Recorder       handlers.MatchRecorder
	Verifier       auth.Verifier
	Uploader       storage.FileUploader
	Router         chi.Router
	pubsub         pubsub.PubSubClient
}
