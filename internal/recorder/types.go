package recorder

import (
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
)

// ErrInvalidRequest is returned for any malformed match submission. Nothing is
// stored when it is returned.
var ErrInvalidRequest = errors.New("invalid match request")

// Recorder validates finished matches and hands them to the store.
type Recorder struct {
	store   Store
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
	clock   clockwork.Clock
}

// RecordRequest is a match result as submitted by an admin. Scores are
// pointers so a missing score can be told apart from zero.
type RecordRequest struct {
	TeamAIDs   []string     `json:"teamAIds"`
	TeamBIDs   []string     `json:"teamBIds"`
	TeamAScore *int         `json:"teamAScore"`
	TeamBScore *int         `json:"teamBScore"`
	Winner     *club.Winner `json:"winner"`
}
