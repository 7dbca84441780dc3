package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
)

// New creates a new Recorder.
func New(store Store, metrics metrics.Metrics, pubsub pubsub.PubSubClient, clock clockwork.Clock) *Recorder {
	return &Recorder{
		store:   store,
		pubsub:  pubsub,
		metrics: metrics,
		clock:   clock,
	}
}

// DeriveWinner returns the result label for the final score.
func DeriveWinner(teamAScore, teamBScore int) club.Winner {
	switch {
	case teamAScore > teamBScore:
		return club.WinnerTeamA
	case teamBScore > teamAScore:
		return club.WinnerTeamB
	default:
		return club.WinnerDraw
	}
}

// RecordMatch validates the request, stores the match and updates the
// statistics of every listed player in one unit. On any error nothing is stored.
func (r *Recorder) RecordMatch(ctx context.Context, req RecordRequest) (*club.Match, error) {
	startTime := r.clock.Now()
	match, err := r.recordMatch(ctx, req)
	r.metrics.ObserveRecordDuration(r.clock.Since(startTime).Seconds())
	if err != nil {
		r.metrics.IncMatchRecordFailed()
		return nil, err
	}
	r.metrics.IncMatchesRecorded()
	r.publish(match)
	return match, nil
}

func (r *Recorder) recordMatch(ctx context.Context, req RecordRequest) (*club.Match, error) {
	if err := validate(req); err != nil {
		log.Warn("Rejected match submission", "error", err)
		return nil, err
	}

	winner := DeriveWinner(*req.TeamAScore, *req.TeamBScore)
	match := &club.Match{
		ID:           uuid.New().String(),
		TeamAPlayers: append([]string(nil), req.TeamAIDs...),
		TeamBPlayers: append([]string(nil), req.TeamBIDs...),
		TeamAScore:   *req.TeamAScore,
		TeamBScore:   *req.TeamBScore,
		Winner:       winner,
		Date:         r.clock.Now().UTC().Truncate(time.Millisecond),
	}

	if err := r.store.RecordMatch(ctx, match); err != nil {
		if errors.Is(err, club.ErrPlayerNotFound) {
			log.Warn("Match references an unknown player", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		log.Error("Failed to record match", "error", err, "matchID", match.ID)
		return nil, err
	}
	return match, nil
}

func validate(req RecordRequest) error {
	if len(req.TeamAIDs) == 0 || len(req.TeamBIDs) == 0 {
		return fmt.Errorf("%w: both teams need at least one player", ErrInvalidRequest)
	}
	if req.TeamAScore == nil || req.TeamBScore == nil {
		return fmt.Errorf("%w: both team scores are required", ErrInvalidRequest)
	}
	if *req.TeamAScore < 0 || *req.TeamBScore < 0 {
		return fmt.Errorf("%w: scores cannot be negative", ErrInvalidRequest)
	}

	seen := make(map[string]bool, len(req.TeamAIDs)+len(req.TeamBIDs))
	for _, ids := range [][]string{req.TeamAIDs, req.TeamBIDs} {
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("%w: empty player id", ErrInvalidRequest)
			}
			if seen[id] {
				return fmt.Errorf("%w: player %s is listed more than once", ErrInvalidRequest, id)
			}
			seen[id] = true
		}
	}

	if req.Winner == nil {
		return fmt.Errorf("%w: winner is required", ErrInvalidRequest)
	}
	if !req.Winner.Valid() {
		return fmt.Errorf("%w: unknown winner %q", ErrInvalidRequest, *req.Winner)
	}
	if derived := DeriveWinner(*req.TeamAScore, *req.TeamBScore); *req.Winner != derived {
		return fmt.Errorf("%w: winner %s contradicts score %d-%d", ErrInvalidRequest, *req.Winner, *req.TeamAScore, *req.TeamBScore)
	}
	return nil
}

// publish announces the committed match. The match is already stored, so a
// failure here is only logged.
func (r *Recorder) publish(match *club.Match) {
	event := pubsub.MatchRecordedEvent{
		MatchID:      match.ID,
		TeamAPlayers: match.TeamAPlayers,
		TeamBPlayers: match.TeamBPlayers,
		TeamAScore:   match.TeamAScore,
		TeamBScore:   match.TeamBScore,
		Winner:       string(match.Winner),
		Date:         match.Date.UnixMilli(),
	}
	if err := r.pubsub.SendMessage(pubsub.EventMatchRecorded, event); err != nil {
		log.Error("Failed to publish match recorded event", "error", err, "matchID", match.ID)
	}
}
