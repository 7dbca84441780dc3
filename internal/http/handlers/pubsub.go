package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/notifier"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
)

// MatchRecordedHandler receives Pub/Sub pushes for recorded matches and posts
// the result to Slack.
func MatchRecordedHandler(store club.ClubStore, notifier notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var envelope pubsub.PushEnvelope
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		log.Debug("Received match recorded message", "messageID", envelope.Message.ID, "subscription", envelope.Subscription)

		var event pubsub.MatchRecordedEvent
		if err := pubsubClient.ProcessMessage(envelope.Message.Data, &event); err != nil {
			// Ack so Pub/Sub stops redelivering it.
			log.Error("Dropping undecodable match recorded message", "error", err, "messageID", envelope.Message.ID)
			w.WriteHeader(http.StatusOK)
			return
		}

		match := &club.Match{
			ID:           event.MatchID,
			TeamAPlayers: event.TeamAPlayers,
			TeamBPlayers: event.TeamBPlayers,
			TeamAScore:   event.TeamAScore,
			TeamBScore:   event.TeamBScore,
			Winner:       club.Winner(event.Winner),
			Date:         time.UnixMilli(event.Date).UTC(),
		}
		ids := append(append([]string{}, match.TeamAPlayers...), match.TeamBPlayers...)
		players, err := store.GetPlayers(r.Context(), ids)
		if err != nil {
			log.Error("Failed to load players for result notification", "error", err, "matchID", match.ID)
			http.Error(w, "Failed to load players", http.StatusInternalServerError)
			return
		}
		if err := notifier.SendMatchResult(match, players, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
			http.Error(w, "Failed to send notification", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
