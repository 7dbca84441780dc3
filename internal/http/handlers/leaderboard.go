package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/notifier"
)

func LeaderboardHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GetPlayerStats(r.Context())
		if err != nil {
			log.Error("Failed to get player stats from store", "error", err)
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// AnnounceLeaderboardHandler posts the current leaderboard to Slack.
func AnnounceLeaderboardHandler(store club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GetPlayerStats(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		if err := notifier.SendLeaderboard(stats, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to send leaderboard", "error", err)
			errorResponse(w, http.StatusBadGateway, "failed to send leaderboard")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
