package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/matchmaking"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/notifier"
)

// BalanceRequest is the selection of players to split into two teams.
type BalanceRequest struct {
	PlayerIDs []string `json:"playerIds"`
}

// BalanceTeamsHandler loads the selected players and splits them into two teams.
// With ?announce=true the line-ups are posted to Slack as well.
func BalanceTeamsHandler(store club.ClubStore, notifier notifier.Notifier, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BalanceRequest
		if err := readJSON(w, r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		if len(req.PlayerIDs) != matchmaking.SelectionSize {
			respondWithError(w, matchmaking.ErrInvalidInputSize)
			return
		}
		seen := make(map[string]bool, len(req.PlayerIDs))
		for _, id := range req.PlayerIDs {
			if seen[id] {
				respondWithError(w, badRequest("player %s is selected more than once", id))
				return
			}
			seen[id] = true
		}

		found, err := store.GetPlayers(r.Context(), req.PlayerIDs)
		if err != nil {
			respondWithError(w, err)
			return
		}
		byID := make(map[string]club.Player, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		// Keep the selection order so ties are broken the way the caller listed them.
		selection := make([]club.Player, 0, len(req.PlayerIDs))
		for _, id := range req.PlayerIDs {
			p, ok := byID[id]
			if !ok {
				errorResponse(w, http.StatusNotFound, "player not found: "+id)
				return
			}
			selection = append(selection, p)
		}

		partition, err := matchmaking.Balance(selection)
		if err != nil {
			respondWithError(w, err)
			return
		}
		metrics.IncTeamsBalanced()

		if r.URL.Query().Get("announce") == "true" {
			if err := notifier.SendTeams(partition, IsDryRunFromContext(r)); err != nil {
				log.Error("Failed to announce teams", "error", err)
			}
		}
		writeJSON(w, http.StatusOK, partition)
	}
}
