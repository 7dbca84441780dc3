package handlers

import (
	"net/http"
	"strconv"

	"github.com/mauv0809/seven-a-side/internal/club"
	"golang.org/x/sync/errgroup"
)

const defaultRecentMatches = 5

// Overview is everything the front page needs in one response.
type Overview struct {
	Players       []club.Player      `json:"players"`
	RecentMatches []club.Match       `json:"recent_matches"`
	Leaderboard   []club.PlayerStats `json:"leaderboard"`
}

// OverviewHandler loads the roster, the latest matches and the leaderboard concurrently.
// ?matches=N changes how many recent matches are included.
func OverviewHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRecentMatches
		if v := r.URL.Query().Get("matches"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				respondWithError(w, badRequest("matches must be a non-negative integer"))
				return
			}
			limit = n
		}

		var overview Overview
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			players, err := store.GetAllPlayers(ctx)
			overview.Players = players
			return err
		})
		g.Go(func() error {
			matches, err := store.GetAllMatches(ctx)
			if len(matches) > limit {
				matches = matches[:limit]
			}
			overview.RecentMatches = matches
			return err
		})
		g.Go(func() error {
			stats, err := store.GetPlayerStats(ctx)
			overview.Leaderboard = stats
			return err
		})
		if err := g.Wait(); err != nil {
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}
