package handlers

import (
	"context"
	"net/http"

	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/recorder"
)

// MatchRecorder records validated match results.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, req recorder.RecordRequest) (*club.Match, error)
}

func RecordMatchHandler(rec MatchRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recorder.RecordRequest
		if err := readJSON(w, r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		match, err := rec.RecordMatch(r.Context(), req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"matchId": match.ID,
			"winner":  match.Winner,
		})
	}
}

func ListMatchesHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.GetAllMatches(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}
