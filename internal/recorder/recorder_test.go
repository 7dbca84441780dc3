package recorder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/database"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchDay = time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

func winnerPtr(w club.Winner) *club.Winner { return &w }

func newTestRecorder(store Store) (*Recorder, *metrics.Mock, *pubsub.MockPubSubClient) {
	metr := metrics.NewMock()
	ps := pubsub.NewMock()
	return New(store, metr, ps, clockwork.NewFakeClockAt(matchDay)), metr, ps
}

func TestDeriveWinner(t *testing.T) {
	assert.Equal(t, club.WinnerTeamA, DeriveWinner(3, 1))
	assert.Equal(t, club.WinnerDraw, DeriveWinner(2, 2))
	assert.Equal(t, club.WinnerTeamB, DeriveWinner(0, 5))
	assert.Equal(t, club.WinnerDraw, DeriveWinner(0, 0))
}

func TestRecordMatch_Success(t *testing.T) {
	store := club.NewMock()
	r, metr, ps := newTestRecorder(store)

	match, err := r.RecordMatch(context.Background(), RecordRequest{
		TeamAIDs:   []string{"a1", "a2"},
		TeamBIDs:   []string{"b1", "b2"},
		TeamAScore: intPtr(3),
		TeamBScore: intPtr(1),
		Winner:     winnerPtr(club.WinnerTeamA),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, match.ID)
	assert.Equal(t, club.WinnerTeamA, match.Winner)
	assert.Equal(t, matchDay, match.Date)
	require.Len(t, store.RecordMatchCalls, 1)
	assert.Same(t, match, store.RecordMatchCalls[0])

	require.Len(t, ps.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventMatchRecorded, ps.SendMessageCalls[0].Topic)
	event, ok := ps.SendMessageCalls[0].Data.(pubsub.MatchRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, match.ID, event.MatchID)
	assert.Equal(t, "teamA", event.Winner)

	assert.Equal(t, 1, metr.MatchesRecorded())
	assert.Equal(t, 0, metr.MatchRecordFailed())
	assert.Len(t, metr.RecordDurations(), 1)
}

func TestRecordMatch_AcceptsMatchingWinner(t *testing.T) {
	r, _, _ := newTestRecorder(club.NewMock())

	match, err := r.RecordMatch(context.Background(), RecordRequest{
		TeamAIDs:   []string{"a1"},
		TeamBIDs:   []string{"b1"},
		TeamAScore: intPtr(2),
		TeamBScore: intPtr(2),
		Winner:     winnerPtr(club.WinnerDraw),
	})
	require.NoError(t, err)
	assert.Equal(t, club.WinnerDraw, match.Winner)
}

func TestRecordMatch_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  RecordRequest
	}{
		{
			name: "missing team A",
			req:  RecordRequest{TeamBIDs: []string{"b1"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0)},
		},
		{
			name: "missing team B",
			req:  RecordRequest{TeamAIDs: []string{"a1"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0)},
		},
		{
			name: "missing score",
			req:  RecordRequest{TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(1)},
		},
		{
			name: "negative score",
			req:  RecordRequest{TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(-1), TeamBScore: intPtr(0)},
		},
		{
			name: "player on both teams",
			req:  RecordRequest{TeamAIDs: []string{"a1", "x"}, TeamBIDs: []string{"b1", "x"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0)},
		},
		{
			name: "duplicate player in one team",
			req:  RecordRequest{TeamAIDs: []string{"a1", "a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0)},
		},
		{
			name: "empty player id",
			req:  RecordRequest{TeamAIDs: []string{""}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0)},
		},
		{
			name: "missing winner",
			req:  RecordRequest{TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(3), TeamBScore: intPtr(1)},
		},
		{
			name: "winner contradicts score",
			req:  RecordRequest{TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(3), TeamBScore: intPtr(1), Winner: winnerPtr(club.WinnerTeamB)},
		},
		{
			name: "unknown winner label",
			req:  RecordRequest{TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(3), TeamBScore: intPtr(1), Winner: winnerPtr("teamC")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := club.NewMock()
			r, metr, ps := newTestRecorder(store)

			match, err := r.RecordMatch(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Nil(t, match)
			assert.Empty(t, store.RecordMatchCalls, "nothing should reach the store")
			assert.Empty(t, ps.SendMessageCalls)
			assert.Equal(t, 1, metr.MatchRecordFailed())
		})
	}
}

func TestRecordMatch_UnknownPlayerIsInvalidRequest(t *testing.T) {
	store := club.NewMock()
	store.RecordMatchFunc = func(match *club.Match) error {
		return fmt.Errorf("%w: ghost", club.ErrPlayerNotFound)
	}
	r, _, ps := newTestRecorder(store)

	_, err := r.RecordMatch(context.Background(), RecordRequest{
		TeamAIDs: []string{"a1"}, TeamBIDs: []string{"ghost"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0),
		Winner: winnerPtr(club.WinnerTeamA),
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, ps.SendMessageCalls)
}

func TestRecordMatch_StorageFailure(t *testing.T) {
	store := club.NewMock()
	store.RecordMatchFunc = func(match *club.Match) error {
		return fmt.Errorf("%w: connection reset", club.ErrStorageUnavailable)
	}
	r, metr, ps := newTestRecorder(store)

	_, err := r.RecordMatch(context.Background(), RecordRequest{
		TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0),
		Winner: winnerPtr(club.WinnerTeamA),
	})
	assert.ErrorIs(t, err, club.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, ps.SendMessageCalls)
	assert.Equal(t, 1, metr.MatchRecordFailed())
}

func TestRecordMatch_PublishFailureDoesNotFailRecording(t *testing.T) {
	r, metr, ps := newTestRecorder(club.NewMock())
	ps.SendMessageFunc = func(topic pubsub.EventType, data any) error {
		return errors.New("topic not found")
	}

	match, err := r.RecordMatch(context.Background(), RecordRequest{
		TeamAIDs: []string{"a1"}, TeamBIDs: []string{"b1"}, TeamAScore: intPtr(0), TeamBScore: intPtr(5),
		Winner: winnerPtr(club.WinnerTeamB),
	})
	require.NoError(t, err)
	assert.Equal(t, club.WinnerTeamB, match.Winner)
	assert.Equal(t, 1, metr.MatchesRecorded())
}

func TestRecordMatch_AgainstDatabase(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()

	store := club.New(db)
	var teamA, teamB []string
	for i := 0; i < 14; i++ {
		p := &club.Player{Name: fmt.Sprintf("Player %02d", i), Position: club.PositionDefender, Score: 60}
		require.NoError(t, store.AddPlayer(ctx, p))
		if i < 7 {
			teamA = append(teamA, p.ID)
		} else {
			teamB = append(teamB, p.ID)
		}
	}
	r, _, _ := newTestRecorder(store)
	req := RecordRequest{TeamAIDs: teamA, TeamBIDs: teamB, TeamAScore: intPtr(4), TeamBScore: intPtr(2), Winner: winnerPtr(club.WinnerTeamA)}

	first, err := r.RecordMatch(ctx, req)
	require.NoError(t, err)
	second, err := r.RecordMatch(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	matches, err := store.GetAllMatches(ctx)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	for _, id := range teamA {
		p, err := store.GetPlayer(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Wins)
		assert.Equal(t, 2, p.TotalMatches)
		assert.Equal(t, 62, p.Score)
	}
	for _, id := range teamB {
		p, err := store.GetPlayer(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Losses)
		assert.Equal(t, 2, p.TotalMatches)
		assert.Equal(t, 58, p.Score)
	}

	// An unknown id aborts the whole recording.
	_, err = r.RecordMatch(ctx, RecordRequest{TeamAIDs: teamA, TeamBIDs: []string{"ghost"}, TeamAScore: intPtr(1), TeamBScore: intPtr(0), Winner: winnerPtr(club.WinnerTeamA)})
	require.ErrorIs(t, err, ErrInvalidRequest)
	matches, err = store.GetAllMatches(ctx)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	p, err := store.GetPlayer(ctx, teamA[0])
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalMatches)
}
