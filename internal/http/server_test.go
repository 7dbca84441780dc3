package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/seven-a-side/internal/auth"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/config"
	"github.com/mauv0809/seven-a-side/internal/database"
	"github.com/mauv0809/seven-a-side/internal/matchmaking"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/notifier"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
	"github.com/mauv0809/seven-a-side/internal/recorder"
	"github.com/mauv0809/seven-a-side/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminUser     = "coach"
	testAdminPassword = "s3cret"
	testDefaultImage  = "https://img.test/default.png"
)

type testServer struct {
	*Server
	store    club.ClubStore
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
	uploader *storage.MockUploader
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	clubStore := club.New(db)
	cfg := config.Config{CORSAllowedOrigins: []string{"*"}, DefaultPlayerImage: testDefaultImage}
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	ps := pubsub.NewMock()
	notif := notifier.NewMock()
	uploader := storage.NewMock()
	rec := recorder.New(clubStore, metricsSvc, ps, clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)))

	server := NewServer(clubStore, metricsSvc, metrics.NewMetricsHandler(reg), cfg, notif, rec, auth.NewStaticVerifier(testAdminUser, string(hash)), uploader, ps)
	return &testServer{Server: server, store: clubStore, notifier: notif, pubsub: ps, uploader: uploader}
}

func (s *testServer) do(t *testing.T, method, target string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.SetBasicAuth(testAdminUser, testAdminPassword)
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

// seedPlayers adds players with scores 90, 85, ... directly through the store.
func (s *testServer) seedPlayers(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := &club.Player{Name: fmt.Sprintf("Player %02d", i), Position: club.PositionMidfielder, Score: 90 - 5*i}
		require.NoError(t, s.store.AddPlayer(context.Background(), p))
		ids = append(ids, p.ID)
	}
	return ids
}

func TestHealthCheckHandler(t *testing.T) {
	s := setupTestServer(t)
	rr := s.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestCreatePlayer(t *testing.T) {
	s := setupTestServer(t)
	input := map[string]any{"name": "Zlatan", "score": 90, "position": "Forward"}

	t.Run("requires credentials", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/players", input, false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("admin adds player with default image", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/players", input, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Success bool   `json:"success"`
			ID      string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		player, err := s.store.GetPlayer(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, testDefaultImage, player.Image)
		assert.Equal(t, "", player.Description)
		assert.Equal(t, 90, player.Score)
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, body := range []map[string]any{
			{"score": 50, "position": "Forward"},
			{"name": "No Score", "position": "Forward"},
			{"name": "No Position", "score": 50},
			{"name": "Bad Position", "score": 50, "position": "Striker"},
		} {
			rr := s.do(t, http.MethodPost, "/api/players", body, true)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "body %v", body)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/players", map[string]any{"name": "x", "score": 1, "position": "Forward", "wins": 10}, true)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPlayerCRUD(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 2)

	rr := s.do(t, http.MethodGet, "/api/players", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 2)

	rr = s.do(t, http.MethodGet, "/api/players/"+ids[0], nil, false)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/players/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPut, "/api/players/"+ids[0], map[string]any{"name": "Renamed", "position": "Goalkeeper", "image": "https://img.test/x.png"}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, club.PositionGoalkeeper, updated.Position)

	rr = s.do(t, http.MethodPut, "/api/players/"+ids[0], map[string]any{"name": "Cheater", "position": "Forward", "score": 1000}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/players/"+ids[1], nil, true)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, http.MethodDelete, "/api/players/"+ids[1], nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBalanceTeams(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 15)

	t.Run("balances fourteen players", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/teams", map[string]any{"playerIds": ids[:14]}, false)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var partition matchmaking.Partition
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &partition))
		assert.Equal(t, 405, partition.TeamA.TotalScore)
		assert.Equal(t, 400, partition.TeamB.TotalScore)
		assert.Equal(t, 5, partition.ScoreGap)
		assert.Empty(t, s.notifier.SendTeamsCalls)
	})

	t.Run("announces when asked", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/teams?announce=true&dry_run=true", map[string]any{"playerIds": ids[:14]}, false)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, s.notifier.SendTeamsCalls, 1)
		assert.True(t, s.notifier.SendTeamsCalls[0].DryRun)
	})

	t.Run("wrong selection size", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/teams", map[string]any{"playerIds": ids[:13]}, false)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		rr = s.do(t, http.MethodPost, "/api/teams", map[string]any{"playerIds": ids}, false)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate selection", func(t *testing.T) {
		dup := append(append([]string{}, ids[:13]...), ids[0])
		rr := s.do(t, http.MethodPost, "/api/teams", map[string]any{"playerIds": dup}, false)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		sel := append(append([]string{}, ids[:13]...), "ghost")
		rr := s.do(t, http.MethodPost, "/api/teams", map[string]any{"playerIds": sel}, false)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRecordMatch(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 14)
	body := map[string]any{"teamAIds": ids[:7], "teamBIds": ids[7:], "teamAScore": 3, "teamBScore": 1, "winner": "teamA"}

	t.Run("requires admin", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/match", body, false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/match", nil)
		req.SetBasicAuth(testAdminUser, "guess")
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("records and updates stats", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/match", body, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Success bool        `json:"success"`
			MatchID string      `json:"matchId"`
			Winner  club.Winner `json:"winner"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.MatchID)
		assert.Equal(t, club.WinnerTeamA, resp.Winner)

		p, err := s.store.GetPlayer(context.Background(), ids[0])
		require.NoError(t, err)
		assert.Equal(t, 1, p.Wins)
		assert.Equal(t, 91, p.Score)
		require.Len(t, s.pubsub.SendMessageCalls, 1)
	})

	t.Run("contradicting winner", func(t *testing.T) {
		bad := map[string]any{"teamAIds": ids[:7], "teamBIds": ids[7:], "teamAScore": 3, "teamBScore": 1, "winner": "teamB"}
		rr := s.do(t, http.MethodPost, "/api/match", bad, true)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing winner", func(t *testing.T) {
		bad := map[string]any{"teamAIds": ids[:7], "teamBIds": ids[7:], "teamAScore": 3, "teamBScore": 1}
		rr := s.do(t, http.MethodPost, "/api/match", bad, true)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-numeric score", func(t *testing.T) {
		bad := map[string]any{"teamAIds": ids[:7], "teamBIds": ids[7:], "teamAScore": "three", "teamBScore": 1, "winner": "teamA"}
		rr := s.do(t, http.MethodPost, "/api/match", bad, true)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		bad := map[string]any{"teamAIds": []string{"ghost"}, "teamBIds": ids[7:], "teamAScore": 0, "teamBScore": 0, "winner": "draw"}
		rr := s.do(t, http.MethodPost, "/api/match", bad, true)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	rr := s.do(t, http.MethodGet, "/api/matches", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, ids[:7], matches[0].TeamAPlayers)
}

func TestLeaderboardAndOverview(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 3)

	rr := s.do(t, http.MethodGet, "/api/leaderboard", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats []club.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.Len(t, stats, 3)
	assert.Equal(t, ids[0], stats[0].ID)

	rr = s.do(t, http.MethodGet, "/api/overview?matches=2", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var overview struct {
		Players       []club.Player      `json:"players"`
		RecentMatches []club.Match       `json:"recent_matches"`
		Leaderboard   []club.PlayerStats `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &overview))
	assert.Len(t, overview.Players, 3)
	assert.Empty(t, overview.RecentMatches)
	assert.Len(t, overview.Leaderboard, 3)

	rr = s.do(t, http.MethodGet, "/api/overview?matches=-1", nil, false)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/leaderboard/announce", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, s.notifier.SendLeaderboardCalls, 1)
	assert.Len(t, s.notifier.SendLeaderboardCalls[0], 3)
}

func TestLogin(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/login", map[string]string{"username": testAdminUser, "password": testAdminPassword}, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"role":"admin"}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/login", map[string]string{"username": "", "password": ""}, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"role":"guest"}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/login", map[string]string{"username": testAdminUser, "password": "nope"}, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStorageUnavailable(t *testing.T) {
	store := club.NewMock()
	store.GetAllPlayersFunc = func() ([]club.Player, error) {
		return nil, fmt.Errorf("%w: database is locked", club.ErrStorageUnavailable)
	}
	reg := prometheus.NewRegistry()
	server := NewServer(store, metrics.NewMock(), metrics.NewMetricsHandler(reg), config.Config{CORSAllowedOrigins: []string{"*"}}, notifier.NewMock(), nil, auth.NewStaticVerifier("a", "b"), nil, pubsub.NewMock())

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/players", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/overview", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func newImageUpload(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadPlayerImage(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 1)

	body, contentType := newImageUpload(t, "image/png", []byte("fake-png"))
	req := httptest.NewRequest(http.MethodPost, "/api/players/"+ids[0]+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, s.uploader.UploadCalls, 1)
	assert.Equal(t, []byte("fake-png"), s.uploader.UploadCalls[0].Data)
	player, err := s.store.GetPlayer(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, s.uploader.GetPublicURL(s.uploader.UploadCalls[0].Key), player.Image)

	body, contentType = newImageUpload(t, "application/pdf", []byte("%PDF"))
	req = httptest.NewRequest(http.MethodPost, "/api/players/"+ids[0]+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadPlayerImage_NotConfigured(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 1)
	server := NewServer(s.store, metrics.NewMock(), s.MetricsHandler, s.Cfg, s.notifier, s.Recorder, s.Verifier, nil, s.pubsub)

	body, contentType := newImageUpload(t, "image/png", []byte("fake-png"))
	req := httptest.NewRequest(http.MethodPost, "/api/players/"+ids[0]+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestMatchRecordedPush(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 2)

	event := pubsub.MatchRecordedEvent{
		MatchID:      "m1",
		TeamAPlayers: ids[:1],
		TeamBPlayers: ids[1:],
		TeamAScore:   2,
		TeamBScore:   2,
		Winner:       "draw",
		Date:         time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC).UnixMilli(),
	}
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)

	rr := s.do(t, http.MethodPost, "/pubsub/match-recorded", map[string]any{
		"subscription": "projects/p/subscriptions/match-recorded-push",
		"message":      map[string]any{"messageId": "1", "data": data},
	}, false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, s.notifier.SendMatchResultCalls, 1)
	call := s.notifier.SendMatchResultCalls[0]
	assert.Equal(t, "m1", call.Match.ID)
	assert.Equal(t, club.WinnerDraw, call.Match.Winner)
	assert.Len(t, call.Players, 2)

	rr = s.do(t, http.MethodPost, "/pubsub/match-recorded", "not an envelope", false)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)
	ids := s.seedPlayers(t, 14)
	rr := s.do(t, http.MethodPost, "/api/teams", map[string]any{"playerIds": ids}, false)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sevens_teams_balanced_total 1")
}

func TestDryRunIsPropagated(t *testing.T) {
	s := setupTestServer(t)
	var gotDryRun bool
	s.notifier.SendLeaderboardFunc = func(stats []club.PlayerStats, dryRun bool) error {
		gotDryRun = dryRun
		return nil
	}

	rr := s.do(t, http.MethodPost, "/api/leaderboard/announce?dry_run=true", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, s.notifier.SendLeaderboardCalls, 1)
	assert.True(t, gotDryRun)
}
