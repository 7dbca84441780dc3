package club

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc         func(player *Player) error
	UpdatePlayerFunc      func(player *Player) error
	UpdatePlayerImageFunc func(playerID, image string) error
	DeletePlayerFunc      func(playerID string) error
	GetPlayerFunc         func(playerID string) (*Player, error)
	GetAllPlayersFunc     func() ([]Player, error)
	GetPlayersFunc        func(playerIDs []string) ([]Player, error)
	GetPlayerStatsFunc    func() ([]PlayerStats, error)
	RecordMatchFunc       func(match *Match) error
	GetAllMatchesFunc     func() ([]Match, error)

	// Call records
	AddPlayerCalls         []*Player
	UpdatePlayerCalls      []*Player
	UpdatePlayerImageCalls []struct {
		PlayerID string
		Image    string
	}
	DeletePlayerCalls []string
	GetPlayersCalls   [][]string
	RecordMatchCalls  []*Match
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.UpdatePlayerCalls = nil
	m.UpdatePlayerImageCalls = nil
	m.DeletePlayerCalls = nil
	m.GetPlayersCalls = nil
	m.RecordMatchCalls = nil
}

func (m *MockStore) AddPlayer(ctx context.Context, player *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, player)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(player)
	}
	return nil
}

func (m *MockStore) UpdatePlayer(ctx context.Context, player *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerCalls = append(m.UpdatePlayerCalls, player)
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(player)
	}
	return nil
}

func (m *MockStore) UpdatePlayerImage(ctx context.Context, playerID, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerImageCalls = append(m.UpdatePlayerImageCalls, struct {
		PlayerID string
		Image    string
	}{playerID, image})
	if m.UpdatePlayerImageFunc != nil {
		return m.UpdatePlayerImageFunc(playerID, image)
	}
	return nil
}

func (m *MockStore) DeletePlayer(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, playerID)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetAllPlayers(ctx context.Context) ([]Player, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return []Player{}, nil
}

func (m *MockStore) GetPlayers(ctx context.Context, playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return []Player{}, nil
}

func (m *MockStore) GetPlayerStats(ctx context.Context) ([]PlayerStats, error) {
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc()
	}
	return []PlayerStats{}, nil
}

func (m *MockStore) RecordMatch(ctx context.Context, match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, match)
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetAllMatches(ctx context.Context) ([]Match, error) {
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return []Match{}, nil
}
