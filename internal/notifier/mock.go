package notifier

import (
	"sync"

	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/matchmaking"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendTeamsFunc       func(partition *matchmaking.Partition, dryRun bool) error
	SendMatchResultFunc func(match *club.Match, players []club.Player, dryRun bool) error
	SendLeaderboardFunc func(stats []club.PlayerStats, dryRun bool) error

	// Call records
	SendTeamsCalls []struct {
		Partition *matchmaking.Partition
		DryRun    bool
	}
	SendMatchResultCalls []struct {
		Match   *club.Match
		Players []club.Player
		DryRun  bool
	}
	SendLeaderboardCalls [][]club.PlayerStats
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamsCalls = nil
	m.SendMatchResultCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendTeams(partition *matchmaking.Partition, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamsCalls = append(m.SendTeamsCalls, struct {
		Partition *matchmaking.Partition
		DryRun    bool
	}{partition, dryRun})
	if m.SendTeamsFunc != nil {
		return m.SendTeamsFunc(partition, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchResult(match *club.Match, players []club.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Match   *club.Match
		Players []club.Player
		DryRun  bool
	}{match, players, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, players, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(stats []club.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, stats)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(stats, dryRun)
	}
	return nil
}
