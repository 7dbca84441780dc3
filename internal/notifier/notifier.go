package notifier

import (
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/matchmaking"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// After teams are balanced for the next match
	SendTeams(partition *matchmaking.Partition, dryRun bool) error
	// After a result is recorded. players resolves roster ids to names.
	SendMatchResult(match *club.Match, players []club.Player, dryRun bool) error
	SendLeaderboard(stats []club.PlayerStats, dryRun bool) error
}
