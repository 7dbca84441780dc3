package matchmaking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/seven-a-side/internal/club"
)

// Balance splits exactly 14 players into two teams of seven.
//
// Players are sorted by score, highest first, keeping the input order for
// equal scores. Each player then goes to team A while it has room and its
// total is not ahead of team B, otherwise to team B. The result is
// deterministic for a given input order but is not guaranteed to be the
// partition with the smallest possible gap.
func Balance(players []club.Player) (*Partition, error) {
	if len(players) != SelectionSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidInputSize, len(players))
	}

	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b club.Player) int {
		return cmp.Compare(b.Score, a.Score)
	})

	teamA := Team{Players: make([]club.Player, 0, TeamSize)}
	teamB := Team{Players: make([]club.Player, 0, TeamSize)}
	for _, p := range sorted {
		if len(teamA.Players) < TeamSize && (teamA.TotalScore <= teamB.TotalScore || len(teamB.Players) == TeamSize) {
			teamA.Players = append(teamA.Players, p)
			teamA.TotalScore += p.Score
		} else {
			teamB.Players = append(teamB.Players, p)
			teamB.TotalScore += p.Score
		}
	}
	teamA.AverageScore = float64(teamA.TotalScore) / TeamSize
	teamB.AverageScore = float64(teamB.TotalScore) / TeamSize

	gap := teamA.TotalScore - teamB.TotalScore
	if gap < 0 {
		gap = -gap
	}
	log.Debug("Balanced teams", "teamAScore", teamA.TotalScore, "teamBScore", teamB.TotalScore, "gap", gap)

	return &Partition{TeamA: teamA, TeamB: teamB, ScoreGap: gap}, nil
}

// PlayerIDs returns the ids of the team's players in assignment order.
func (t Team) PlayerIDs() []string {
	ids := make([]string, len(t.Players))
	for i, p := range t.Players {
		ids[i] = p.ID
	}
	return ids
}
