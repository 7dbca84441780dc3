package matchmaking

import (
	"errors"

	"github.com/mauv0809/seven-a-side/internal/club"
)

const (
	// TeamSize is the number of players on each side of a seven-a-side match.
	TeamSize = 7
	// SelectionSize is the number of selected players Balance accepts.
	SelectionSize = 2 * TeamSize
)

// ErrInvalidInputSize is returned when Balance is not given exactly SelectionSize players.
var ErrInvalidInputSize = errors.New("exactly 14 players must be selected")

// Team is one side of a partition.
type Team struct {
	Players      []club.Player `json:"players"`
	TotalScore   int           `json:"total_score"`
	AverageScore float64       `json:"average_score"`
}

// Partition is the result of balancing a selection into two teams.
type Partition struct {
	TeamA    Team `json:"team_a"`
	TeamB    Team `json:"team_b"`
	ScoreGap int  `json:"score_gap"`
}
