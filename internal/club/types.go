package club

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// store handles all database operations for the club.
type store struct {
	db    *sql.DB
	mu    sync.RWMutex
	clock clockwork.Clock
}

// Position is the preferred field position of a player.
type Position string

const (
	PositionForward    Position = "Forward"
	PositionMidfielder Position = "Midfielder"
	PositionDefender   Position = "Defender"
	PositionGoalkeeper Position = "Goalkeeper"
)

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper:
		return true
	}
	return false
}

// Player is a member of the roster together with their cumulative statistics.
type Player struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Score        int      `json:"score"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	Draws        int      `json:"draws"`
	TotalMatches int      `json:"total_matches"`
}

// PlayerStats represents a player's row on the leaderboard.
type PlayerStats struct {
	Player
	WinPercentage float64 `json:"win_percentage"`
}

// Winner is the result label stored with a match.
type Winner string

const (
	WinnerTeamA Winner = "teamA"
	WinnerTeamB Winner = "teamB"
	WinnerDraw  Winner = "draw"
)

// Valid reports whether w is one of the three result labels.
func (w Winner) Valid() bool {
	return w == WinnerTeamA || w == WinnerTeamB || w == WinnerDraw
}

// Outcome is what a single team got out of a match.
type Outcome int

const (
	OutcomeWin Outcome = iota + 1
	OutcomeLoss
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeDraw:
		return "draw"
	}
	return "unknown"
}

// Outcomes returns the outcome for team A and team B.
func (w Winner) Outcomes() (teamA, teamB Outcome) {
	switch w {
	case WinnerTeamA:
		return OutcomeWin, OutcomeLoss
	case WinnerTeamB:
		return OutcomeLoss, OutcomeWin
	default:
		return OutcomeDraw, OutcomeDraw
	}
}

// Match is a recorded game. It is never mutated once stored.
type Match struct {
	ID           string    `json:"id"`
	TeamAPlayers []string  `json:"team_a_players"`
	TeamBPlayers []string  `json:"team_b_players"`
	TeamAScore   int       `json:"team_a_score"`
	TeamBScore   int       `json:"team_b_score"`
	Winner       Winner    `json:"winner"`
	Date         time.Time `json:"date"`
}
