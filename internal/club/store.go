package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const playerColumns = "id, name, position, description, image, score, wins, losses, draws, total_matches"

// One fixed statement per outcome; the counter column is never built from input.
const (
	recordWinQuery  = `UPDATE players SET wins = wins + 1, total_matches = total_matches + 1, score = score + 1 WHERE id = ?`
	recordLossQuery = `UPDATE players SET losses = losses + 1, total_matches = total_matches + 1, score = score - 1 WHERE id = ?`
	recordDrawQuery = `UPDATE players SET draws = draws + 1, total_matches = total_matches + 1 WHERE id = ?`
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return NewWithClock(db, clockwork.NewRealClock())
}

// NewWithClock creates a ClubStore that stamps new players with the given clock.
func NewWithClock(db *sql.DB, clock clockwork.Clock) ClubStore {
	return &store{
		db:    db,
		clock: clock,
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

// AddPlayer inserts a new roster entry. Statistic counters always start at zero.
func (s *store) AddPlayer(ctx context.Context, player *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player.ID == "" {
		player.ID = uuid.New().String()
	}
	player.Wins, player.Losses, player.Draws, player.TotalMatches = 0, 0, 0, 0

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, position, description, image, score, wins, losses, draws, total_matches, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, 0, ?)
	`, player.ID, player.Name, string(player.Position), player.Description, player.Image, player.Score, s.clock.Now().Unix())
	if err != nil {
		return storageError("failed to add player", err)
	}
	log.Info("Added player to the roster", "playerID", player.ID, "name", player.Name, "score", player.Score)
	return nil
}

// UpdatePlayer changes the display metadata of a player. Score and counters are left alone.
func (s *store) UpdatePlayer(ctx context.Context, player *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET name = ?, position = ?, description = ?, image = ? WHERE id = ?
	`, player.Name, string(player.Position), player.Description, player.Image, player.ID)
	if err != nil {
		return storageError("failed to update player", err)
	}
	if err := expectOneRow(res, player.ID); err != nil {
		return err
	}
	log.Info("Updated player", "playerID", player.ID, "name", player.Name)
	return nil
}

func (s *store) UpdatePlayerImage(ctx context.Context, playerID, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE players SET image = ? WHERE id = ?", image, playerID)
	if err != nil {
		return storageError("failed to update player image", err)
	}
	return expectOneRow(res, playerID)
}

func (s *store) DeletePlayer(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		return storageError("failed to delete player", err)
	}
	if err := expectOneRow(res, playerID); err != nil {
		return err
	}
	log.Info("Removed player from the roster", "playerID", playerID)
	return nil
}

func expectOneRow(res sql.Result, playerID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("failed to get rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}

func (s *store) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+playerColumns+" FROM players WHERE id = ?", playerID)
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return nil, storageError("failed to get player", err)
	}
	return player, nil
}

func (s *store) GetAllPlayers(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryPlayers(ctx, "SELECT "+playerColumns+" FROM players ORDER BY name")
}

// GetPlayers returns the players with the given ids. Unknown ids are skipped and
// the result is in name order, not in the order of playerIDs.
func (s *store) GetPlayers(ctx context.Context, playerIDs []string) ([]Player, error) {
	if len(playerIDs) == 0 {
		return []Player{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	query := "SELECT " + playerColumns + " FROM players WHERE id IN (" + placeholders + ") ORDER BY name"
	return s.queryPlayers(ctx, query, ToAnySlice(playerIDs)...)
}

// GetPlayerStats returns the leaderboard, best score first.
func (s *store) GetPlayerStats(ctx context.Context) ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players, err := s.queryPlayers(ctx, "SELECT "+playerColumns+" FROM players ORDER BY score DESC, wins DESC, name ASC")
	if err != nil {
		return nil, err
	}
	stats := make([]PlayerStats, 0, len(players))
	for _, p := range players {
		stat := PlayerStats{Player: p}
		if p.TotalMatches > 0 {
			stat.WinPercentage = (float64(p.Wins) / float64(p.TotalMatches)) * 100
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (s *store) queryPlayers(ctx context.Context, query string, args ...any) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, storageError("failed to query players", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, storageError("failed to scan player row", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate players", err)
	}
	return players, nil
}

// scanPlayer is a helper function to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var position string
	err := scanner.Scan(&p.ID, &p.Name, &position, &p.Description, &p.Image, &p.Score, &p.Wins, &p.Losses, &p.Draws, &p.TotalMatches)
	if err != nil {
		return nil, err
	}
	p.Position = Position(position)
	return &p, nil
}

// RecordMatch inserts the match and updates the statistics of every player on
// both rosters. Either all of it is committed or none of it is.
func (s *store) RecordMatch(ctx context.Context, match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamAJSON, err := json.Marshal(match.TeamAPlayers)
	if err != nil {
		return err
	}
	teamBJSON, err := json.Marshal(match.TeamBPlayers)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, team_a_players, team_b_players, team_a_score, team_b_score, winner, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, match.ID, string(teamAJSON), string(teamBJSON), match.TeamAScore, match.TeamBScore, string(match.Winner), match.Date.UnixMilli())
	if err != nil {
		return storageError("failed to insert match", err)
	}

	outcomeA, outcomeB := match.Winner.Outcomes()
	if err := applyOutcome(ctx, tx, match.TeamAPlayers, outcomeA); err != nil {
		return err
	}
	if err := applyOutcome(ctx, tx, match.TeamBPlayers, outcomeB); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageError("failed to commit match transaction", err)
	}
	log.Info("Recorded match", "matchID", match.ID, "winner", match.Winner, "teamAScore", match.TeamAScore, "teamBScore", match.TeamBScore)
	return nil
}

func outcomeStatement(outcome Outcome) (string, error) {
	switch outcome {
	case OutcomeWin:
		return recordWinQuery, nil
	case OutcomeLoss:
		return recordLossQuery, nil
	case OutcomeDraw:
		return recordDrawQuery, nil
	}
	return "", fmt.Errorf("unknown outcome %d", outcome)
}

func applyOutcome(ctx context.Context, tx *sql.Tx, playerIDs []string, outcome Outcome) error {
	query, err := outcomeStatement(outcome)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return storageError("failed to prepare stats statement", err)
	}
	defer stmt.Close()

	for _, playerID := range playerIDs {
		res, err := stmt.ExecContext(ctx, playerID)
		if err != nil {
			log.Error("Failed to update player stats", "error", err, "playerID", playerID, "outcome", outcome)
			return storageError("failed to update player stats", err)
		}
		if err := expectOneRow(res, playerID); err != nil {
			return err
		}
		log.Debug("Updated player stats", "playerID", playerID, "outcome", outcome)
	}
	return nil
}

// GetAllMatches retrieves all matches, newest first.
func (s *store) GetAllMatches(ctx context.Context) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_a_players, team_b_players, team_a_score, team_b_score, winner, date
		FROM matches ORDER BY date DESC, rowid DESC
	`)
	if err != nil {
		log.Error("Failed to query all matches", "error", err)
		return nil, storageError("failed to query matches", err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			return nil, storageError("failed to scan match", err)
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate matches", err)
	}
	return matches, nil
}

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var teamAJSON, teamBJSON, winner string
	var date int64

	err := scanner.Scan(&match.ID, &teamAJSON, &teamBJSON, &match.TeamAScore, &match.TeamBScore, &winner, &date)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(teamAJSON), &match.TeamAPlayers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team_a_players for match %s: %w", match.ID, err)
	}
	if err := json.Unmarshal([]byte(teamBJSON), &match.TeamBPlayers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team_b_players for match %s: %w", match.ID, err)
	}
	match.Winner = Winner(winner)
	match.Date = time.UnixMilli(date).UTC()
	return &match, nil
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
