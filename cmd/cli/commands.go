package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mauv0809/seven-a-side/internal/auth"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/recorder"
	"github.com/spf13/cobra"
)

var (
	teamPlayers string
	teamA       string
	teamB       string
	scoreA      int
	scoreB      int
	winner      string
	announce    bool
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(hashPasswordCmd)

	teamsCmd.Flags().StringVar(&teamPlayers, "players", "", "Comma separated ids of the 14 selected players")
	teamsCmd.Flags().BoolVar(&announce, "announce", false, "Post the teams to Slack")
	teamsCmd.MarkFlagRequired("players")

	recordCmd.Flags().StringVar(&teamA, "team-a", "", "Comma separated player ids of team A")
	recordCmd.Flags().StringVar(&teamB, "team-b", "", "Comma separated player ids of team B")
	recordCmd.Flags().IntVar(&scoreA, "score-a", 0, "Goals scored by team A")
	recordCmd.Flags().IntVar(&scoreB, "score-b", 0, "Goals scored by team B")
	recordCmd.Flags().StringVar(&winner, "winner", "", "teamA, teamB or draw (derived from the score when omitted)")
	recordCmd.MarkFlagRequired("team-a")
	recordCmd.MarkFlagRequired("team-b")
	recordCmd.MarkFlagRequired("score-a")
	recordCmd.MarkFlagRequired("score-b")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/matches")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the player leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/leaderboard")
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show players, recent matches and the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/overview")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Split 14 selected players into two balanced teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/teams"
		if announce {
			endpoint += "?announce=true"
		}
		return performRequest(http.MethodPost, endpoint, map[string]any{"playerIds": splitIDs(teamPlayers)})
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the result of a match (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/match", recordPayload())
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash to use as ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func recordPayload() map[string]any {
	w := club.Winner(winner)
	if w == "" {
		w = recorder.DeriveWinner(scoreA, scoreB)
	}
	return map[string]any{
		"teamAIds":   splitIDs(teamA),
		"teamBIds":   splitIDs(teamB),
		"teamAScore": scoreA,
		"teamBScore": scoreB,
		"winner":     w,
	}
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performRequest(method, endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.SetBasicAuth(username, password)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
