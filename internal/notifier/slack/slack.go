package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/matchmaking"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	location  *time.Location
}

// NewNotifier creates a new Notifier. Without a token, messages are only logged.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	if token == "" || channelID == "" {
		log.Warn("Slack token or channel not set, notifications are disabled")
		return NewNotifierWithAPI(nil, channelID, metrics)
	}
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		location:  loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendTeams(partition *matchmaking.Partition, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatTeams(partition), dryRun)
	return err
}

func (s *Notifier) SendMatchResult(match *club.Match, players []club.Player, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(match, players), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(stats []club.PlayerStats, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(stats), dryRun)
	return err
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

// formatTeams creates the Slack message announcing the line-ups using Block Kit.
func (s *Notifier) formatTeams(partition *matchmaking.Partition) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(":soccer: Teams are ready! :soccer:")),
	}

	teamField := func(name string, team matchmaking.Team) *slack.TextBlockObject {
		lines := make([]string, 0, len(team.Players)+1)
		lines = append(lines, fmt.Sprintf("%s (total %d, avg %.1f)", name, team.TotalScore, team.AverageScore))
		for _, p := range team.Players {
			lines = append(lines, fmt.Sprintf("• %s (%s)", p.Name, p.Position))
		}
		return plainText(strings.Join(lines, "\n"))
	}
	fields := []*slack.TextBlockObject{
		teamField("Team A", partition.TeamA),
		teamField("Team B", partition.TeamB),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	blocks = append(blocks, slack.NewContextBlock("", plainText(fmt.Sprintf("Score gap: %d", partition.ScoreGap))))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchResult creates the Slack message for a recorded result.
func (s *Notifier) formatMatchResult(match *club.Match, players []club.Player) slack.Message {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	roster := func(ids []string) string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			name, ok := names[id]
			if !ok {
				name = id
			}
			out = append(out, name)
		}
		return strings.Join(out, ", ")
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(":whistle: Full time! :whistle:")),
		slack.NewSectionBlock(plainText(fmt.Sprintf("Team A %d - %d Team B", match.TeamAScore, match.TeamBScore)), nil, nil),
	}

	var resultText string
	switch match.Winner {
	case club.WinnerTeamA:
		resultText = "Team A won! :trophy:"
	case club.WinnerTeamB:
		resultText = "Team B won! :trophy:"
	default:
		resultText = "It's a draw. :handshake:"
	}
	blocks = append(blocks, slack.NewSectionBlock(plainText(resultText), []*slack.TextBlockObject{
		plainText("Team A: " + roster(match.TeamAPlayers)),
		plainText("Team B: " + roster(match.TeamBPlayers)),
	}, nil))
	blocks = append(blocks, slack.NewContextBlock("", plainText(match.Date.In(s.location).Format("Monday 02 Jan, 15:04"))))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(stats []club.PlayerStats) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(":trophy: Player Leaderboard :trophy:")),
	}

	if len(stats) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plainText("No stats available yet. Go play some matches!"), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, stat := range stats {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = ":first_place_medal:"
		case 2:
			medal = ":second_place_medal:"
		case 3:
			medal = ":third_place_medal:"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Score: %d | Win %%: %.2f%% (%d/%d) | W-D-L: %d-%d-%d",
			rank,
			medal,
			stat.Name,
			stat.Score,
			stat.WinPercentage,
			stat.Wins,
			stat.TotalMatches,
			stat.Wins,
			stat.Draws,
			stat.Losses,
		)
		blocks = append(blocks, slack.NewSectionBlock(plainText(playerText), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
