package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// noopClient is used when no GCP project is configured. Messages are logged and dropped.
type noopClient struct{}

// EventType represents the type of event/message sent via pubsub.
// The value doubles as the topic name.
type EventType string

const (
	EventMatchRecorded EventType = "match-recorded"
)

// MatchRecordedEvent is published after a match and its statistic updates are committed.
type MatchRecordedEvent struct {
	MatchID      string   `msgpack:"match_id"`
	TeamAPlayers []string `msgpack:"team_a_players"`
	TeamBPlayers []string `msgpack:"team_b_players"`
	TeamAScore   int      `msgpack:"team_a_score"`
	TeamBScore   int      `msgpack:"team_b_score"`
	Winner       string   `msgpack:"winner"`
	Date         int64    `msgpack:"date"`
}

// PushEnvelope is the body of a Pub/Sub push subscription request.
// Message.Data is base64 in JSON and is decoded by encoding/json into bytes.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data []byte `json:"data"`
	} `json:"message"`
}
