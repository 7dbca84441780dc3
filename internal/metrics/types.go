package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	TeamsBalanced      prometheus.Counter
	MatchesRecorded    prometheus.Counter
	MatchRecordFailed  prometheus.Counter
	RecordDuration     prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
