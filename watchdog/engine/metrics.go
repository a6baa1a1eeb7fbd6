package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ingestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "watchdog_ingest_duration_sec",
	Help: "Duration of post batch ingestion",
})

var postsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchdog_posts_ingested",
	Help: "Number of posts scored during ingestion, by label",
}, []string{"label"})

var recordErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "watchdog_record_errors",
	Help: "Number of malformed or duplicate records skipped during ingestion",
})

var riskEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchdog_risk_evaluations",
	Help: "Number of token risk evaluations, by policy and resulting label",
}, []string{"policy", "label"})

var riskScores = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "watchdog_risk_score",
	Help:    "Distribution of computed token risk scores",
	Buckets: prometheus.LinearBuckets(10, 10, 10),
})

var trustRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchdog_trust_refreshes",
	Help: "Number of account trust recomputations, by trust label",
}, []string{"label"})

var narrativesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
	Name: "watchdog_narratives_discovered",
	Help: "Number of topical narratives discovered",
})

var flagsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchdog_flags_added",
	Help: "Number of review flags added, by flag",
}, []string{"flag"})

var notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchdog_notifications",
	Help: "Number of escalation notifications attempted, by outcome",
}, []string{"status"})

var executionPanics = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchdog_execution_panics",
	Help: "Number of recovered panics, by operation",
}, []string{"op"})
