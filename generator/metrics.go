package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_engine_llm_requests_total",
			Help: "Total number of model calls by stage and outcome.",
		},
		[]string{"stage", "status"},
	)
	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_engine_llm_request_duration_seconds",
			Help:    "Duration of model calls.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"stage"},
	)
	storyWords = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_engine_story_words",
			Help:    "Word count of stories returned by each stage.",
			Buckets: prometheus.LinearBuckets(100, 100, 12), // 100 .. 1200
		},
		[]string{"stage"},
	)
	storiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_engine_stories_total",
			Help: "Stories generated, by category.",
		},
		[]string{"category"},
	)
)
