package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quizzesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikiquiz_quizzes_generated_total",
		Help: "Quizzes generated and persisted.",
	})
	generationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikiquiz_generation_failures_total",
		Help: "Generation pipeline runs that surfaced an error.",
	})
	rateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikiquiz_rate_limit_rejections_total",
		Help: "Generation requests rejected by the rate limiter.",
	})
	articleCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikiquiz_article_cache_hits_total",
		Help: "Article fetches served from cache.",
	})
	articleCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikiquiz_article_cache_misses_total",
		Help: "Article fetches that went to Wikipedia.",
	})
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wikiquiz_generation_duration_seconds",
		Help:    "Wall-clock duration of quiz generation runs.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})
)
