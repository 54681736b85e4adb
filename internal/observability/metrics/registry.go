// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Summarization metrics track the chunk-summarize-recombine pipeline
var (
	// DocumentsSummarizedTotal counts whole-document summarizations by status
	DocumentsSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_summarized_total",
			Help: "Total number of documents summarized",
		},
		[]string{"status"},
	)

	// ChunksPerDocument measures how many chunks a document was split into
	ChunksPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_chunks_per_document",
			Help:    "Number of chunks produced per summarized document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// ChunkSummarizationDuration measures time to summarize a single chunk
	ChunkSummarizationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chunk_summarization_duration_seconds",
			Help:    "Time taken to summarize one chunk or the recombination pass",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"stage"}, // stage: chunk, recombine
	)

	// SummarizationDuration measures time to summarize a whole document
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize a document end to end",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

// Question answering metrics
var (
	// QuestionsAnsweredTotal counts question answering requests by result
	QuestionsAnsweredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questions_answered_total",
			Help: "Total number of question answering requests",
		},
		[]string{"result"}, // result: answered, no_answer, failure
	)
)

// Extraction metrics track text extraction from uploaded documents
var (
	// ExtractionsTotal counts extraction attempts by media type and result
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_extractions_total",
			Help: "Total number of document text extractions",
		},
		[]string{"media_type", "result"}, // result: success, failure, unsupported
	)

	// ExtractedTextSize measures the extracted text size in characters
	ExtractedTextSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "document_extracted_text_characters",
			Help: "Extracted document text size in characters (Unicode runes)",
			Buckets: []float64{
				100, 400, 1600, 6400, 25600, 102400, 409600, 1638400,
			},
		},
	)
)

// Provider metrics
var (
	// LLMBreakerState is 1 for the current circuit breaker state of each provider
	// and 0 for the others
	LLMBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "llm_circuit_breaker_state",
			Help: "Circuit breaker state per model provider (1 for the current state)",
		},
		[]string{"provider", "state"}, // state: closed, half-open, open
	)
)
