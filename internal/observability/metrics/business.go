package metrics

import (
	"time"
)

// Stage labels for ChunkSummarizationDuration.
const (
	StageChunk     = "chunk"
	StageRecombine = "recombine"
)

// Result labels for QuestionsAnsweredTotal.
const (
	ResultAnswered = "answered"
	ResultNoAnswer = "no_answer"
	ResultFailure  = "failure"
)

// RecordDocumentSummarized records the outcome and duration of a whole-document summarization.
func RecordDocumentSummarized(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	DocumentsSummarizedTotal.WithLabelValues(status).Inc()
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordChunkCount records how many chunks a document was split into.
func RecordChunkCount(count int) {
	ChunksPerDocument.Observe(float64(count))
}

// RecordChunkSummarized records the time a single summarization call took.
// Stage should be StageChunk or StageRecombine.
func RecordChunkSummarized(stage string, duration time.Duration) {
	ChunkSummarizationDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordQuestionAnswered records the result of a question answering request.
// Result should be one of ResultAnswered, ResultNoAnswer or ResultFailure.
func RecordQuestionAnswered(result string) {
	QuestionsAnsweredTotal.WithLabelValues(result).Inc()
}

// RecordExtractionSuccess records a successful extraction and the size of the text it produced.
//
// Example:
//
//	text, err := extractor.Extract(ctx, r)
//	if err == nil {
//	    RecordExtractionSuccess("application/pdf", utf8.RuneCountInString(text))
//	}
func RecordExtractionSuccess(mediaType string, size int) {
	ExtractionsTotal.WithLabelValues(mediaType, "success").Inc()
	ExtractedTextSize.Observe(float64(size))
}

// RecordExtractionFailed records an extraction that failed while reading the document.
func RecordExtractionFailed(mediaType string) {
	ExtractionsTotal.WithLabelValues(mediaType, "failure").Inc()
}

// RecordExtractionUnsupported records an upload rejected because of its media type.
func RecordExtractionUnsupported(mediaType string) {
	ExtractionsTotal.WithLabelValues(mediaType, "unsupported").Inc()
}

var breakerStates = []string{"closed", "half-open", "open"}

// RecordBreakerState marks state as the current circuit breaker state of provider.
func RecordBreakerState(provider, state string) {
	for _, s := range breakerStates {
		v := 0.0
		if s == state {
			v = 1
		}
		LLMBreakerState.WithLabelValues(provider, s).Set(v)
	}
}
