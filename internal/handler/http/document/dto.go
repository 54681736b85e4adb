package document

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// SummarizeResponse is returned by POST /summarize.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// GenerateRequest is the body of POST /generate. Prompt holds the
// "Context: ..." and "Question: ..." lines.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is returned by POST /generate. Result is empty when the
// context does not contain an answer.
type GenerateResponse struct {
	Result string `json:"result"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Text string `json:"text"`
}
