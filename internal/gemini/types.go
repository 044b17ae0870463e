package gemini

// Part represents a part in Gemini's content.
type Part struct {
	Text string `json:"text"`
}

// Content represents a content block in a generateContent request.
type Content struct {
	Parts []Part `json:"parts"`
}

// GoogleSearch enables server-side search grounding. It has no options.
type GoogleSearch struct{}

// Tool represents a tool entry in a generateContent request.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"google_search,omitempty"`
}

// GenerateContentRequest represents the outgoing request format for
// models/{model}:generateContent.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
	Tools    []Tool    `json:"tools,omitempty"`
}

// NewGroundedRequest wraps a single prompt with the Google Search tool enabled.
func NewGroundedRequest(prompt string) *GenerateContentRequest {
	return &GenerateContentRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		Tools:    []Tool{{GoogleSearch: &GoogleSearch{}}},
	}
}

// CandidatePart represents a part in a response candidate. Text is nil when
// the provider omitted it or sent null.
type CandidatePart struct {
	Text *string `json:"text"`
}

// CandidateContent represents a content block in a response candidate.
type CandidateContent struct {
	Parts []CandidatePart `json:"parts"`
}

// Candidate is one generated response option.
type Candidate struct {
	Content *CandidateContent `json:"content"`
}

// GenerateContentResponse represents the incoming response format from
// generateContent. Only the fields the relay reads are declared, so a change
// in any other field cannot fail decoding.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}
