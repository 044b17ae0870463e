// Package relay turns a topic into cleaned analysis text by way of a single
// grounded generateContent call. Every failure is reported as readable text
// rather than an error, since the result is shown to the user verbatim.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"policyrelay/internal/gemini"
	"policyrelay/internal/metrics"
	"policyrelay/internal/prompt"

	"github.com/sirupsen/logrus"
)

// StartMarker is the section-one heading the cleanup looks for. It has no
// space after "##", unlike the heading the prompt asks for; the mismatch is
// kept as-is.
const StartMarker = "##I. Hiện trạng"

// Messages returned in place of analysis text.
const (
	MsgNoCandidates = "Không tìm thấy kết quả nào (có thể do bộ lọc an toàn)."
	MsgNoText       = "AI không trả lời văn bản."
	MsgFormatError  = "Lỗi định dạng văn bản."

	providerErrorFormat = "Lỗi từ Google (%d): %s"
	decodeErrorFormat   = "Lỗi đọc dữ liệu: %s"
	networkErrorFormat  = "Lỗi kết nối mạng: %s"
)

var errNullBody = errors.New("response body is null, expected a JSON object")

// Generator is the provider call the relay depends on.
type Generator interface {
	GenerateContent(ctx context.Context, apiKey string, request *gemini.GenerateContentRequest) (*gemini.Response, error)
}

// Service relays analysis requests to the provider.
type Service struct {
	Generator Generator
	Keys      *gemini.KeyRotator
	Log       *logrus.Logger
}

// NewService creates a new relay Service.
func NewService(generator Generator, keys *gemini.KeyRotator, logger *logrus.Logger) *Service {
	return &Service{
		Generator: generator,
		Keys:      keys,
		Log:       logger,
	}
}

// FetchAnalysis builds the prompt for topic, sends it and returns the cleaned
// reply, or a diagnostic message describing what went wrong.
func (s *Service) FetchAnalysis(ctx context.Context, topic string) string {
	text, outcome := s.fetch(ctx, topic)
	metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
	return text
}

func (s *Service) fetch(ctx context.Context, topic string) (string, string) {
	request := gemini.NewGroundedRequest(prompt.Build(topic))

	resp, err := s.Generator.GenerateContent(ctx, s.Keys.Next(), request)
	if err != nil {
		s.Log.WithError(err).Warn("Gemini request failed")
		return fmt.Sprintf(networkErrorFormat, err), metrics.OutcomeNetworkError
	}

	if resp.StatusCode != http.StatusOK {
		s.Log.WithField("status", resp.StatusCode).Warn("Gemini returned non-200 status")
		return fmt.Sprintf(providerErrorFormat, resp.StatusCode, resp.Body), metrics.OutcomeProviderError
	}

	return Extract(resp.Body)
}

// Extract reads the first candidate's text out of a generateContent response
// body and cleans it. The second return value is the outcome label.
func Extract(body []byte) (string, string) {
	var data *gemini.GenerateContentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Sprintf(decodeErrorFormat, err), metrics.OutcomeDecodeError
		}
		return fmt.Sprintf(networkErrorFormat, err), metrics.OutcomeNetworkError
	}
	// A literal null body is not an object and has no candidates to look at.
	if data == nil {
		return fmt.Sprintf(decodeErrorFormat, errNullBody), metrics.OutcomeDecodeError
	}

	if len(data.Candidates) == 0 {
		return MsgNoCandidates, metrics.OutcomeNoCandidates
	}

	content := data.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return MsgNoText, metrics.OutcomeNoParts
	}

	raw := content.Parts[0].Text
	if raw == nil {
		return Clean(MsgFormatError), metrics.OutcomeMissingText
	}

	return Clean(*raw), metrics.OutcomeOK
}

// Clean drops anything before the first StartMarker and trims surrounding
// whitespace. Without a marker only the trim applies.
func Clean(raw string) string {
	if _, after, found := strings.Cut(raw, StartMarker); found {
		return strings.TrimSpace(StartMarker + after)
	}
	return strings.TrimSpace(raw)
}
