package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"policyrelay/internal/metrics"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const APIVersion = "v1beta"

var tracer = otel.Tracer("policyrelay/internal/gemini")

// Response is the raw outcome of a generateContent call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client for interacting with the Gemini API.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Model      string
	Log        *logrus.Logger
}

// NewClient creates a new Gemini API client. baseURL is the API origin,
// without the version segment.
func NewClient(baseURL, model string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Log:     logger,
	}
}

// Endpoint returns the generateContent URL for apiKey.
func (c *Client) Endpoint(apiKey string) string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		c.BaseURL, APIVersion, url.PathEscape(c.Model), url.QueryEscape(apiKey))
}

// GenerateContent sends a generateContent request and returns the status code
// and raw body whatever the status. An error means no complete response was
// received.
func (c *Client) GenerateContent(ctx context.Context, apiKey string, request *GenerateContentRequest) (*Response, error) {
	ctx, span := tracer.Start(ctx, "gemini.generateContent")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", c.Model))

	resp, err := c.generateContent(ctx, apiKey, request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}

func (c *Client) generateContent(ctx context.Context, apiKey string, request *GenerateContentRequest) (*Response, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	c.Log.Debugf("Gemini API Request: %s", requestBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(apiKey), bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(c.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.Model, "error").Inc()
		return nil, fmt.Errorf("failed to send request: %w", redactKey(err, apiKey))
	}
	defer resp.Body.Close()

	metrics.ProviderRequestsTotal.WithLabelValues(c.Model, strconv.Itoa(resp.StatusCode)).Inc()
	c.Log.Debugf("Gemini API Response Status: %d", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	c.Log.Debugf("Gemini API Response Body: %s", respBody)

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// redactKey strips the API key from errors that embed the request URL, since
// the error text ends up in the browser.
func redactKey(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	msg := err.Error()
	escaped := url.QueryEscape(apiKey)
	if !strings.Contains(msg, escaped) && !strings.Contains(msg, apiKey) {
		return err
	}
	msg = strings.ReplaceAll(msg, escaped, "REDACTED")
	msg = strings.ReplaceAll(msg, apiKey, "REDACTED")
	return redactedError{msg: msg, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.err }
