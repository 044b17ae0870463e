package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewClient(baseURL, "gemini-flash-latest", 5*time.Second, logger)
}

func TestClient_Endpoint(t *testing.T) {
	c := newTestClient(t, "https://example.test/")
	assert.Equal(t,
		"https://example.test/v1beta/models/gemini-flash-latest:generateContent?key=a+b%26c",
		c.Endpoint("a b&c"))
}

func TestClient_GenerateContent_SendsEnvelope(t *testing.T) {
	var (
		gotPath, gotKey, gotContentType string
		gotBody                         map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.GenerateContent(context.Background(), "secret", NewGroundedRequest("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"candidates":[]}`, string(resp.Body))
	assert.Equal(t, "/v1beta/models/gemini-flash-latest:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotContentType)

	expected := map[string]any{
		"contents": []any{
			map[string]any{"parts": []any{map[string]any{"text": "hello"}}},
		},
		"tools": []any{
			map[string]any{"google_search": map[string]any{}},
		},
	}
	assert.Equal(t, expected, gotBody)
}

func TestClient_GenerateContent_NonOKIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("forbidden"))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).GenerateContent(context.Background(), "k", NewGroundedRequest("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", string(resp.Body))
}

func TestClient_GenerateContent_TransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := newTestClient(t, baseURL).GenerateContent(context.Background(), "very-secret-key", NewGroundedRequest("x"))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "very-secret-key")
}

func TestClient_GenerateContent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.HTTPClient.Timeout = 20 * time.Millisecond

	_, err := c.GenerateContent(context.Background(), "k", NewGroundedRequest("x"))
	assert.Error(t, err)
}

func TestKeyRotator(t *testing.T) {
	t.Run("round robin without blanks or duplicates", func(t *testing.T) {
		kr := NewKeyRotator([]string{"a", "", "b", "a"})
		assert.Equal(t, 2, kr.Len())
		assert.Equal(t, []string{"a", "b", "a", "b"}, []string{kr.Next(), kr.Next(), kr.Next(), kr.Next()})
	})

	t.Run("empty", func(t *testing.T) {
		kr := NewKeyRotator(nil)
		assert.Equal(t, 0, kr.Len())
		assert.Equal(t, "", kr.Next())
	})

	t.Run("concurrent use", func(t *testing.T) {
		kr := NewKeyRotator([]string{"a", "b", "c"})
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			counts = map[string]int{}
		)
		for i := 0; i < 300; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				k := kr.Next()
				mu.Lock()
				counts[k]++
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, map[string]int{"a": 100, "b": 100, "c": 100}, counts)
	})
}
