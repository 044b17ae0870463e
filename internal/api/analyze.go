package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
)

const (
	MsgTopicRequired = "Vui lòng nhập chủ đề"
	MsgInvalidBody   = "Dữ liệu gửi lên không hợp lệ"

	maxBodyBytes = 1 << 20
)

//go:embed static/index.html
var indexHTML []byte

var analyzeSchema = mustSchema(`{
	"type": "object",
	"properties": {
		"topic": {"type": "string", "minLength": 1}
	},
	"required": ["topic"]
}`)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(err)
	}
	return schema
}

// Analyzer produces the analysis text for a topic. It never fails; problems
// are described in the returned text.
type Analyzer interface {
	FetchAnalysis(ctx context.Context, topic string) string
}

// AnalyzeAPI serves the page and the analysis endpoint.
type AnalyzeAPI struct {
	Analyzer Analyzer
	Log      *logrus.Logger
}

// NewAnalyzeAPI creates a new AnalyzeAPI instance.
func NewAnalyzeAPI(analyzer Analyzer, logger *logrus.Logger) *AnalyzeAPI {
	return &AnalyzeAPI{
		Analyzer: analyzer,
		Log:      logger,
	}
}

// Routes registers the handlers on mux.
func (api *AnalyzeAPI) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", api.IndexHandler)
	mux.HandleFunc("/analyze", api.AnalyzeHandler)
	mux.HandleFunc("/healthz", api.HealthHandler)
}

// IndexHandler serves the analysis page at "/".
func (api *AnalyzeAPI) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		w.Write(indexHTML)
	}
}

// AnalyzeHandler handles POST /analyze with a {"topic": "..."} body.
func (api *AnalyzeAPI) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, api.Log, http.StatusMethodNotAllowed, ErrorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		api.Log.Errorf("Failed to read request body: %v", err)
		writeJSON(w, api.Log, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
		return
	}

	topic, msg := parseTopic(body)
	if msg != "" {
		api.Log.Debugf("Rejected analyze request: %s", msg)
		writeJSON(w, api.Log, http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	// The provider call runs to completion even if the browser goes away.
	result := api.Analyzer.FetchAnalysis(context.WithoutCancel(r.Context()), topic)

	writeJSON(w, api.Log, http.StatusOK, AnalyzeResponse{Result: result})
}

// HealthHandler reports liveness.
func (api *AnalyzeAPI) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.Log, http.StatusOK, map[string]string{"status": "ok"})
}

// parseTopic returns the topic, or a user-facing message when the body is
// not acceptable.
func parseTopic(body []byte) (string, string) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", MsgInvalidBody
	}

	result, err := analyzeSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil || !result.Valid() {
		if _, ok := doc.(map[string]interface{}); !ok {
			return "", MsgInvalidBody
		}
		return "", MsgTopicRequired
	}

	return doc.(map[string]interface{})["topic"].(string), ""
}
