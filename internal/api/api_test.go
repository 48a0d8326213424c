// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alvinbaena/safekey/pkg/analyzer"
	"github.com/alvinbaena/safekey/pkg/hibp"
	"github.com/alvinbaena/safekey/pkg/strength"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChecker struct {
	result hibp.Result
	err    error
}

func (f *fakeChecker) Lookup(_ context.Context, _ string) (hibp.Result, error) {
	return f.result, f.err
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(_ context.Context, _ string) (*analyzer.Report, error) {
	return nil, analyzer.ErrInternal
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(_ context.Context, _ string) (*analyzer.Report, error) {
	panic("boom")
}

type fakeStats struct{}

func (fakeStats) Stats() hibp.Stats {
	return hibp.Stats{Requests: 7}
}

func newTestRouter(checker analyzer.BreachChecker) *gin.Engine {
	a := analyzer.New(strength.DefaultPolicy(), checker)
	return NewRouter(a, fakeStats{}, []string{"*"})
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyze_OK(t *testing.T) {
	router := newTestRouter(&fakeChecker{result: hibp.Result{Breached: true, Count: 3861493}})

	for _, path := range []string{"/analyze", "/v1/analyze"} {
		w := post(router, path, `{"password":"password"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d, want 200: %s", path, w.Code, w.Body.String())
		}
		if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
			t.Errorf("%s: reports should not be cached, Cache-Control: %q", path, cc)
		}

		var body struct {
			Strength struct {
				Entropy float64         `json:"entropy"`
				Score   int             `json:"score"`
				Level   string          `json:"level"`
				Checks  map[string]bool `json:"checks"`
			} `json:"password_strength"`
			Breach struct {
				Status   string `json:"status"`
				Breached *bool  `json:"breached"`
				Count    *int64 `json:"count"`
			} `json:"breach_data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Should not fail unmarshalling: %s", err)
		}

		if body.Strength.Entropy != 37.6 || body.Strength.Level != "Weak" || len(body.Strength.Checks) != 6 {
			t.Errorf("Unexpected strength: %+v", body.Strength)
		}
		if body.Breach.Status != "found" || body.Breach.Breached == nil || !*body.Breach.Breached ||
			body.Breach.Count == nil || *body.Breach.Count != 3861493 {
			t.Errorf("Unexpected breach data: %s", w.Body.String())
		}
		if strings.Contains(w.Body.String(), `"password"`) {
			t.Errorf("Response should not contain the password: %s", w.Body.String())
		}
	}
}

func TestAnalyze_BreachUnavailable(t *testing.T) {
	router := newTestRouter(&fakeChecker{err: &hibp.UnavailableError{Reason: hibp.ReasonTimeout}})

	w := post(router, "/v1/analyze", `{"password":"Tr0ub4dor&3xyz!"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status %d, want 200: %s", w.Code, w.Body.String())
	}

	var body map[string]map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Should not fail unmarshalling: %s", err)
	}
	if body["breach_data"]["status"] != "unavailable" {
		t.Errorf("Breach should be unavailable: %s", w.Body.String())
	}
	if _, ok := body["breach_data"]["breached"]; ok {
		t.Errorf("Unavailable should not be reported as breached=false: %s", w.Body.String())
	}
	if body["password_strength"]["level"] != "Very Strong" {
		t.Errorf("Strength should still be reported: %s", w.Body.String())
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	router := newTestRouter(&fakeChecker{})

	for _, body := range []string{
		`{"password":""}`,
		`{}`,
		`{"password": 42}`,
		`{"password": "unterminated`,
		``,
		`["password"]`,
	} {
		w := post(router, "/v1/analyze", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Body %q: status %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"error"`) {
			t.Errorf("Body %q: response should carry an error: %s", body, w.Body.String())
		}
		if strings.Contains(w.Body.String(), "unterminated") {
			t.Errorf("Body %q: error should not echo the input: %s", body, w.Body.String())
		}
	}
}

func TestAnalyze_TooLong(t *testing.T) {
	router := newTestRouter(&fakeChecker{})

	w := post(router, "/v1/analyze", `{"password":"`+strings.Repeat("a", analyzer.DefaultMaxLength+1)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Status %d, want 400", w.Code)
	}
}

func TestAnalyze_InternalError(t *testing.T) {
	for name, a := range map[string]Analyzer{"error": failingAnalyzer{}, "panic": panickingAnalyzer{}} {
		router := NewRouter(a, nil, nil)

		w := post(router, "/v1/analyze", `{"password":"hunter2"}`)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status %d, want 500", name, w.Code)
		}
		if w.Body.String() != `{"error":"internal error"}` {
			t.Errorf("%s: unexpected body: %s", name, w.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeChecker{})

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status %d, want 200", w.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Should not fail unmarshalling: %s", err)
	}
	if body.Status != "ok" || body.BreachClient == nil || body.BreachClient.Requests != 7 {
		t.Errorf("Unexpected health: %s", w.Body.String())
	}
}

func TestCors_Preflight(t *testing.T) {
	router := NewRouter(analyzer.New(strength.DefaultPolicy(), nil), nil, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Preflight status %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allowed origin: %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Unknown origin status %d, want 403", w.Code)
	}
}
