package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/intent-score/internal/api/http/handlers"
	"github.com/spec-kit/intent-score/internal/observability"
	"github.com/spec-kit/intent-score/internal/repository"
	"github.com/spec-kit/intent-score/internal/scoring"
	"github.com/spec-kit/intent-score/internal/service"
	"github.com/spec-kit/intent-score/pkg/validator"
)

type halfSource struct{}

func (halfSource) Float64() float64 { return 0.5 }

type testApp struct {
	app   *fiber.App
	store *service.LeadStore
}

func newTestApp(t *testing.T, scoringURL string) *testApp {
	t.Helper()
	logger := zaptest.NewLogger(t)
	metrics := observability.NewMetrics()
	engine := scoring.NewEngine(halfSource{})
	v := validator.New()

	client := scoring.NewClient(scoring.ClientConfig{BaseURL: scoringURL}, engine, logger, scoring.WithMetrics(metrics))
	store := service.NewLeadStore(context.Background(), service.LeadStoreDependencies{
		Scorer:     client,
		Repository: repository.NewLeadRepository(repository.NewMemorySlotRepository(), "lead-storage"),
		Logger:     logger,
		Metrics:    metrics,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("intent-score-service", "test", nil, nil),
		Leads:   handlers.NewLeadsHandler(store, v),
		Scoring: handlers.NewScoringHandler(engine, v),
		Metrics: metrics,
	})
	return &testApp{app: app, store: store}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func validLead() map[string]any {
	return map[string]any{
		"phoneNumber":      "+1 555-123-4567",
		"email":            "jane@example.com",
		"creditScore":      760,
		"income":           1_200_000,
		"ageGroup":         "26-35",
		"familyBackground": "Married with Kids",
		"comments":         "",
		"consent":          true,
	}
}

func TestScoreLeadEndpoint(t *testing.T) {
	a := newTestApp(t, "")

	resp, body := a.do(t, http.MethodPost, "/api/score-lead", map[string]any{
		"creditScore":      500,
		"income":           50_000,
		"ageGroup":         "51+",
		"familyBackground": "Single",
		"comments":         "I need this urgently, looking to buy tomorrow",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 29, body["initialScore"])
	assert.EqualValues(t, 34, body["rerankedScore"])
	factors, ok := body["factors"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, factors, 4)
}

func TestScoreLeadEndpoint_ServesRemoteClient(t *testing.T) {
	remote := newTestApp(t, "")
	server := httptest.NewServer(adaptor.FiberApp(remote.app))
	defer server.Close()

	a := newTestApp(t, server.URL)
	resp, body := a.do(t, http.MethodPost, "/api/leads", validLead())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "remote", data["scoreSource"])
	assert.EqualValues(t, 100, data["initialScore"])
	assert.EqualValues(t, 100, data["rerankedScore"])
}

func TestCreateLead_FallbackWhenScorerDown(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1")

	resp, body := a.do(t, http.MethodPost, "/api/leads", validLead())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "fallback", data["scoreSource"])
	assert.EqualValues(t, 100, data["initialScore"])
	assert.Equal(t, "high", data["scoreBand"])
	assert.NotContains(t, data, "consent")
	assert.Len(t, a.store.Leads(), 1)
}

func TestCreateLead_Validation(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]any
		field string
	}{
		{name: "consent required", patch: map[string]any{"consent": false}, field: "consent"},
		{name: "credit too low", patch: map[string]any{"creditScore": 299}, field: "creditScore"},
		{name: "credit too high", patch: map[string]any{"creditScore": 851}, field: "creditScore"},
		{name: "negative income", patch: map[string]any{"income": -1}, field: "income"},
		{name: "bad email", patch: map[string]any{"email": "not-an-email"}, field: "email"},
		{name: "short phone", patch: map[string]any{"phoneNumber": "12345"}, field: "phoneNumber"},
		{name: "phone letters", patch: map[string]any{"phoneNumber": "555-CALL-NOW"}, field: "phoneNumber"},
		{name: "unknown age group", patch: map[string]any{"ageGroup": "60+"}, field: "ageGroup"},
		{name: "unknown family", patch: map[string]any{"familyBackground": "Divorced"}, field: "familyBackground"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, "")
			payload := validLead()
			for k, v := range tt.patch {
				payload[k] = v
			}

			resp, body := a.do(t, http.MethodPost, "/api/leads", payload)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			errBody := body["error"].(map[string]any)
			assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
			details := errBody["details"].(map[string]any)
			assert.Contains(t, details, tt.field)
			assert.Empty(t, a.store.Leads())
		})
	}
}

func TestCreateLead_AcceptsMarriedWithKids(t *testing.T) {
	a := newTestApp(t, "")
	resp, _ := a.do(t, http.MethodPost, "/api/leads", validLead())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestListRemoveClearLeads(t *testing.T) {
	a := newTestApp(t, "")

	low := validLead()
	low["email"] = "low@example.com"
	low["creditScore"] = 500
	low["income"] = 10_000
	low["ageGroup"] = "51+"
	low["familyBackground"] = "Single"
	_, created := a.do(t, http.MethodPost, "/api/leads", low)
	lowID := created["data"].(map[string]any)["id"].(string)
	a.do(t, http.MethodPost, "/api/leads", validLead())

	resp, body := a.do(t, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "jane@example.com", items[0].(map[string]any)["email"])
	assert.Equal(t, "cold", items[1].(map[string]any)["scoreBand"])

	_, body = a.do(t, http.MethodGet, "/api/leads?search=LOW&sort=creditScore&direction=asc", nil)
	assert.EqualValues(t, 1, body["count"])

	resp, _ = a.do(t, http.MethodGet, "/api/leads?sort=id", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = a.do(t, http.MethodGet, "/api/leads/stats", nil)
	stats := body["data"].(map[string]any)
	assert.EqualValues(t, 2, stats["total"])
	assert.EqualValues(t, 65, stats["averageInitialScore"])
	assert.Equal(t, false, stats["loading"])

	resp, _ = a.do(t, http.MethodDelete, "/api/leads/does-not-exist", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, a.store.Leads(), 2)

	resp, _ = a.do(t, http.MethodDelete, "/api/leads/"+lowID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, a.store.Leads(), 1)

	resp, _ = a.do(t, http.MethodDelete, "/api/leads", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = a.do(t, http.MethodGet, "/api/leads", nil)
	assert.Empty(t, body["data"])
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t, "")

	resp, body := a.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = a.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])

	a.do(t, http.MethodPost, "/api/leads", validLead())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mresp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `lead_score_requests_total{source="fallback"} 1`)
	assert.Contains(t, string(raw), "leads_stored 1")
}
