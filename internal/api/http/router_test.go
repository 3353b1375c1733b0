package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/pal-assistant/internal/api/http"
	"github.com/spec-kit/pal-assistant/internal/api/http/handlers"
	"github.com/spec-kit/pal-assistant/internal/assistant"
	"github.com/spec-kit/pal-assistant/internal/auth"
	"github.com/spec-kit/pal-assistant/internal/events"
	"github.com/spec-kit/pal-assistant/internal/observability"
	"github.com/spec-kit/pal-assistant/internal/persistence"
	"github.com/spec-kit/pal-assistant/internal/repository"
	"github.com/spec-kit/pal-assistant/internal/service"
	"github.com/spec-kit/pal-assistant/internal/servicenow"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	adapter := servicenow.NewAdapter(servicenow.Options{Now: now}, nil)
	credentials := service.NewCredentialService(persistence.NewMemoryKV(), "servicenow-config", adapter, dispatcher, nil)
	conversations := service.NewConversationService(service.ConversationDependencies{
		TurnRepo:   repository.NewMemoryTurnRepository(),
		Responder:  assistant.NewDispatcher(assistant.Options{Now: now}),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Now:        now,
	})
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{Metrics: metrics})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler("pal-assistant", "test", nil, nil),
		Tickets:           handlers.NewTicketsHandler(adapter),
		Credentials:       handlers.NewCredentialsHandler(credentials),
		Sessions:          handlers.NewSessionsHandler(tokens),
		Assistant:         handlers.NewAssistantHandler(conversations, assistant.NewGrammarRewriter(nil, nil)),
		Metrics:           handlers.NewMetricsHandler(metrics),
		SessionMiddleware: auth.NewSessionMiddleware(tokens),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = do(t, app, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"postgres": "not configured", "redis": "not configured"}, body["dependencies"])
}

func TestTicketsServeFallbackWhenUnconfigured(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/tickets", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tickets := body["data"].([]any)
	require.Len(t, tickets, 3)
	assert.Equal(t, "INC0012345", tickets[0].(map[string]any)["number"])
	assert.Equal(t, "REQ0067890", tickets[1].(map[string]any)["number"])
	assert.Equal(t, "CHG0004567", tickets[2].(map[string]any)["number"])

	resp, body = do(t, app, http.MethodGet, "/tickets/changes", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)
}

func TestCustomTicketsRequireUserID(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/tickets/custom", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	resp, body = do(t, app, http.MethodGet, "/tickets/dashboard", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestCredentialsLifecycle(t *testing.T) {
	app := newTestApp(t)

	_, body := do(t, app, http.MethodGet, "/credentials", nil, nil)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["stored"])
	assert.Equal(t, false, data["configured"])

	resp, body := do(t, app, http.MethodPut, "/credentials",
		map[string]string{"baseUrl": "https://x.service-now.com", "bearerToken": "secrettoken"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, "*******oken", data["bearerToken"])
	assert.Equal(t, true, data["configured"])

	_, body = do(t, app, http.MethodGet, "/credentials", nil, nil)
	data = body["data"].(map[string]any)
	assert.Equal(t, "https://x.service-now.com", data["baseUrl"])
	assert.Equal(t, "*******oken", data["bearerToken"])
	assert.Equal(t, true, data["stored"])

	resp, _ = do(t, app, http.MethodDelete, "/credentials", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body = do(t, app, http.MethodGet, "/credentials", nil, nil)
	data = body["data"].(map[string]any)
	assert.Equal(t, false, data["stored"])
	assert.Equal(t, false, data["configured"])
}

func TestAssistantMessagesRequireSession(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/assistant/messages", map[string]string{"text": "hi"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestAssistantConversationFlow(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := body["data"].(map[string]any)["token"].(string)
	authz := map[string]string{"Authorization": "Bearer " + token}

	resp, body = do(t, app, http.MethodPost, "/assistant/messages", map[string]string{"text": "   "}, authz)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodPost, "/assistant/messages", map[string]string{"text": "what time is it"}, authz)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	exchange := body["data"].(map[string]any)
	reply := exchange["assistant"].(map[string]any)
	assert.Equal(t, "Current time: 12:00:00 PM, Date: 3/10/2024. You have several tasks scheduled for today.", reply["text"])
	assert.Equal(t, false, reply["isUser"])
	assert.Len(t, reply["followUp"], 3)
	assert.Equal(t, true, exchange["user"].(map[string]any)["isUser"])

	_, body = do(t, app, http.MethodGet, "/assistant/messages", nil, authz)
	assert.Len(t, body["data"], 2)

	resp, _ = do(t, app, http.MethodDelete, "/assistant/messages", nil, authz)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body = do(t, app, http.MethodGet, "/assistant/messages", nil, authz)
	assert.Empty(t, body["data"])
}

func TestGrammarUsesLocalCorrection(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/assistant/grammar", map[string]string{"text": "i dont know"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := body["data"].(map[string]any)["text"].(string)
	assert.Contains(t, text, "Dear Team,")
	assert.Contains(t, text, "I don't know")
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestForeignOriginIsRefused(t *testing.T) {
	app := newTestApp(t)
	foreign := map[string]string{"Origin": "https://evil.example"}

	resp, _ := do(t, app, http.MethodOptions, "/credentials", nil, map[string]string{
		"Origin":                        "https://evil.example",
		"Access-Control-Request-Method": http.MethodPut,
	})
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body := do(t, app, http.MethodPut, "/credentials",
		map[string]string{"baseUrl": "http://169.254.169.254", "bearerToken": "x"}, foreign)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body = do(t, app, http.MethodGet, "/tickets", nil, foreign)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Nil(t, body["data"])

	_, body = do(t, app, http.MethodGet, "/credentials", nil, nil)
	assert.Equal(t, false, body["data"].(map[string]any)["stored"])
}

func TestDashboardOriginIsAllowed(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/tickets", nil, map[string]string{"Origin": "http://localhost:3000"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Len(t, body["data"], 3)
}
