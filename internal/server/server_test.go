package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudechat/internal/config"
	"claudechat/internal/session"
	"claudechat/pkg/chattypes"
)

// stubClient returns a fixed response or a scripted error.
type stubClient struct {
	response string
	err      error
}

func (s *stubClient) SendChatCompletion(context.Context, *chattypes.CompletionRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubClient) ProviderName() string { return "anthropic" }
func (s *stubClient) IsConfigured() bool   { return true }

func newTestServer(t *testing.T, client chattypes.LLMClient) *Server {
	t.Helper()
	sess, err := session.New(client, config.Default(),
		session.WithSleepFunc(func(time.Duration) {}))
	require.NoError(t, err)
	return New(sess)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	srv.Router().ServeHTTP(recorder, req)
	return recorder
}

func TestHandleChat_Success(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "Hello back!"})

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat", `{"message": "Hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello back!", resp["response"])
	assert.Equal(t, config.DefaultModelID, resp["model"])
	assert.Equal(t, float64(1), resp["attempts"])
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "unused"})

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat", `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_input", resp["kind"])
}

func TestHandleChat_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "unused"})

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		kind chattypes.ErrorKind
		want int
	}{
		{chattypes.ErrAuthentication, http.StatusUnauthorized},
		{chattypes.ErrRateLimited, http.StatusTooManyRequests},
		{chattypes.ErrInvalidRequest, http.StatusBadRequest},
		{chattypes.ErrTimeout, http.StatusGatewayTimeout},
		{chattypes.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{chattypes.ErrUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			srv := newTestServer(t, &stubClient{
				err: &chattypes.Error{Kind: tt.kind, Provider: "anthropic", Message: "boom"},
			})
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat", `{"message": "Hello"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleHistory_RoundTrip(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "reply"})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []chattypes.Message `json:"messages"`
		Count    int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)

	doRequest(t, srv, http.MethodPost, "/api/v1/chat", `{"message": "Hello"}`)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/history", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, chattypes.RoleUser, resp.Messages[0].Role)
	assert.Equal(t, chattypes.RoleAssistant, resp.Messages[1].Role)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/history", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}

func TestHandleConfig_GetAndUpdate(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "reply"})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, config.DefaultModelID, cfg.ModelID)

	rec = doRequest(t, srv, http.MethodPut, "/api/v1/config",
		`{"temperature": 0.1, "system_prompt": "Be terse."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, "Be terse.", cfg.SystemPrompt)
}

func TestHandleConfig_RejectsInvalidUpdate(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "reply"})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/config", `{"temperature": 1.9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_configuration", resp["kind"])
}

func TestHandleConfig_RejectsProviderSwitch(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "reply"})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/config", `{"model_id": "gpt-4o"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot switch provider")
}

func TestHandleConfig_AllowsSameProviderModelChange(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "reply"})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/config",
		`{"model_id": "claude-3-haiku-20240307"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "claude-3-haiku-20240307", cfg.ModelID)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubClient{response: "reply"})

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "idle", resp["state"])
}
