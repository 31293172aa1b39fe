package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
	"DnsBot/entity"
)

const testToken = "0123456789abcdef"

type fakeCore struct {
	reset     []chat.ChatKey
	active    map[chat.ChatKey]bool
	zonesErr  error
	lastToken string
}

func (f *fakeCore) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	f.lastToken = token
	if token != testToken {
		return nil, errors.New("unknown token")
	}
	return &entity.UserAuth{Username: "admin", Token: token}, nil
}

func (f *fakeCore) ValidateToken(token string) (string, error) {
	user, err := f.AuthenticateByToken(token)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (f *fakeCore) DialogState(_ context.Context, key chat.ChatKey) (*entity.DialogSnapshot, error) {
	snapshot := &entity.DialogSnapshot{Platform: key.Platform, ChatID: key.ChatID}
	if f.active[key] {
		snapshot.Dialogue = &entity.DialogueInfo{WorkflowID: "create_record", Step: "select_type"}
	}
	return snapshot, nil
}

func (f *fakeCore) ResetDialog(_ context.Context, key chat.ChatKey) (bool, error) {
	f.reset = append(f.reset, key)
	was := f.active[key]
	delete(f.active, key)
	return was, nil
}

func (f *fakeCore) ListZones(_ context.Context) ([]entity.Zone, error) {
	if f.zonesErr != nil {
		return nil, f.zonesErr
	}
	return []entity.Zone{{ID: "zone-1", Name: "example.com"}}, nil
}

func (f *fakeCore) ListRecords(_ context.Context, zoneID string) ([]entity.DnsRecord, error) {
	return []entity.DnsRecord{{ID: "r1", ZoneID: zoneID, Type: "A", Name: "www.example.com"}}, nil
}

func (f *fakeCore) Layouts() []entity.Layout {
	return []entity.Layout{{Type: "TXT", Fields: []entity.LayoutField{{Name: "text", Key: "content"}}}}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter() (http.Handler, *fakeCore) {
	core := &fakeCore{active: map[chat.ChatKey]bool{{Platform: "telegram", ChatID: "42"}: true}}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("dnsbot_up 1"))
	})
	return NewRouter(slog.New(slog.DiscardHandler), core, nil, metrics), core
}

func do(t *testing.T, h http.Handler, method, target, body string, auth bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestAuth(t *testing.T) {
	h, core := newTestRouter()

	rec, env := do(t, h, http.MethodGet, "/api/v1/zones", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "wrong", core.lastToken)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil)
	req.Header.Set("X-Api-Key", testToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestZones(t *testing.T) {
	h, core := newTestRouter()

	rec, env := do(t, h, http.MethodGet, "/api/v1/zones", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), "example.com")

	rec, env = do(t, h, http.MethodGet, "/api/v1/zones/zone-9/records", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"zone_id":"zone-9"`)

	core.zonesErr = errors.New("cloudflare down")
	rec, env = do(t, h, http.MethodGet, "/api/v1/zones", "", true)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to list zones", env.Message)
}

func TestDialog(t *testing.T) {
	h, core := newTestRouter()

	rec, env := do(t, h, http.MethodGet, "/api/v1/dialog?platform=telegram&chat_id=42", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"workflow_id":"create_record"`)

	rec, _ = do(t, h, http.MethodGet, "/api/v1/dialog?platform=telegram", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, h, http.MethodPost, "/api/v1/dialog/reset", `{"platform":"telegram","chat_id":"42"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reset":true}`, string(env.Data))

	rec, env = do(t, h, http.MethodPost, "/api/v1/dialog/reset", `{"platform":"telegram","chat_id":"42"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reset":false}`, string(env.Data))
	assert.Len(t, core.reset, 2)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/dialog/reset", `{"platform":"telegram"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLayoutsAndErrors(t *testing.T) {
	h, _ := newTestRouter()

	rec, env := do(t, h, http.MethodGet, "/api/v1/layouts", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"type":"TXT"`)

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/layouts", "", true)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsIsPublic(t *testing.T) {
	h, _ := newTestRouter()

	rec, _ := do(t, h, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dnsbot_up 1", rec.Body.String())
}
