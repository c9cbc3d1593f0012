package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"opsboard/internal/llm"
	"opsboard/pkg/types"

	"github.com/sirupsen/logrus"
)

type fakeCompleter struct {
	reply string
	err   error

	gotMessages []llm.Message
	gotModel    string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message, model string) (string, error) {
	f.gotMessages = messages
	f.gotModel = model
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeChatStore struct {
	appended []*types.ChatMessage
	err      error
}

func (f *fakeChatStore) AppendMessage(_ context.Context, message *types.ChatMessage) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, message)
	return nil
}

func (f *fakeChatStore) MessagesByUser(_ context.Context, userID string, limit uint64) ([]*types.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*types.ChatMessage, 0, limit)
	for i := len(f.appended) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if f.appended[i].UserID == userID {
			out = append(out, f.appended[i])
		}
	}
	return out, nil
}

type fakeExporter struct {
	document *types.Backup
}

func (f *fakeExporter) Export(_ context.Context) *types.Backup {
	return f.document
}

func testConfig() *types.Config {
	return &types.Config{
		Environment:      "development",
		ServerPort:       8080,
		ReadTimeoutSec:   10,
		WriteTimeoutSec:  15,
		ChatSystemPrompt: "eres el asistente de operaciones",
	}
}

func newTestService(t *testing.T, chat ChatCompleter, chatLog ChatStore, exporter Exporter) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s, err := New(testConfig(), logger, nil, nil, nil, nil, chatLog, nil, nil, nil, exporter, chat, nil, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func doRequest(s *Service, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestFunctionPreflight(t *testing.T) {
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})

	for _, path := range []string{"/functions/chat", "/functions/backup"} {
		rec := doRequest(s, httptest.NewRequest(http.MethodOptions, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s preflight status = %d, want 200", path, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s Allow-Origin = %q, want *", path, got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
			t.Errorf("%s Allow-Methods = %q, want POST included", path, got)
		}
	}
}

func TestChatFunction_MissingMessage(t *testing.T) {
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodPost, "/functions/chat", strings.NewReader(`{"history":[]}`))
	rec := doRequest(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatFunction_InvalidBody(t *testing.T) {
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodPost, "/functions/chat", strings.NewReader(`{not json`))
	rec := doRequest(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatFunction_ForwardsSystemHistoryAndMessage(t *testing.T) {
	completer := &fakeCompleter{reply: "claro, con gusto"}
	chatLog := &fakeChatStore{}
	s := newTestService(t, completer, chatLog, &fakeExporter{})

	body := `{"message":"¿cuantas incidencias hay?","history":[{"role":"user","content":"hola"},{"role":"assistant","content":"hola, dime"}],"model":"llama3.2"}`
	req := httptest.NewRequest(http.MethodPost, "/functions/chat", strings.NewReader(body))
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Response != "claro, con gusto" {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.Saved {
		t.Error("saved should be false without credentials")
	}
	if len(chatLog.appended) != 0 {
		t.Errorf("unauthenticated turn should not be persisted, got %d messages", len(chatLog.appended))
	}

	msgs := completer.gotMessages
	if len(msgs) != 4 {
		t.Fatalf("forwarded %d messages, want 4 (system + 2 history + user)", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "eres el asistente de operaciones" {
		t.Errorf("first message = %+v, want configured system prompt", msgs[0])
	}
	if msgs[1].Content != "hola" || msgs[2].Content != "hola, dime" {
		t.Error("history not forwarded in order")
	}
	last := msgs[len(msgs)-1]
	if last.Role != types.ChatRoleUser || last.Content != "¿cuantas incidencias hay?" {
		t.Errorf("last message = %+v, want the new user turn", last)
	}
	if completer.gotModel != "llama3.2" {
		t.Errorf("model = %q, want request override", completer.gotModel)
	}
}

func TestChatFunction_InferenceFailureReturnsFallback(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	s := newTestService(t, completer, &fakeChatStore{}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodPost, "/functions/chat", strings.NewReader(`{"message":"hola"}`))
	rec := doRequest(s, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error field should be set")
	}
	if body["response"] == "" {
		t.Error("fallback response must be non-empty so the client can render it")
	}
}

func TestBackupFunction_Unauthenticated(t *testing.T) {
	exporter := &fakeExporter{document: &types.Backup{Timestamp: time.Now().UTC()}}
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, exporter)

	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/functions/backup", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, CORS headers must be set even on rejection", got)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/incidents"},
		{http.MethodPost, "/incidents"},
		{http.MethodDelete, "/incidents/abc123"},
		{http.MethodGet, "/payments"},
		{http.MethodGet, "/payments/abc123"},
		{http.MethodGet, "/chat/messages"},
		{http.MethodGet, "/stats/users"},
		{http.MethodGet, "/stats/rooms"},
		{http.MethodGet, "/lookups"},
	} {
		rec := doRequest(s, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}
