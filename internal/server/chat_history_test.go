package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"opsboard/pkg/types"
)

func TestChatHistory_OnlyCallersMessages(t *testing.T) {
	chatLog := &fakeChatStore{appended: []*types.ChatMessage{
		{UserID: "user-1", Role: types.ChatRoleUser, Content: "hola"},
		{UserID: "user-2", Role: types.ChatRoleUser, Content: "ajeno"},
		{UserID: "user-1", Role: types.ChatRoleAssistant, Content: "hola, dime"},
	}}
	s := newTestService(t, &fakeCompleter{}, chatLog, &fakeExporter{})

	req := httptest.NewRequest(http.MethodGet, "/chat/messages", nil)
	rec := httptest.NewRecorder()
	s.handleChatHistory(rec, identityRequest(req, "user-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Messages []*types.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	if len(body.Messages) != 2 {
		t.Fatalf("got %d messages, want the caller's 2", len(body.Messages))
	}
	for _, m := range body.Messages {
		if m.UserID != "user-1" {
			t.Errorf("message for %s leaked into user-1's history", m.UserID)
		}
	}
}

func TestChatHistory_InvalidLimit(t *testing.T) {
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodGet, "/chat/messages?limit=abc", nil)
	rec := httptest.NewRecorder()
	s.handleChatHistory(rec, identityRequest(req, "user-1"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
