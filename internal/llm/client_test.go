package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestComplete_Success(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"test-model","choices":[{"message":{"role":"assistant","content":"hola, ¿en qué puedo ayudar?"}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "default-model")
	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "eres un asistente"},
		{Role: "user", Content: "hola"},
	}, "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hola, ¿en qué puedo ayudar?" {
		t.Errorf("reply = %q", reply)
	}

	if got.Model != "default-model" {
		t.Errorf("model = %q, want configured default", got.Model)
	}
	if got.Stream {
		t.Error("stream should be false")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("messages not forwarded in order: %+v", got.Messages)
	}
}

func TestComplete_ModelOverride(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "default-model")
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hola"}}, "llama3.2"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Model != "llama3.2" {
		t.Errorf("model = %q, want override", got.Model)
	}
}

func TestComplete_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model not loaded","type":"server_error"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "default-model")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hola"}}, "")
	if err == nil {
		t.Fatal("expected error on HTTP 500")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error should carry the endpoint message, got: %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"m","choices":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "default-model")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hola"}}, "")
	if err == nil || !strings.Contains(err.Error(), "empty choices") {
		t.Errorf("expected empty-choices error, got: %v", err)
	}
}

func TestComplete_UnreachableEndpoint(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/v1/chat/completions", "m")
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hola"}}, ""); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate(strings.Repeat("x", 300), 200); len([]rune(got)) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("long string not truncated: %d runes", len([]rune(got)))
	}
}
