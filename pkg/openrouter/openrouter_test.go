package openrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calendar-assistant/pkg/openrouter"
)

func TestConfigValidate(t *testing.T) {
	_, err := openrouter.New(openrouter.Config{})
	if err == nil {
		t.Fatalf("expected error for missing API key")
	}

	client, err := openrouter.New(openrouter.Config{APIKey: "key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != openrouter.DefaultModel {
		t.Errorf("expected default model, got %s", client.Model())
	}
}

func TestGenerateContent(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	var gotBody map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"id": "gen-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"title\":\"Meeting\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer ts.Close()

	client, err := openrouter.New(openrouter.Config{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "qwen/qwen-2-7b-instruct:free",
		Referer: "https://example.com",
		Title:   "Calendar Assistant",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := client.GenerateContent(context.Background(), &openrouter.Request{
		SystemInstruction: "extract the event",
		Messages:          []openrouter.Message{{Role: "user", Text: "meeting today"}},
		Temperature:       0.1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Text != `{"title":"Meeting"}` {
		t.Errorf("unexpected completion text: %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotReferer != "https://example.com" || gotTitle != "Calendar Assistant" {
		t.Errorf("attribution headers not sent: referer=%q title=%q", gotReferer, gotTitle)
	}

	messages := gotBody["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(messages))
	}
	first := messages[0].(map[string]interface{})
	if first["role"] != "system" || first["content"] != "extract the event" {
		t.Errorf("system instruction not first message: %v", first)
	}
}

func TestGenerateContentAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer ts.Close()

	client, _ := openrouter.New(openrouter.Config{APIKey: "test-key", BaseURL: ts.URL})

	_, err := client.GenerateContent(context.Background(), &openrouter.Request{
		Messages: []openrouter.Message{{Role: "user", Text: "hi"}},
	})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected API error with status, got: %v", err)
	}
}

func TestGenerateContentEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	client, _ := openrouter.New(openrouter.Config{APIKey: "test-key", BaseURL: ts.URL})

	resp, err := client.GenerateContent(context.Background(), &openrouter.Request{
		Messages: []openrouter.Message{{Role: "user", Text: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "" {
		t.Errorf("expected empty text for empty choices, got %q", resp.Text)
	}
}
