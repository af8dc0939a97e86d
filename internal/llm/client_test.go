package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mathusayini/News-Summarizer/internal/ratelimit"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, calls *int32, choices string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test/model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello?" {
			t.Errorf("messages = %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"test/model","choices":` + choices + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk_ReturnsFirstChoice(t *testing.T) {
	var calls int32
	srv := newChatServer(t, &calls, `[{"index":0,"message":{"role":"assistant","content":"  hi there "},"finish_reason":"stop"}]`)

	c := NewOpenAICompatible("sk-test", srv.URL, "test/model", 5*time.Second, nil)
	got, err := c.Ask(context.Background(), "hello?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "  hi there " {
		t.Errorf("reply = %q", got)
	}
}

func TestAsk_NoChoices(t *testing.T) {
	var calls int32
	srv := newChatServer(t, &calls, `[]`)

	c := NewOpenAICompatible("sk-test", srv.URL, "test/model", 5*time.Second, nil)
	_, err := c.Ask(context.Background(), "hello?")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestAsk_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompatible("sk-test", srv.URL, "test/model", 5*time.Second, nil)
	if _, err := c.Ask(context.Background(), "hello?"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestAsk_BudgetStopsBeforeNetwork(t *testing.T) {
	var calls int32
	srv := newChatServer(t, &calls, `[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]`)

	c := NewOpenAICompatible("sk-test", srv.URL, "test/model", 5*time.Second, ratelimit.NewBudget(1, time.Hour))
	if _, err := c.Ask(context.Background(), "hello?"); err != nil {
		t.Fatalf("first Ask: %v", err)
	}
	if _, err := c.Ask(context.Background(), "hello?"); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("second Ask err = %v, want ErrBudgetExhausted", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server calls = %d, want 1", n)
	}
}
