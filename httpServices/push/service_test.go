package push

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsExpoMessage(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		w.Write([]byte(`{"data": {"status": "ok"}}`))
	}))
	defer server.Close()

	t.Setenv("PUSH_API_URL", server.URL)
	client := NewClient()

	if err := client.Send("ExponentPushToken[abc]", "Ready for pickup", "Your package is on its way."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received["to"] != "ExponentPushToken[abc]" {
		t.Errorf("to = %q", received["to"])
	}
	if received["title"] != "Ready for pickup" {
		t.Errorf("title = %q", received["title"])
	}
	if received["sound"] != "default" {
		t.Errorf("sound = %q", received["sound"])
	}
}

func TestSendReturnsErrorOnGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	t.Setenv("PUSH_API_URL", server.URL)
	client := NewClient()

	if err := client.Send("token", "title", "body"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
