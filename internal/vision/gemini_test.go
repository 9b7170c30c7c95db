package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func verdictBody(text string) string {
	b, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(b) + `}]},"finishReason":"STOP"}]}`
}

func testClient(url string) *Client {
	c := NewClient(url, "test-key", "test-model", 5*time.Second)
	c.Backoff = time.Millisecond
	return c
}

func TestAnalyzeSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, verdictBody(`{"gps":{"latitude":55.75,"longitude":37.61},"address":"Red Square","message":"ok"}`))
	}))
	defer ts.Close()

	a, err := testClient(ts.URL).Analyze(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if a.GPS == nil || a.GPS.Latitude != 55.75 || a.GPS.Longitude != 37.61 {
		t.Errorf("gps = %+v", a.GPS)
	}
	if a.Address != "Red Square" || a.Message != "ok" {
		t.Errorf("verdict = %+v", a)
	}
	if a.Kind() != "gps" {
		t.Errorf("kind = %q", a.Kind())
	}
}

func TestAnalyzeStripsMarkdownFence(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, verdictBody("```json\n{\"promo\":\"SAVE20\"}\n```"))
	}))
	defer ts.Close()

	a, err := testClient(ts.URL).Analyze(context.Background(), []byte("img"), "")
	if err != nil {
		t.Fatal(err)
	}
	if a.Promo != "SAVE20" {
		t.Errorf("promo = %q", a.Promo)
	}
	if a.Kind() != "promo" {
		t.Errorf("kind = %q", a.Kind())
	}
}

func TestAnalyzeRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, verdictBody(`{"message":"recovered"}`))
	}))
	defer ts.Close()

	a, err := testClient(ts.URL).Analyze(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if a.Message != "recovered" {
		t.Errorf("message = %q", a.Message)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestAnalyzeUnauthorizedIsPermanent(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Analyze(context.Background(), []byte("img"), "image/jpeg")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("auth failure must not be retried, calls = %d", got)
	}
}

func TestAnalyzeGivesUpAfterBudget(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	c.MaxRetries = 2

	_, err := c.Analyze(context.Background(), []byte("img"), "image/jpeg")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", got)
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer ts.Close()

	if _, err := testClient(ts.URL).Analyze(context.Background(), []byte("img"), "image/jpeg"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestAnalyzeBadVerdictJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, verdictBody("not json at all"))
	}))
	defer ts.Close()

	if _, err := testClient(ts.URL).Analyze(context.Background(), []byte("img"), "image/jpeg"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		a    Analysis
		want string
	}{
		{Analysis{GPS: &GPS{}}, "gps"},
		{Analysis{Promo: "X"}, "promo"},
		{Analysis{Error: "bad input"}, "error"},
		{Analysis{}, "empty"},
		{Analysis{GPS: &GPS{}, Promo: "X"}, "gps"}, // gps wins
	}
	for _, tt := range tests {
		if got := tt.a.Kind(); got != tt.want {
			t.Errorf("Kind(%+v) = %q, want %q", tt.a, got, tt.want)
		}
	}
}
