package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTavily_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tv-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req tavilyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "q" || req.MaxResults != 3 || req.SearchDepth != "advanced" {
			t.Errorf("Unexpected payload %+v", req)
		}

		_, _ = w.Write([]byte(`{"results":[{"url":"https://a.gov/x"},{"url":" "},{"url":"https://b.org"}]}`))
	}))
	defer server.Close()

	s, err := NewTavily(Options{APIKey: "tv-key", BaseURL: server.URL, MaxResults: 3})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if diff := cmp.Diff([]string{"https://a.gov/x", "https://b.org"}, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestFirecrawl_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"url":"https://one.example"},{"link":"https://two.example"},{"source":"https://three.example"},{}]}`))
	}))
	defer server.Close()

	s, err := NewFirecrawl(Options{APIKey: "fc", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []string{"https://one.example", "https://two.example", "https://three.example"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSerper_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "sp" {
			t.Errorf("X-API-KEY = %q", got)
		}
		var req serperRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Num != DefaultMaxResults {
			t.Errorf("num = %d, want %d", req.Num, DefaultMaxResults)
		}
		_, _ = w.Write([]byte(`{"organic":[{"link":"https://transport.gov.example/plan.pdf","title":"Plan"}]}`))
	}))
	defer server.Close()

	s, err := NewSerper(Options{APIKey: "sp", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if diff := cmp.Diff([]string{"https://transport.gov.example/plan.pdf"}, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestBrave_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/res/v1/web/search" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != `"Plan" Testland` {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "2" {
			t.Errorf("count = %q", got)
		}
		if got := r.Header.Get("X-Subscription-Token"); got != "br" {
			t.Errorf("X-Subscription-Token = %q", got)
		}
		_, _ = w.Write([]byte(`{"web":{"results":[{"url":"https://a.example"},{"url":"https://b.example"},{"url":"https://c.example"}]}}`))
	}))
	defer server.Close()

	s, err := NewBrave(Options{APIKey: "br", BaseURL: server.URL, MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(context.Background(), `"Plan" Testland`)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	s, err := NewSerper(Options{APIKey: "bad", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Search(context.Background(), "q")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Provider != "serper" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
}

func TestSearch_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	s, err := NewTavily(Options{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Search(context.Background(), "q"); err == nil {
		t.Error("Expected decode error")
	}
}

func TestConstructors_RequireKey(t *testing.T) {
	if _, err := NewTavily(Options{}); err == nil {
		t.Error("NewTavily without key should fail")
	}
	if _, err := NewFirecrawl(Options{}); err == nil {
		t.Error("NewFirecrawl without key should fail")
	}
	if _, err := NewSerper(Options{}); err == nil {
		t.Error("NewSerper without key should fail")
	}
	if _, err := NewBrave(Options{}); err == nil {
		t.Error("NewBrave without key should fail")
	}
}
