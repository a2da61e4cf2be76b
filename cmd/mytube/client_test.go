package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/api"
)

func TestClientProgress(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/progress/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(api.ProgressResponse{ID: "abc123", Status: "downloading", Percent: 42})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "secret")
	resp, err := client.Progress(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if resp.Status != "downloading" || resp.Percent != 42 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "unknown job missing"})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "")
	_, err := client.Progress(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "unknown job missing") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestClientStartVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/download/video" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["url"] != "https://youtube.com/watch?v=abc" {
			t.Errorf("unexpected body: %#v", body)
		}
		_ = json.NewEncoder(w).Encode(api.DownloadResponse{ID: "abc123", URL: "/downloads/abc123.mp4"})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "")
	resp, err := client.StartVideo(context.Background(), map[string]string{
		"url": "https://youtube.com/watch?v=abc", "quality": "1080", "format": "mp4",
	})
	if err != nil {
		t.Fatalf("StartVideo failed: %v", err)
	}
	if resp.ID != "abc123" || resp.URL != "/downloads/abc123.mp4" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestClientHistoryQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("limit") != "5" || query.Get("status") != "failed" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(api.HistoryListResponse{})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "")
	if _, err := client.History(context.Background(), 5, []string{"failed"}); err != nil {
		t.Fatalf("History failed: %v", err)
	}
}

func TestClientConnectionRefused(t *testing.T) {
	client := newAPIClient("http://127.0.0.1:1", "")
	_, err := client.Status(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connect to daemon") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
