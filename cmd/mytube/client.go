package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"syscall"
	"time"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/api"
)

// apiClient is a thin HTTP client for the daemon API. Download calls carry
// no client-side deadline because the server blocks until the job finishes.
type apiClient struct {
	base  string
	token string

	download *http.Client
	query    *http.Client
}

func newAPIClient(base, token string) *apiClient {
	return &apiClient{
		base:     base,
		token:    token,
		download: &http.Client{},
		query:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) StartVideo(ctx context.Context, payload any) (api.DownloadResponse, error) {
	return c.startDownload(ctx, "/api/download/video", payload)
}

func (c *apiClient) StartAudio(ctx context.Context, payload any) (api.DownloadResponse, error) {
	return c.startDownload(ctx, "/api/download/audio", payload)
}

func (c *apiClient) StartPlaylist(ctx context.Context, payload any) (api.DownloadResponse, error) {
	return c.startDownload(ctx, "/api/download/playlist", payload)
}

func (c *apiClient) startDownload(ctx context.Context, path string, payload any) (api.DownloadResponse, error) {
	var resp api.DownloadResponse
	err := c.do(ctx, c.download, http.MethodPost, path, payload, &resp)
	return resp, err
}

func (c *apiClient) Progress(ctx context.Context, id string) (api.ProgressResponse, error) {
	var resp api.ProgressResponse
	err := c.do(ctx, c.query, http.MethodGet, "/api/progress/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

func (c *apiClient) Cancel(ctx context.Context, id string) error {
	return c.do(ctx, c.query, http.MethodDelete, "/api/download/"+url.PathEscape(id), nil, nil)
}

func (c *apiClient) History(ctx context.Context, limit int, statuses []string) (api.HistoryListResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	for _, status := range statuses {
		query.Add("status", status)
	}
	path := "/api/history"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp api.HistoryListResponse
	err := c.do(ctx, c.query, http.MethodGet, path, nil, &resp)
	return resp, err
}

func (c *apiClient) Status(ctx context.Context) (api.DaemonStatus, error) {
	var resp api.DaemonStatus
	err := c.do(ctx, c.query, http.MethodGet, "/api/status", nil, &resp)
	return resp, err
}

func (c *apiClient) do(ctx context.Context, client *http.Client, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return wrapDialError(err, c.base)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func wrapDialError(err error, base string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; start the daemon with `mytubed`", base)
	}
	return fmt.Errorf("connect to daemon at %s: %w", base, err)
}
