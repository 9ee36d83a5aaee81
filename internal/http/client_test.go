package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("x-api-key = %q, want secret", got)
		}
		if got := r.Header.Get("User-Agent"); got != "packgrab" {
			t.Errorf("User-Agent = %q, want packgrab", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {"id": 42}}`)
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "secret", UserAgent: "packgrab"})

	var payload struct {
		Data struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	if err := client.GetJSON(context.Background(), server.URL, &payload); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if payload.Data.ID != 42 {
		t.Errorf("decoded id = %d, want 42", payload.Data.ID)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(DefaultOptions())
	err := client.GetJSON(context.Background(), server.URL, &struct{}{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusForbidden {
		t.Errorf("Code = %d, want 403", statusErr.Code)
	}
	if statusErr.Retryable() {
		t.Error("403 should not be retryable")
	}
}

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"modIds":[1,2]}` {
			t.Errorf("body = %s", body)
		}
		io.WriteString(w, `{"ok": true}`)
	}))
	defer server.Close()

	client := NewClient(DefaultOptions())
	req := struct {
		ModIDs []int `json:"modIds"`
	}{ModIDs: []int{1, 2}}

	var resp struct {
		OK bool `json:"ok"`
	}
	if err := client.PostJSON(context.Background(), server.URL, req, &resp); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if !resp.OK {
		t.Error("response not decoded")
	}
}

func TestDownload(t *testing.T) {
	content := []byte("jar bytes here")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	client := NewClient(DefaultOptions())
	body, size, err := client.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer body.Close()

	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d", size, len(content))
	}
	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("body = %q, want %q", got, content)
	}
}

func TestDownload_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(DefaultOptions())
	_, _, err := client.Download(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if !statusErr.Retryable() {
		t.Error("503 should be retryable")
	}
}

func TestStatusError_Retryable(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		err := &StatusError{Code: tt.code}
		if got := err.Retryable(); got != tt.want {
			t.Errorf("StatusError{%d}.Retryable() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestProgressWriter(t *testing.T) {
	var updates []int64
	pw := &ProgressWriter{
		Writer: io.Discard,
		Total:  10,
		OnUpdate: func(written, total int64) {
			updates = append(updates, written)
		},
	}

	pw.Write([]byte("abcde"))
	pw.Write([]byte("fghij"))

	if pw.Written != 10 {
		t.Errorf("Written = %d, want 10", pw.Written)
	}
	if len(updates) != 2 || updates[1] != 10 {
		t.Errorf("updates = %v, want [5 10]", updates)
	}
}
