package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/mfolkers/gleaner/internal/config"
	"github.com/mfolkers/gleaner/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Fetcher.PolitenessDelay = 0
	cfg.Fetcher.RequestTimeout = 5 * time.Second
	return cfg
}

func TestFetchSendsFixedUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	cfg := testConfig()
	f := NewHTTPFetcher(cfg, testLogger)
	defer f.Close()

	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !page.IsSuccess() {
		t.Errorf("expected 2xx, got %d", page.StatusCode)
	}
	if gotUA != cfg.Fetcher.UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, cfg.Fetcher.UserAgent)
	}
}

func TestFetchNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), testLogger)
	defer f.Close()

	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *types.FetchError, got %T", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
	}
}

func TestFetchNetworkErrorIsFetchError(t *testing.T) {
	f := NewHTTPFetcher(testConfig(), testLogger)
	defer f.Close()

	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *types.FetchError, got %v", err)
	}
}

func TestFetchDecompressesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<html><body>compressed</body></html>"))
		gz.Close()
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), testLogger)
	defer f.Close()

	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(page.Body) != "<html><body>compressed</body></html>" {
		t.Errorf("body not decompressed: %q", page.Body)
	}
}

func TestFetchEnforcesPolitenessDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Fetcher.PolitenessDelay = 100 * time.Millisecond
	f := NewHTTPFetcher(cfg, testLogger)
	defer f.Close()

	start := time.Now()
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("second request not paced: elapsed %s", elapsed)
	}
}

func TestFetchDelayAppliesAfterFailureToo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Fetcher.PolitenessDelay = 100 * time.Millisecond
	f := NewHTTPFetcher(cfg, testLogger)
	defer f.Close()

	start := time.Now()
	f.Fetch(context.Background(), srv.URL)
	f.Fetch(context.Background(), srv.URL)
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("failed request not paced: elapsed %s", elapsed)
	}
}
