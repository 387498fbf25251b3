package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mfolkers/gleaner/internal/table"
)

// detailServer serves /d/<n> pages whose content identifies n. Later rows
// respond faster than earlier ones so completion order inverts row order.
func detailServer(invertTiming bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/d/"))
		if invertTiming {
			time.Sleep(time.Duration(10-n) * 5 * time.Millisecond)
		}
		fmt.Fprintf(w, `<html><body><p class="detail">detail-%d</p></body></html>`, n)
	}))
}

func linkTable(links []string) *table.Table {
	t := table.New([]string{"link"})
	t.AppendPage(map[string][]string{"link": links})
	return t
}

func TestEnrichColumnPreservesRowOrder(t *testing.T) {
	srv := detailServer(true)
	defer srv.Close()

	const n = 8
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("%s/d/%d", srv.URL, i)
	}
	tbl := linkTable(links)

	cfg := testConfig(srv.URL)
	cfg.Fetcher.Concurrency = 4
	s := newTestScraper(t, cfg)

	if err := s.EnrichColumn(context.Background(), tbl, "content", "link", []string{"p.detail"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}

	if tbl.Len() != n {
		t.Fatalf("row count changed: %d", tbl.Len())
	}
	want := make([]string, n)
	for i := range want {
		want[i] = fmt.Sprintf("detail-%d", i)
	}
	if got := tbl.Column("content"); !reflect.DeepEqual(got, want) {
		t.Errorf("content column out of order:\n got %v\nwant %v", got, want)
	}
}

func TestEnrichColumnResolvesRelativeLinks(t *testing.T) {
	srv := detailServer(false)
	defer srv.Close()

	tbl := linkTable([]string{"/d/1", "/d/2"})

	cfg := testConfig(srv.URL)
	cfg.Source.LinkBase = srv.URL + "/"
	s := newTestScraper(t, cfg)

	if err := s.EnrichColumn(context.Background(), tbl, "content", "link", []string{"p.detail"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got := tbl.Column("content"); !reflect.DeepEqual(got, []string{"detail-1", "detail-2"}) {
		t.Errorf("content = %v", got)
	}
}

func TestEnrichColumnFetchFailureLeavesCellEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/d/2" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte(`<html><body><p class="detail">ok</p></body></html>`))
	}))
	defer srv.Close()

	tbl := linkTable([]string{srv.URL + "/d/1", srv.URL + "/d/2", srv.URL + "/d/3"})

	cfg := testConfig(srv.URL)
	s := newTestScraper(t, cfg)

	if err := s.EnrichColumn(context.Background(), tbl, "content", "link", []string{"p.detail"}); err != nil {
		t.Fatalf("a failed detail fetch must not be fatal: %v", err)
	}

	if got := tbl.Column("content"); !reflect.DeepEqual(got, []string{"ok", "", "ok"}) {
		t.Errorf("content = %v", got)
	}
	if s.Stats().CellsMissed.Load() != 1 {
		t.Errorf("CellsMissed = %d, want 1", s.Stats().CellsMissed.Load())
	}
}

func TestEnrichColumnNoSelectorMatch(t *testing.T) {
	srv := detailServer(false)
	defer srv.Close()

	tbl := linkTable([]string{srv.URL + "/d/1"})

	cfg := testConfig(srv.URL)
	s := newTestScraper(t, cfg)

	if err := s.EnrichColumn(context.Background(), tbl, "content", "link", []string{"div.absent"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got := tbl.Cell(0, "content"); got != "" {
		t.Errorf("expected empty cell, got %q", got)
	}
}

func TestEnrichColumnSelectorPriority(t *testing.T) {
	srv := detailServer(false)
	defer srv.Close()

	tbl := linkTable([]string{srv.URL + "/d/7"})

	cfg := testConfig(srv.URL)
	s := newTestScraper(t, cfg)

	// First selector misses; the second must win.
	if err := s.EnrichColumn(context.Background(), tbl, "content", "link", []string{"div.absent", "p.detail"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got := tbl.Cell(0, "content"); got != "detail-7" {
		t.Errorf("content = %q, want detail-7", got)
	}
}

func TestEnrichColumnMissingLinkColumn(t *testing.T) {
	srv := detailServer(false)
	defer srv.Close()

	tbl := table.New([]string{"title"})
	cfg := testConfig(srv.URL)
	s := newTestScraper(t, cfg)

	if err := s.EnrichColumn(context.Background(), tbl, "content", "link", []string{"p"}); err == nil {
		t.Error("expected error for missing link column")
	}
}
