package prom

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnCrawlComplete(ctx, "R", 3, time.Second, nil)
	m.OnCrawlComplete(ctx, "R", 0, time.Second, stderrors.New("x"))
	m.OnNodeFetched(ctx, "A", 1, 4)
	m.OnNodeFetched(ctx, "B", 1, 2)
	m.OnNodeMemoized(ctx, "A", 2)
	m.OnNodeSkipped(ctx, "C", stderrors.New("x"))
	m.OnFrame(ctx, 7, time.Millisecond)
	m.OnCacheHit(ctx, "http")
	m.OnCacheMiss(ctx, "http")
	m.OnCacheSet(ctx, "http", 128)
	m.OnResponse(ctx, "GET", "inspirehep.net", "/api/authors/1", 200, time.Millisecond)
	m.OnResponse(ctx, "GET", "inspirehep.net", "/api/authors/2", 503, time.Millisecond)
	m.OnError(ctx, "GET", "inspirehep.net", "/", errors.New(errors.ErrCodeSourceUnavailable, "down"))
	m.OnError(ctx, "GET", "inspirehep.net", "/", stderrors.New("plain"))

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"crawls ok", m.crawls.WithLabelValues("ok"), 1},
		{"crawls error", m.crawls.WithLabelValues("error"), 1},
		{"fetched", m.nodes.WithLabelValues("fetched"), 2},
		{"memoized", m.nodes.WithLabelValues("memoized"), 1},
		{"skipped", m.nodes.WithLabelValues("skipped"), 1},
		{"frames", m.frames, 1},
		{"visible", m.visible, 7},
		{"cache hit", m.cacheOps.WithLabelValues("hit"), 1},
		{"cache bytes", m.cacheBytes, 128},
		{"2xx", m.requests.WithLabelValues("GET", "inspirehep.net", "2xx"), 1},
		{"5xx", m.requests.WithLabelValues("GET", "inspirehep.net", "5xx"), 1},
		{"coded error", m.requestErrors.WithLabelValues("inspirehep.net", "SOURCE_UNAVAILABLE"), 1},
		{"plain error", m.requestErrors.WithLabelValues("inspirehep.net", "unknown"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetrics_Install(t *testing.T) {
	t.Cleanup(observability.Reset)
	m := New(prometheus.NewRegistry())
	m.Install()

	if observability.Crawl() != observability.CrawlHooks(m) {
		t.Error("crawl hooks not installed")
	}
	observability.Layout().OnFrame(context.Background(), 1, 0)
	if got := testutil.ToFloat64(m.frames); got != 1 {
		t.Errorf("frames = %v, want 1", got)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := map[int]string{200: "2xx", 301: "3xx", 404: "4xx", 429: "4xx", 500: "5xx", 503: "5xx"}
	for status, want := range tests {
		if got := statusLabel(status); got != want {
			t.Errorf("statusLabel(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.OnFrame(context.Background(), 3, time.Millisecond)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	body := get(t, srv.URL+"/metrics", http.StatusOK)
	for _, want := range []string{"authorsphere_layout_frames_total 1", "authorsphere_layout_visible_nodes 3"} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
	if body := get(t, srv.URL+"/healthz", http.StatusOK); body != "ok\n" {
		t.Errorf("/healthz = %q", body)
	}
	get(t, srv.URL+"/nope", http.StatusNotFound)
}

func TestStartClose(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := Start("127.0.0.1:0", reg, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	get(t, "http://"+s.Addr()+"/healthz", http.StatusOK)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := http.Get("http://" + s.Addr() + "/healthz"); err == nil {
		t.Error("server still answering after Close")
	}
}

func get(t *testing.T, url string, wantStatus int) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}
