package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

// fakeInspire serves three authors: 100 wrote one paper with 200 and 300.
type fakeInspire struct {
	*httptest.Server
	calls atomic.Int32
}

func newFakeInspire(t *testing.T) *fakeInspire {
	f := &fakeInspire{}
	names := map[string]string{"100": "Root Author", "200": "Alice", "300": "Bob"}
	papers := map[string][][]string{
		"100": {{"100", "200", "300"}},
		"200": {{"200", "100"}},
		"300": {{"300", "100"}},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if id, ok := strings.CutPrefix(r.URL.Path, "/authors/"); ok {
			name, found := names[id]
			if !found {
				http.NotFound(w, r)
				return
			}
			fmt.Fprintf(w, `{"metadata":{"name":{"preferred_name":%q}}}`, name)
			return
		}
		q := r.URL.Query().Get("q")
		var hits []string
		for id, records := range papers {
			if !strings.Contains(q, `"`+f.URL+"/authors/"+id+`"`) {
				continue
			}
			for _, rec := range records {
				var authors []string
				for _, a := range rec {
					authors = append(authors, fmt.Sprintf(`{"record":{"$ref":%q}}`, f.URL+"/authors/"+a))
				}
				hits = append(hits, `{"metadata":{"authors":[`+strings.Join(authors, ",")+`]}}`)
			}
		}
		fmt.Fprintf(w, `{"hits":{"hits":[%s],"total":%d},"links":{}}`, strings.Join(hits, ","), len(hits))
	}))
	t.Cleanup(f.Close)
	return f
}

// testEnv isolates XDG directories and returns flags pointing the CLI at
// the fake server and a temporary store.
func testEnv(t *testing.T, srv *fakeInspire) (storeFile string, common []string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	storeFile = filepath.Join(dir, "graph.json")
	return storeFile, []string{"--store", storeFile, "--inspire-url", srv.URL}
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	defer c.Close()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"crawl", "view", "layout", "store", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if f := root.PersistentFlags().Lookup("inspire-url"); f == nil || !f.Hidden {
		t.Error("--inspire-url should be a hidden persistent flag")
	}
}

func TestCrawlCommand(t *testing.T) {
	srv := newFakeInspire(t)
	storeFile, common := testEnv(t, srv)

	args := append([]string{"crawl", "100", "--depth", "1", "--interval", "1ms", "--no-cache"}, common...)
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("crawl: %v", err)
	}

	store, err := graph.ReadFile(storeFile)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	want := map[graph.NodeID]int{"100": 0, "200": 1, "300": 1}
	if store.Len() != len(want) {
		t.Fatalf("store has %d nodes, want %d", store.Len(), len(want))
	}
	for id, depth := range want {
		if got, ok := store.Depth(id); !ok || got != depth {
			t.Errorf("depth(%s) = %d, %v; want %d", id, got, ok, depth)
		}
	}

	// Everything is explored to depth 1 already.
	before := srv.calls.Load()
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("second crawl: %v", err)
	}
	if after := srv.calls.Load(); after != before {
		t.Errorf("memoized recrawl issued %d requests", after-before)
	}
}

func TestCrawlCommand_UsesCache(t *testing.T) {
	srv := newFakeInspire(t)
	storeFile, common := testEnv(t, srv)

	args := append([]string{"crawl", "100", "--depth", "0", "--interval", "1ms"}, common...)
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if err := os.Remove(storeFile); err != nil {
		t.Fatal(err)
	}
	before := srv.calls.Load()
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("crawl with empty store: %v", err)
	}
	if after := srv.calls.Load(); after != before {
		t.Errorf("cached responses not reused: %d new requests", after-before)
	}
}

func TestCrawlCommand_InvalidInput(t *testing.T) {
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)

	tests := map[string][]string{
		"bad root":   {"crawl", "a/b"},
		"bad policy": {"crawl", "100", "--policy", "retry"},
		"neg depth":  {"crawl", "100", "--depth", "-1"},
		"deep":       {"crawl", "100", "--depth", "9"},
		"zero cap":   {"crawl", "100", "--degree-cap", "0"},
		"since":      {"crawl", "100", "--since=-2019"},
		"zero width": {"layout", "100", "--offline", "--width", "0"},
		"neg height": {"layout", "100", "--offline", "--height=-3"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			err := runCLI(t, append(args, common...)...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
	if srv.calls.Load() != 0 {
		t.Errorf("invalid input reached the data source %d times", srv.calls.Load())
	}
}

func TestInspireURLValidated(t *testing.T) {
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)
	for _, u := range []string{"ftp://inspirehep.net/api", "inspirehep.net/api"} {
		err := runCLI(t, append(common, "crawl", "100", "--inspire-url", u)...)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("--inspire-url %q: error = %v, want INVALID_INPUT", u, err)
		}
	}
}

func TestConfigWindowSizeValidated(t *testing.T) {
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)

	cfgDir, _ := configDir()
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[window]\nwidth = 0\nheight = 900\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	err := runCLI(t, append([]string{"layout", "100", "--offline"}, common...)...)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestCrawlCommand_UnknownRootAborts(t *testing.T) {
	srv := newFakeInspire(t)
	storeFile, common := testEnv(t, srv)

	err := runCLI(t, append([]string{"crawl", "999", "--interval", "1ms", "--no-cache"}, common...)...)
	if err == nil {
		t.Fatal("crawl of unknown author succeeded")
	}
	if _, statErr := os.Stat(storeFile); !os.IsNotExist(statErr) {
		t.Error("aborted crawl wrote a store")
	}
}

func TestLayoutCommand_JSON(t *testing.T) {
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)
	out := filepath.Join(t.TempDir(), "layout.json")

	args := append([]string{"layout", "100", "--depth", "1", "--interval", "1ms", "--no-cache",
		"--frames", "25", "--seed", "9", "-f", "json", "-o", out}, common...)
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc layoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if doc.Width != defaultWidth || doc.Height != defaultHeight || doc.Root != "100" {
		t.Errorf("header = %+v", doc)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("%d nodes, want 3", len(doc.Nodes))
	}
	for _, n := range doc.Nodes {
		if n.ID == "100" && (n.X != defaultWidth/2 || n.Y != defaultHeight/2) {
			t.Errorf("root at (%d,%d), want center", n.X, n.Y)
		}
		if n.X < 0 || n.X > defaultWidth || n.Y < 0 || n.Y > defaultHeight {
			t.Errorf("%s outside canvas: (%d,%d)", n.ID, n.X, n.Y)
		}
	}
}

func TestLayoutCommand_OfflineFormats(t *testing.T) {
	srv := newFakeInspire(t)
	storeFile, common := testEnv(t, srv)

	s := graph.NewStore()
	r := graph.NewNode("Root")
	r.AddEdge("2", 1)
	o := graph.NewNode("Other")
	o.AddEdge("1", 1)
	s.AddNode("1", r, 0)
	s.AddNode("2", o, 1)
	if err := graph.WriteFile(s, storeFile); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct{ format, want string }{
		{formatDOT, `"1" -- "2"`},
		{formatText, "●"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out")
			args := append([]string{"layout", "1", "--offline", "--frames", "5", "-f", tc.format, "-o", out}, common...)
			if err := runCLI(t, args...); err != nil {
				t.Fatalf("layout: %v", err)
			}
			data, _ := os.ReadFile(out)
			if !strings.Contains(string(data), tc.want) {
				t.Errorf("output missing %q:\n%s", tc.want, data)
			}
		})
	}
	if srv.calls.Load() != 0 {
		t.Error("offline layout queried the data source")
	}

	if err := runCLI(t, append([]string{"layout", "1", "--offline", "-f", "gif", "-o", filepath.Join(t.TempDir(), "x")}, common...)...); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestStoreCommands(t *testing.T) {
	srv := newFakeInspire(t)
	storeFile, common := testEnv(t, srv)

	if err := runCLI(t, append([]string{"crawl", "100", "--depth", "1", "--interval", "1ms", "--no-cache"}, common...)...); err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if err := runCLI(t, append([]string{"store", "stats"}, common...)...); err != nil {
		t.Fatalf("store stats: %v", err)
	}
	if err := runCLI(t, append([]string{"store", "clear"}, common...)...); err != nil {
		t.Fatalf("store clear: %v", err)
	}
	if _, err := os.Stat(storeFile); !os.IsNotExist(err) {
		t.Errorf("store file still present after clear: %v", err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)

	if err := runCLI(t, append([]string{"crawl", "100", "--depth", "0", "--interval", "1ms"}, common...)...); err != nil {
		t.Fatalf("crawl: %v", err)
	}
	dir, _ := cacheDir()
	if entries, _ := os.ReadDir(dir); len(entries) == 0 {
		t.Fatal("crawl left no cache entries")
	}
	if err := runCLI(t, append([]string{"cache", "clear"}, common...)...); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("%d cache entries left after clear", len(entries))
	}
}

func TestConfigFileSetsDefaults(t *testing.T) {
	srv := newFakeInspire(t)
	storeFile, common := testEnv(t, srv)

	cfgDir, _ := configDir()
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[crawl]\ndepth = 0\ninterval = \"1ms\"\n\n[cache]\ndisabled = true\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, append([]string{"crawl", "100"}, common...)...); err != nil {
		t.Fatalf("crawl: %v", err)
	}
	store, err := graph.ReadFile(storeFile)
	if err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("config depth 0 ignored: %d nodes", store.Len())
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)
	args := append([]string{"store", "path", "--config", filepath.Join(t.TempDir(), "nope.toml")}, common...)
	if err := runCLI(t, args...); err == nil {
		t.Error("missing --config file accepted")
	}
}

func TestMetricsFlag(t *testing.T) {
	t.Cleanup(observability.Reset)
	srv := newFakeInspire(t)
	_, common := testEnv(t, srv)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"store", "path", "--metrics-addr", "127.0.0.1:0"}, common...))
	if err := root.Execute(); err != nil {
		t.Fatalf("store path: %v", err)
	}
	if c.metrics == nil {
		t.Fatal("metrics server not started")
	}
	resp, err := http.Get("http://" + c.metrics.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
