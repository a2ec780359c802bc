package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bibnet/pkg/cache"
	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/pipeline"
	"github.com/matzehuels/bibnet/pkg/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
[analysis]
samples = 50
seed = 7
comparisons = ["a.txt", "b.txt"]
cache_ttl = "1h"

[cache]
redis_url = "redis://localhost:6379/0"

[server]
max_samples = 200
request_timeout = "30s"
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Samples != 50 || cfg.Analysis.Seed != 7 || len(cfg.Analysis.Comparisons) != 2 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Analysis.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.Analysis.CacheTTL)
	}
	if cfg.Cache.RedisURL == "" {
		t.Error("RedisURL not decoded")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default :8080", cfg.Server.Addr)
	}
	if cfg.Server.MaxSamples != 200 || cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownKey", "[analysis]\nsampels = 10\n"},
		{"UnknownTable", "[plots]\nwidth = 3\n"},
		{"Syntax", "[analysis\n"},
		{"Invalid", "[analysis]\nsamples = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.toml", tt.content), true)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want INVALID_CONFIG", errs.GetCode(err))
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("optional config: %v", err)
	}
	if cfg.Analysis.Seed != pipeline.DefaultSeed {
		t.Errorf("Seed = %d, want default %d", cfg.Analysis.Seed, pipeline.DefaultSeed)
	}

	if _, err := LoadConfig(path, true); err == nil {
		t.Error("required config: expected error")
	}
}

func TestMergeOptions(t *testing.T) {
	var flags pipeline.Options
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&flags.Samples, "samples", pipeline.DefaultSamples, "")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", pipeline.DefaultSeed, "")
	cmd.Flags().BoolVar(&flags.SkipOptimized, "skip-optimized", false, "")
	if err := cmd.ParseFlags([]string{"--samples=7", "--skip-optimized"}); err != nil {
		t.Fatal(err)
	}

	base := pipeline.Options{Samples: 50, Seed: 99, Comparisons: []string{"x.txt"}}
	got := mergeOptions(base, flags, cmd)
	if got.Samples != 7 {
		t.Errorf("Samples = %d, want flag value 7", got.Samples)
	}
	if got.Seed != 99 {
		t.Errorf("Seed = %d, want config value 99", got.Seed)
	}
	if !got.SkipOptimized {
		t.Error("SkipOptimized not taken from flag")
	}
	if len(got.Comparisons) != 1 {
		t.Errorf("Comparisons = %v, want config value kept", got.Comparisons)
	}
}

func TestLoadComparisons(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	path := writeFile(t, "ca-GrQc.txt", "# SNAP\n1\t2\n2\t3\n3\t1\n")

	got, err := c.loadComparisons([]string{path, "grqc=" + path}, false)
	if err != nil {
		t.Fatalf("loadComparisons: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d comparisons, want 2", len(got))
	}
	if got[0].Name != "ca-GrQc" || got[1].Name != "grqc" {
		t.Errorf("names = %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].Network.Len() != 3 || got[0].Network.EdgeCount() != 3 {
		t.Errorf("network = %d vertices, %d edges; want 3, 3", got[0].Network.Len(), got[0].Network.EdgeCount())
	}

	if _, err := c.loadComparisons([]string{"missing=" + filepath.Join(t.TempDir(), "none.txt")}, false); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"graph.json":           "graph",
		"/data/ca-HepPh.txt":   "ca-HepPh",
		"dir/archive.tar.gz":   "archive.tar",
		"no-extension":         "no-extension",
		"./reports/run-1.json": "run-1",
	}
	for in, want := range tests {
		if got := baseName(in); got != want {
			t.Errorf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSampleProgressModel(t *testing.T) {
	cancelled := false
	m := NewSampleProgressModel("Sampling", func() { cancelled = true })

	send := func(msg tea.Msg) tea.Cmd {
		next, cmd := m.Update(msg)
		m = next.(SampleProgressModel)
		return cmd
	}

	send(progressMsg{Network: "hep", Strategy: "random", Statistic: "modularity", Done: 10, Target: 100})
	send(progressMsg{Network: "hep", Strategy: "random", Statistic: "insularity", Done: 5, Target: 100})
	send(progressMsg{Network: "hep", Strategy: "random", Statistic: "modularity", Done: 40, Target: 100})

	if len(m.Labels) != 2 {
		t.Fatalf("Labels = %v, want 2 entries", m.Labels)
	}
	if m.Labels[0] != "hep random modularity" {
		t.Errorf("Labels[0] = %q", m.Labels[0])
	}
	if got := m.State["hep random modularity"].Done; got != 40 {
		t.Errorf("Done = %d, want 40", got)
	}
	if view := m.View(); !strings.Contains(view, "40/100") || !strings.Contains(view, "Sampling") {
		t.Errorf("View missing progress:\n%s", view)
	}

	send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !cancelled {
		t.Error("q did not cancel")
	}

	if cmd := send(finishedMsg{}); cmd == nil || !m.Finished {
		t.Error("finished message should quit")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		done, total, filled int
	}{
		{0, 10, 0},
		{5, 10, 10},
		{10, 10, 20},
		{15, 10, 20},
		{3, 0, 0},
	}
	for _, tt := range tests {
		got := bar(tt.done, tt.total, 20)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("bar(%d, %d) filled = %d, want %d", tt.done, tt.total, n, tt.filled)
		}
		if n := strings.Count(got, "█") + strings.Count(got, "░"); n != 20 {
			t.Errorf("bar(%d, %d) width = %d, want 20", tt.done, tt.total, n)
		}
	}
}

func TestNewCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	ctx := context.Background()

	ch, err := c.newCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("--no-cache: got %T, want NullCache", ch)
	}

	c.Config.Cache.Dir = t.TempDir()
	c.Config.Cache.RedisURL = "notredis://host"
	ch, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := ch.(*cache.FileCache)
	if !ok {
		t.Fatalf("unreachable redis: got %T, want *FileCache", ch)
	}
	if fc.Dir() != c.Config.Cache.Dir {
		t.Errorf("Dir = %q, want %q", fc.Dir(), c.Config.Cache.Dir)
	}
}

func TestNewStore(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Store.Dir = t.TempDir()
	st, err := c.newStore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	fs, ok := st.(*store.FileStore)
	if !ok {
		t.Fatalf("got %T, want *FileStore", st)
	}
	if fs.Dir() != c.Config.Store.Dir {
		t.Errorf("Dir = %q, want %q", fs.Dir(), c.Config.Store.Dir)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	want := []string{"analyze", "build", "cache", "render", "reports", "serve"}
	var got []string
	for _, sub := range root.Commands() {
		got = append(got, sub.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			found = found || g == name
		}
		if !found {
			t.Errorf("missing subcommand %q (have %v)", name, got)
		}
	}
}

func TestRootCommandConfigFlag(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	path := writeFile(t, "config.toml", "[analysis]\nsamples = 12\n")

	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "path"})
	root.SetOut(&bytes.Buffer{})
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if c.Config.Analysis.Samples != 12 {
		t.Errorf("Samples = %d, want 12 from config", c.Config.Analysis.Samples)
	}
}

func TestNewRunnerNamespace(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Dir = t.TempDir()
	c.Config.Cache.Namespace = "pubmed"

	r, err := c.newRunner(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if key := r.Keyer.GraphKey("abc", "citation"); !strings.HasPrefix(key, "pubmed:") {
		t.Errorf("GraphKey = %q, want pubmed: prefix", key)
	}
}
