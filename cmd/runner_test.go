package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	tu "github.com/desertthunder/mympctl/internal/testing"
)

// myMPD is a small in-memory backend for the commands under test.
type myMPD struct {
	mu      sync.Mutex
	icons   []models.HomeIcon
	methods []string
	params  []map[string]any
}

func newMyMPD(t *testing.T) (*myMPD, *httptest.Server) {
	t.Helper()
	m := &myMPD{}
	for _, n := range []string{"Jazz", "Rock", "Blues"} {
		m.icons = append(m.icons, models.NewHomeIcon(n, "album", models.CmdReplaceQueue, "plist", n))
	}
	srv := httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(srv.Close)
	return m, srv
}

func (m *myMPD) called(method string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, name := range m.methods {
		if name == method {
			return m.params[i], true
		}
	}
	return nil, false
}

func (m *myMPD) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     int64          `json:"id"`
		Method string         `json:"method"`
		Params map[string]any `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.methods = append(m.methods, req.Method)
	m.params = append(m.params, req.Params)

	num := func(k string) int {
		f, _ := req.Params[k].(float64)
		return int(f)
	}

	var result any = map[string]any{"message": "ok"}
	switch req.Method {
	case "MYMPD_API_HOME_ICON_LIST":
		result = map[string]any{"returnedEntities": len(m.icons), "data": m.icons}
	case "MYMPD_API_HOME_ICON_GET":
		pos := num("pos")
		if pos >= len(m.icons) {
			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "error": map[string]any{"code": -32602, "message": "No such icon"}})
			return
		}
		result = map[string]any{"data": m.icons[pos]}
	case "MYMPD_API_HOME_ICON_MOVE":
		from, to := num("from"), num("to")
		icon := m.icons[from]
		rest := append(append([]models.HomeIcon(nil), m.icons[:from]...), m.icons[from+1:]...)
		m.icons = append(rest[:to], append([]models.HomeIcon{icon}, rest[to:]...)...)
	case "MYMPD_API_HOME_ICON_SAVE":
		b, _ := json.Marshal(req.Params)
		var icon models.HomeIcon
		json.Unmarshal(b, &icon)
		m.icons = append(m.icons, icon)
	case "MYMPD_API_PARTITION_LIST":
		result = map[string]any{"data": []models.Partition{{Name: "default"}, {Name: "kitchen"}}}
	case "MYMPD_API_PLAYER_OUTPUT_LIST":
		result = map[string]any{"numOutputs": 1, "data": []models.Output{{ID: 0, Name: "Speakers", State: 1, Plugin: "alsa"}}}
	}
	json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
}

// runApp runs the CLI against url with a config whose database lives in a temp dir.
func runApp(t *testing.T, dir, url string, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(cfg); err != nil {
		conf := fmt.Sprintf("[server]\nurl = %q\npartition = \"default\"\n\n[database]\npath = %q\n", url, filepath.Join(dir, "views.db"))
		if err := os.WriteFile(cfg, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Output: out, Logger: shared.NewLogger(io.Discard)})
	err := newApp(r).Run(context.Background(), append([]string{"mympctl", "--config", cfg}, args...))
	return out.String(), err
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.client == nil || runner.home == nil || runner.partitions == nil || runner.engine == nil {
				t.Error("expected services to be wired")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.client.Partition() != "default" {
				t.Errorf("expected default partition, got %s", runner.client.Partition())
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "home", "partition", "view", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command %d: expected %s, got %+v", i, want[i], cmd)
			}
		}
	})
}

func TestHomeCommands(t *testing.T) {
	t.Run("list prints icons", func(t *testing.T) {
		_, srv := newMyMPD(t)
		out, err := runApp(t, t.TempDir(), srv.URL, "home", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, name := range []string{"Jazz", "Rock", "Blues"} {
			if !strings.Contains(out, name) {
				t.Errorf("expected %s in output, got %s", name, out)
			}
		}
	})

	t.Run("list as markdown file", func(t *testing.T) {
		_, srv := newMyMPD(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "home.md")
		if _, err := runApp(t, dir, srv.URL, "home", "list", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "# Home (default)") {
			t.Errorf("expected markdown heading, got %s", content)
		}
	})

	t.Run("move prints server order", func(t *testing.T) {
		m, srv := newMyMPD(t)
		out, err := runApp(t, t.TempDir(), srv.URL, "home", "move", "0", "2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		params, ok := m.called("MYMPD_API_HOME_ICON_MOVE")
		if !ok || params["from"] != float64(0) || params["to"] != float64(2) {
			t.Errorf("expected move 0 -> 2, got %v", params)
		}
		if strings.Index(out, "Rock") > strings.Index(out, "Jazz") {
			t.Errorf("expected Rock before Jazz, got %s", out)
		}
	})

	t.Run("move to same position sends nothing", func(t *testing.T) {
		m, srv := newMyMPD(t)
		out, err := runApp(t, t.TempDir(), srv.URL, "home", "move", "1", "1")
		if err != nil {
			t.Fatalf("expected a no-op move to succeed, got %v", err)
		}
		if !strings.Contains(out, "nothing to move") {
			t.Errorf("expected nothing to move, got %q", out)
		}
		if _, ok := m.called("MYMPD_API_HOME_ICON_MOVE"); ok {
			t.Error("expected no move request")
		}
	})

	t.Run("get rejects bad position", func(t *testing.T) {
		_, srv := newMyMPD(t)
		_, err := runApp(t, t.TempDir(), srv.URL, "home", "get", "first")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("get unknown icon reports backend error", func(t *testing.T) {
		_, srv := newMyMPD(t)
		_, err := runApp(t, t.TempDir(), srv.URL, "home", "get", "9")
		if !errors.Is(err, shared.ErrBackend) {
			t.Errorf("expected ErrBackend, got %v", err)
		}
	})

	t.Run("add validates before sending", func(t *testing.T) {
		m, srv := newMyMPD(t)
		_, err := runApp(t, t.TempDir(), srv.URL, "home", "add", "--name", "Bad", "--option", "song", "--option", "a.flac", "--bgcolor", "red")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if _, ok := m.called("MYMPD_API_HOME_ICON_SAVE"); ok {
			t.Error("expected no save request")
		}
	})

	t.Run("export and dry-run import", func(t *testing.T) {
		m, srv := newMyMPD(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "home.yaml")

		if _, err := runApp(t, dir, srv.URL, "home", "export", "--output", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		out, err := runApp(t, dir, srv.URL, "home", "import", "--dry-run", path)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !strings.Contains(out, "Dry run") {
			t.Errorf("expected dry run notice, got %s", out)
		}
		if _, ok := m.called("MYMPD_API_HOME_ICON_SAVE"); ok {
			t.Error("dry run must not save")
		}

		out, err = runApp(t, dir, srv.URL, "home", "diff", path)
		if err != nil {
			t.Fatalf("diff failed: %v", err)
		}
		if !strings.Contains(out, "In sync") {
			t.Errorf("expected in sync, got %s", out)
		}
	})

	t.Run("ligatures search", func(t *testing.T) {
		out, err := runApp(t, t.TempDir(), "http://127.0.0.1:1", "home", "ligatures", "library_music")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(out, "library_music") {
			t.Errorf("expected exact match first, got %s", out)
		}
	})
}

func TestPartitionCommands(t *testing.T) {
	t.Run("list marks current", func(t *testing.T) {
		_, srv := newMyMPD(t)
		out, err := runApp(t, t.TempDir(), srv.URL, "partition", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "* default") || !strings.Contains(out, "  kitchen") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("default cannot be removed", func(t *testing.T) {
		m, srv := newMyMPD(t)
		_, err := runApp(t, t.TempDir(), srv.URL, "partition", "rm", "default")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if _, ok := m.called("MYMPD_API_PARTITION_RM"); ok {
			t.Error("expected no request")
		}
	})

	t.Run("partition flag addresses requests", func(t *testing.T) {
		_, srv := newMyMPD(t)
		out, err := runApp(t, t.TempDir(), srv.URL, "--partition", "kitchen", "partition", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "* kitchen") {
			t.Errorf("expected kitchen marked current, got %q", out)
		}
	})

	t.Run("move outputs needs names", func(t *testing.T) {
		_, srv := newMyMPD(t)
		_, err := runApp(t, t.TempDir(), srv.URL, "partition", "move-outputs")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestViewCommands(t *testing.T) {
	t.Run("goto persists across runs", func(t *testing.T) {
		dir := t.TempDir()
		url := "http://127.0.0.1:1"

		out, err := runApp(t, dir, url, "view", "goto", "Browse/Radio/Webradiodb", "--limit", "25", "--sort", "Name", "--desc")
		if err != nil {
			t.Fatalf("goto failed: %v", err)
		}
		if !strings.Contains(out, "current: Browse/Radio/Webradiodb") {
			t.Errorf("unexpected goto output %s", out)
		}

		out, err = runApp(t, dir, url, "view", "show")
		if err != nil {
			t.Fatalf("show failed: %v", err)
		}
		for _, want := range []string{"Browse/Radio/Webradiodb", "25", "-Name"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %s", want, out)
			}
		}
	})

	t.Run("goto unknown card", func(t *testing.T) {
		_, err := runApp(t, t.TempDir(), "http://127.0.0.1:1", "view", "goto", "Nowhere")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reset needs a single context", func(t *testing.T) {
		_, err := runApp(t, t.TempDir(), "http://127.0.0.1:1", "view", "reset", "Browse/Database")
		if !errors.Is(err, shared.ErrInvalidPath) {
			t.Errorf("expected ErrInvalidPath, got %v", err)
		}
		if exitCode(err) != 2 {
			t.Errorf("expected exit code 2, got %d", exitCode(err))
		}
	})
}

func TestExitCode(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"not implemented", shared.ErrNotImplemented, 0},
		{"no-op move", shared.ErrNoOpMove, 0},
		{"validation", fmt.Errorf("icon: %w", shared.ErrValidation), 2},
		{"missing argument", fmt.Errorf("%w: pos", shared.ErrMissingArgument), 2},
		{"invalid argument", fmt.Errorf("%w: pos", shared.ErrInvalidArgument), 2},
		{"unknown card", fmt.Errorf("%w: card %q", shared.ErrNotFound, "Nope"), 2},
		{"partial path", fmt.Errorf("%w: Browse/Database", shared.ErrInvalidPath), 2},
		{"backend", fmt.Errorf("move: %w", shared.ErrBackend), 1},
		{"other", errors.New("boom"), 1},
	}
	for _, c := range tc {
		t.Run(c.name, func(t *testing.T) {
			if got := exitCode(c.err); got != c.want {
				t.Errorf("exitCode(%v) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}
