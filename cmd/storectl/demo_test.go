package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/store/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunDemoCounter(t *testing.T) {
	var out bytes.Buffer
	err := runDemo(demoOptions{
		scenario: "counter",
		steps:    3,
		logger:   discardLogger(),
		out:      &out,
	})
	if err != nil {
		t.Fatalf("runDemo() error: %v", err)
	}

	want := []string{
		"step 0: count=0 (renders=1) | parity=even (renders=1)",
		"step 1: count=1 (renders=2) | parity=odd (renders=2)",
		"step 2: count=2 (renders=3) | parity=even (renders=3)",
		"step 3: count=3 (renders=4) | parity=odd (renders=4)",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("frames:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRunDemoTodos(t *testing.T) {
	var out bytes.Buffer
	err := runDemo(demoOptions{
		scenario: "todos",
		steps:    4,
		logger:   discardLogger(),
		out:      &out,
	})
	if err != nil {
		t.Fatalf("runDemo() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("frames = %d, want 5:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[3], "list=[task-1,task-3]") {
		t.Errorf("filter=open should hide done tasks: %s", lines[3])
	}
	if !strings.Contains(lines[4], "done=2/4") {
		t.Errorf("last frame = %s, want done=2/4", lines[4])
	}
}

func TestRunDemoUnknownScenario(t *testing.T) {
	err := runDemo(demoOptions{scenario: "nope", logger: discardLogger(), out: io.Discard})
	if errors.Code(err) != "E301" {
		t.Errorf("runDemo(nope) = %v, want E301", err)
	}
}

func TestRunDemoMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	err := runDemo(demoOptions{
		scenario:  "counter",
		steps:     3,
		registry:  reg,
		namespace: "store",
		logger:    discardLogger(),
		out:       io.Discard,
	})
	if err != nil {
		t.Fatalf("runDemo() error: %v", err)
	}

	srv := httptest.NewServer(newMetricsRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`store_commits_total{status="success",store="counter"} 3`,
		`store_listeners{store="counter"} 2`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q:\n%s", want, body)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newMetricsRouter(prometheus.NewRegistry()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCounterReset(t *testing.T) {
	s := newCounterStore()
	s.GetState().Inc()
	s.GetState().Inc()
	s.GetState().Reset()
	if s.GetState().Count != 0 {
		t.Errorf("Count = %d after Reset, want 0", s.GetState().Count)
	}
}

func TestTodoToggleOutOfRange(t *testing.T) {
	s := newTodoStore()
	s.GetState().Add("a")
	s.GetState().Toggle(5)
	if got := s.GetState().Items; len(got) != 1 || got[0].Done {
		t.Errorf("Items = %+v", got)
	}
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDemoCommand(t *testing.T) {
	out, err := executeCmd(t, "demo", "--steps", "1", "--log-level", "error")
	if err != nil {
		t.Fatalf("demo command error: %v", err)
	}
	if !strings.Contains(out, "step 1: count=1") {
		t.Errorf("output = %q", out)
	}
}

func TestDemoCommandWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte(`{"demo": {"scenario": "todos", "steps": 2}, "log": {"level": "error"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCmd(t, "--config", path, "demo")
	if err != nil {
		t.Fatalf("demo command error: %v", err)
	}
	if !strings.Contains(out, "step 2: list=[task-1,task-2]") {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := executeCmd(t, "demo", "--log-level", "loud")
	if errors.Code(err) != "E122" {
		t.Errorf("error = %v, want E122", err)
	}
}

func TestDemoStepsFlagIsValidated(t *testing.T) {
	_, err := executeCmd(t, "demo", "--steps", "20000", "--log-level", "error")
	if errors.Code(err) != "E122" {
		t.Errorf("error = %v, want E122", err)
	}
}

func TestDemoZeroSteps(t *testing.T) {
	out, err := executeCmd(t, "demo", "--steps", "0", "--log-level", "error")
	if err != nil {
		t.Fatalf("demo command error: %v", err)
	}
	if strings.TrimSpace(out) != "step 0: count=0 (renders=1) | parity=even (renders=1)" {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCmd(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}
