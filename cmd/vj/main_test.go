package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/gemini"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
)

const testKey = "test-key"

type fakeGemini struct {
	*httptest.Server
	mu      sync.Mutex
	prompts []string
}

// newFakeGemini answers every generateContent call with reply.
func newFakeGemini(t *testing.T, reply string) *fakeGemini {
	t.Helper()
	f := &fakeGemini{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != testKey {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
			return
		}
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.prompts = append(f.prompts, req.Contents[0].Parts[0].Text)
		f.mu.Unlock()

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": reply}}},
			}},
		})
	}))
	t.Cleanup(f.Close)
	return f
}

// writeConfig writes a config pointing at a fresh vault and the fake server.
func writeConfig(t *testing.T, baseURL string) (cfgPath, vault string) {
	t.Helper()
	dir := t.TempDir()
	vault = filepath.Join(dir, "vault")
	cfg := config.DefaultConfig()
	cfg.VaultPath = vault
	cfg.Provider.APIKey = testKey
	cfg.Provider.BaseURL = baseURL
	cfgPath = filepath.Join(dir, "config.toml")
	if err := config.Save(cfgPath, cfg); err != nil {
		t.Fatal(err)
	}
	return cfgPath, vault
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd(&app{stdin: strings.NewReader(stdin)})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("vj %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return out
}

func todayNote(vault string) string {
	return filepath.Join(vault, "journal", "daily", time.Now().Format("2006-01-02")+".md")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "", "version", "--config", filepath.Join(t.TempDir(), "none.toml"))
	if !strings.HasPrefix(out, "vj v") {
		t.Errorf("version = %q", out)
	}
}

func TestMan(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "", "man", dir, "--date", "2026-01-02", "--config", filepath.Join(dir, "none.toml"))

	for _, name := range []string{"vj.1", "vj-stats.1", "vj-archive-show.1", "vj-config-set.1"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "vj-man.1")); !os.IsNotExist(err) {
		t.Error("hidden man command got a page")
	}
	data, err := os.ReadFile(filepath.Join(dir, "vj-history.1"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `.TH VJ-HISTORY 1 "2026-01-02" "vj dev"`) {
		t.Errorf("header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestStyles(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://unused")
	mustRun(t, "", "config", "set", "default_style", "bullet", "--config", cfgPath)

	out := mustRun(t, "", "styles", "--config", cfgPath)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("styles output:\n%s", out)
	}
	if !strings.HasPrefix(lines[2], "* bullet") {
		t.Errorf("default not marked: %q", lines[2])
	}
}

func TestTransform_Print(t *testing.T) {
	srv := newFakeGemini(t, "# Día tranquilo\n\nFui al parque.")
	cfgPath, vault := writeConfig(t, srv.URL)

	out := mustRun(t, "", "transform", "--style", "narrative", "--config", cfgPath, "fui", "al", "parque")
	if out != "# Día tranquilo\n\nFui al parque.\n" {
		t.Errorf("output = %q", out)
	}
	if len(srv.prompts) != 1 || !strings.HasSuffix(srv.prompts[0], "\n\nfui al parque") {
		t.Errorf("prompts = %q", srv.prompts)
	}
	if _, err := os.Stat(todayNote(vault)); !os.IsNotExist(err) {
		t.Error("transform without --save wrote a note")
	}
}

func TestTransform_SaveThenQuery(t *testing.T) {
	srv := newFakeGemini(t, "# Día tranquilo\n\nFui al parque. #paseo")
	cfgPath, vault := writeConfig(t, srv.URL)

	out := mustRun(t, "fui al parque\n", "transform", "--save", "--config", cfgPath)
	if !strings.HasPrefix(out, "saved: journal/daily/") {
		t.Errorf("output = %q", out)
	}
	mustRun(t, "", "transform", "--save", "--config", cfgPath, "otra vez")

	data, err := os.ReadFile(todayNote(vault))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if strings.Count(string(data), "\n\n---\n\n") != 1 {
		t.Errorf("note = %q", data)
	}

	hist := mustRun(t, "", "history", "--config", cfgPath)
	if strings.Count(hist, "Día tranquilo  #paseo") != 2 {
		t.Errorf("history:\n%s", hist)
	}

	found := mustRun(t, "", "search", "PARQUE", "--format", "json", "--config", cfgPath)
	var entries []map[string]any
	if err := json.Unmarshal([]byte(found), &entries); err != nil {
		t.Fatalf("search json: %v\n%s", err, found)
	}
	if len(entries) != 2 || entries[0]["style"] != "structured" {
		t.Errorf("search = %v", entries)
	}

	id := entries[0]["id"].(string)
	rel := mustRun(t, "", "related", id[:8], "--config", cfgPath)
	if !strings.Contains(rel, "Día tranquilo") {
		t.Errorf("related:\n%s", rel)
	}

	if out := mustRun(t, "", "reindex", "--config", cfgPath); out != "indexed 2 entries\n" {
		t.Errorf("reindex = %q", out)
	}

	st := mustRun(t, "", "stats", "--config", cfgPath)
	for _, want := range []string{"  entries              2\n", "  current streak       1 day\n", "#paseo"} {
		if !strings.Contains(st, want) {
			t.Errorf("stats missing %q:\n%s", want, st)
		}
	}
}

func TestTransform_Errors(t *testing.T) {
	srv := newFakeGemini(t, "x")
	cfgPath, _ := writeConfig(t, srv.URL)

	if _, _, err := run(t, "   ", "transform", "--config", cfgPath); !errors.Is(err, transform.ErrEmptyInput) {
		t.Errorf("blank stdin: err = %v", err)
	}
	if _, _, err := run(t, "", "transform", "--style", "haiku", "--config", cfgPath, "x"); err == nil {
		t.Error("unknown style accepted")
	}

	mustRun(t, "", "config", "set", "provider.api_key", "wrong", "--config", cfgPath)
	_, _, err := run(t, "", "transform", "--config", cfgPath, "x")
	var apiErr *gemini.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("bad key: err = %v", err)
	}
}

func TestTransform_MissingCredential(t *testing.T) {
	t.Setenv("VJ_TEST_EMPTY", "")
	cfgPath, _ := writeConfig(t, "http://unused")
	mustRun(t, "", "config", "set", "provider.api_key", "", "--config", cfgPath)
	mustRun(t, "", "config", "set", "provider.api_key_env", "VJ_TEST_EMPTY", "--config", cfgPath)

	_, _, err := run(t, "", "transform", "--config", cfgPath, "x")
	if !errors.Is(err, gemini.ErrMissingCredential) {
		t.Errorf("err = %v, want ErrMissingCredential", err)
	}
}

func TestSelection_Empty(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://unused")
	out, errOut, err := run(t, "  \n", "selection", "--config", cfgPath)
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if out != "" || !strings.Contains(errOut, "Selecciona texto primero") {
		t.Errorf("stdout = %q, stderr = %q", out, errOut)
	}
}

func TestConfigShowMasksKey(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://unused")

	out := mustRun(t, "", "config", "show", "--config", cfgPath)
	if strings.Contains(out, testKey) || !strings.Contains(out, "provider.api_key = ********") {
		t.Errorf("show:\n%s", out)
	}
	if got := mustRun(t, "", "config", "path", "--config", cfgPath); got != cfgPath+"\n" {
		t.Errorf("path = %q", got)
	}
	if _, _, err := run(t, "", "config", "set", "no_such_key", "x", "--config", cfgPath); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("unknown key: err = %v", err)
	}
}

func TestArchive(t *testing.T) {
	cfgPath, vault := writeConfig(t, "http://unused")
	daily := filepath.Join(vault, "journal", "daily")
	os.MkdirAll(daily, 0o755)
	os.WriteFile(filepath.Join(daily, "2020-01-01.md"), []byte("# Viejo"), 0o644)
	os.WriteFile(filepath.Join(daily, "2020-02-01.md"), []byte("# Menos viejo"), 0o644)

	out := mustRun(t, "", "archive", "--before", "2020-02-01", "--config", cfgPath)
	if out != "archived: 2020-01-01.md.zst\n" {
		t.Errorf("archive = %q", out)
	}
	if _, err := os.Stat(filepath.Join(daily, "2020-01-01.md")); !os.IsNotExist(err) {
		t.Error("original kept")
	}

	if got := mustRun(t, "", "archive", "show", "2020-01-01", "--config", cfgPath); got != "# Viejo" {
		t.Errorf("show = %q", got)
	}
	if _, _, err := run(t, "", "archive", "show", "2020-02-01", "--config", cfgPath); err == nil {
		t.Error("show of unarchived date should fail")
	}
}

func TestArchiveCutoff(t *testing.T) {
	now := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	got, err := archiveCutoff("", now)
	if err != nil || !got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default cutoff = %v, %v", got, err)
	}
	if _, err := archiveCutoff("17/03/2026", now); err == nil {
		t.Error("bad date accepted")
	}
}

func TestCheckFails(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.VaultPath = "/nonexistent/vault/path"
	config.Save(cfgPath, cfg)

	out, _, err := run(t, "", "check", "--config", cfgPath)
	if !errors.Is(err, errChecksFailed) {
		t.Errorf("err = %v", err)
	}
	if !strings.HasPrefix(out, "vj check") {
		t.Errorf("report = %q", out)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg", "config.toml")
	vault := filepath.Join(dir, "notas")

	out := mustRun(t, "", "init", vault, "--config", cfgPath)
	if !strings.Contains(out, "created: journal/daily/_README.md") {
		t.Errorf("init output:\n%s", out)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil || cfg.VaultPath != vault {
		t.Errorf("config vault = %q, %v", cfg.VaultPath, err)
	}

	if _, _, err := run(t, "", "init", vault, "--config", cfgPath); err == nil {
		t.Error("second init should refuse")
	}
}

// TestBinary drives the compiled binary end to end.
func TestBinary(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := filepath.Join(t.TempDir(), "vj")
	build := exec.Command("go", "build", "-o", bin, ".")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("build vj: %v", err)
	}

	srv := newFakeGemini(t, "# Desde el binario")
	cfgPath, vault := writeConfig(t, srv.URL)

	cmd := exec.Command(bin, "transform", "--save", "--config", cfgPath)
	cmd.Stdin = strings.NewReader("texto suelto")
	cmd.Env = []string{"PATH=" + os.Getenv("PATH"), "HOME=" + t.TempDir(), "XDG_CONFIG_HOME=" + t.TempDir()}
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("vj transform: %v\nstderr: %s", err, stderr.String())
	}
	data, err := os.ReadFile(todayNote(vault))
	if err != nil || string(data) != "# Desde el binario" {
		t.Errorf("note = %q, %v", data, err)
	}

	fail := exec.Command(bin, "search", " ", "--config", cfgPath)
	fail.Env = cmd.Env
	var failErr bytes.Buffer
	fail.Stderr = &failErr
	if err := fail.Run(); err == nil {
		t.Error("blank search should exit non-zero")
	}
	if !strings.HasPrefix(failErr.String(), "vj: ") {
		t.Errorf("stderr = %q", failErr.String())
	}
}
