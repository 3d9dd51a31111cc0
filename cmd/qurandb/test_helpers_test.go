package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
	dbDir      string
}

// newPagesServer serves a three-page ara-quransimple edition plus the info
// document, in the CDN's wire shapes.
func newPagesServer(t *testing.T, missingPages ...int) *httptest.Server {
	t.Helper()

	missing := make(map[int]bool, len(missingPages))
	for _, page := range missingPages {
		missing[page] = true
	}

	pages := map[int]string{
		1: `{"pages":[{"chapter":1,"verse":1,"text":"alpha"},{"chapter":1,"verse":2,"text":"beta"}]}`,
		2: `{"pages":[{"chapter":1,"verse":3,"text":"gamma"},{"chapter":2,"verse":1,"text":"delta"}]}`,
		3: `{"pages":[{"chapter":2,"verse":2,"text":"epsilon"}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/info.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chapters":[{"chapter":1,"name":"Al-Fatihah","arabicname":"الفاتحة"},{"chapter":2,"name":"Al-Baqarah","arabicname":"البقرة"}]}`)
	})
	mux.HandleFunc("/editions/ara-quransimple/pages/", func(w http.ResponseWriter, r *http.Request) {
		var page int
		name := strings.TrimSuffix(filepath.Base(r.URL.Path), ".json")
		if _, err := fmt.Sscanf(name, "%d", &page); err != nil {
			http.NotFound(w, r)
			return
		}
		body, ok := pages[page]
		if !ok || missing[page] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupCLITestEnv(t *testing.T, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    filepath.Join(base, "data"),
		dbDir:      filepath.Join(base, "databases"),
	}

	content := fmt.Sprintf(`[paths]
data_dir = %q
db_dir = %q
log_dir = %q

[api]
base_url = %q
request_timeout = 5

[download]
start_page = 1
end_page = 3
batch_size = 2
max_concurrent = 2
write_workers = 2

[logging]
format = "json"
level = "error"
`, env.dataDir, env.dbDir, filepath.Join(base, "logs"), baseURL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
