package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCLI executes rootCmd with args and returns what it wrote to stdout.
// Flag variables are reset first since cobra keeps them between runs.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, logLevel, jsonOutput = "", "", false
	pruneDryRun = false
	postersDryRun, postersSkipExisting, postersNoCache = false, false, false
	matchType, matchNoCache = "movie", false
	cacheAll, configForce = false, false
	cfg, logger = nil, nil

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

// fakeTMDB serves the handful of TMDB endpoints postarr uses.
type fakeTMDB struct {
	t        *testing.T
	server   *httptest.Server
	mux      *http.ServeMux
	mu       sync.Mutex
	searches []string
}

func newFakeTMDB(t *testing.T) *fakeTMDB {
	t.Helper()
	f := &fakeTMDB{t: t, mux: http.NewServeMux()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "" || strings.HasPrefix(r.URL.Path, "/t/p/") {
			f.mux.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(f.server.Close)
	return f
}

// Search registers results for /3/search/{kind}, returned for any query.
func (f *fakeTMDB) Search(kind string, results ...map[string]any) *fakeTMDB {
	f.mux.HandleFunc("/3/search/"+kind, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		f.mu.Lock()
		f.searches = append(f.searches, kind+":"+q)
		f.mu.Unlock()
		respondJSON(f.t, w, map[string]any{"page": 1, "total_results": len(results), "results": results})
	})
	return f
}

// Searches returns the "kind:query" pairs seen so far.
func (f *fakeTMDB) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

// Record registers a detail record with a poster path.
func (f *fakeTMDB) Record(kind string, id int64, posterPath string) *fakeTMDB {
	f.mux.HandleFunc(fmt.Sprintf("/3/%s/%d", kind, id), func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(f.t, w, map[string]any{"id": id, "poster_path": posterPath})
	})
	return f
}

// Image serves body at /t/p/original{path}.
func (f *fakeTMDB) Image(path string, body []byte) *fakeTMDB {
	f.mux.HandleFunc("/t/p/original"+path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	})
	return f
}

// writeConfig writes a config pointing at the fake server with caching off.
func (f *fakeTMDB) writeConfig(t *testing.T, moviesRoot, seriesRoot string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "postarr.toml")
	content := fmt.Sprintf(`
[libraries.movies]
root = %q

[libraries.series]
root = %q

[tmdb]
api_key = "test-key"
base_url = %q
image_base_url = %q
rate_limit = 1000

[cache]
enabled = false

[log]
level = "error"
`, moviesRoot, seriesRoot, f.server.URL, f.server.URL+"/t/p")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

// mkdirs creates title folders under root, each with the given files.
func mkdirs(t *testing.T, root string, folders map[string][]string) {
	t.Helper()
	for folder, files := range folders {
		dir := filepath.Join(root, folder)
		require.NoError(t, os.MkdirAll(dir, 0755))
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
		}
	}
}
