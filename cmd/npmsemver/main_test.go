package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeRegistry(t *testing.T, packages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := packages[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	return path
}

func TestMainWithFlags(t *testing.T) {
	srv := fakeRegistry(t, map[string]string{
		"/express": `{"dist-tags": {"latest": "4.19.2"}, "versions": {"4.19.2": {}}}`,
		"/lodash":  `{"dist-tags": {"latest": "4.17.21"}, "versions": {"4.17.21": {}}}`,
	})

	tmpDir := t.TempDir()
	manifestPath := writeManifest(t, tmpDir, `{
  "dependencies": {
    "express": "4.18.0",
    "lodash": "4.17.21"
  }
}`)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "missing manifest",
			args:    []string{"-registry", srv.URL, "-manifest", filepath.Join(tmpDir, "nope.json")},
			wantErr: true,
		},
		{
			name:    "nonexistent config",
			args:    []string{"-config", "nonexistent.yaml"},
			wantErr: true,
		},
		{
			name:    "bad mode",
			args:    []string{"-registry", srv.URL, "-mode", "newest"},
			wantErr: true,
		},
		{
			name:    "bad filter",
			args:    []string{"-registry", srv.URL, "-filter", "/[/"},
			wantErr: true,
		},
		{
			name:    "help",
			args:    []string{"-help"},
			wantErr: false,
		},
		{
			name:    "dry run against fake registry",
			args:    []string{"-registry", srv.URL, "-dry-run"},
			wantErr: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := mainWithFlags(tc.args, tmpDir)
			if tc.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}

	// The dry run must not have touched the manifest.
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("reading manifest back: %v", err)
	}
	if !strings.Contains(string(data), `"express": "4.18.0"`) {
		t.Errorf("dry run modified the manifest:\n%s", data)
	}
}

func TestMainWithFlagsUpdatesManifest(t *testing.T) {
	srv := fakeRegistry(t, map[string]string{
		"/express": `{"dist-tags": {"latest": "4.19.2"}, "versions": {"4.19.2": {}}}`,
		"/mocha":   `{"dist-tags": {"latest": "10.4.0"}, "versions": {"10.4.0": {}}}`,
	})

	tmpDir := t.TempDir()
	path := writeManifest(t, tmpDir, `{
  "name": "demo-app",
  "dependencies": {
    "express": "^3.0.0"
  },
  "devDependencies": {
    "mocha": "10.x"
  }
}`)

	if err := mainWithFlags([]string{"-registry", srv.URL}, tmpDir); err != nil {
		t.Fatalf("mainWithFlags failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest back: %v", err)
	}
	got := string(data)

	// ^3.0.0 does not reach 4.19.2, so the declaration advances; the caret
	// style is preserved.
	if !strings.Contains(got, `"express": "^4.19.2"`) {
		t.Errorf("express not upgraded:\n%s", got)
	}
	// 10.x already covers 10.4.0, so mocha stays untouched.
	if !strings.Contains(got, `"mocha": "10.x"`) {
		t.Errorf("mocha should be unchanged:\n%s", got)
	}
	if !strings.Contains(got, `"name": "demo-app"`) {
		t.Errorf("manifest structure damaged:\n%s", got)
	}
}

func TestMainWithFlagsPartialFailure(t *testing.T) {
	srv := fakeRegistry(t, map[string]string{
		"/express": `{"dist-tags": {"latest": "4.19.2"}, "versions": {"4.19.2": {}}}`,
	})

	tmpDir := t.TempDir()
	path := writeManifest(t, tmpDir, `{
  "dependencies": {
    "express": "^3.0.0",
    "unpublished-internal-pkg": "1.0.0"
  }
}`)

	// The failed lookup is reported but must not abort the batch.
	if err := mainWithFlags([]string{"-registry", srv.URL}, tmpDir); err != nil {
		t.Fatalf("mainWithFlags failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest back: %v", err)
	}
	if !strings.Contains(string(data), `"express": "^4.19.2"`) {
		t.Errorf("express not upgraded despite other lookup failing:\n%s", data)
	}
	if !strings.Contains(string(data), `"unpublished-internal-pkg": "1.0.0"`) {
		t.Errorf("failed lookup should leave declaration untouched:\n%s", data)
	}
}

func TestMainWithFlagsConfigFile(t *testing.T) {
	srv := fakeRegistry(t, map[string]string{
		"/a": `{"dist-tags": {"latest": "2.0.0"}, "versions": {"1.0.0": {}, "2.0.0": {}, "2.5.0": {}}}`,
		"/b": `{"dist-tags": {"latest": "5.0.0"}, "versions": {"5.0.0": {}}}`,
	})

	tmpDir := t.TempDir()
	path := writeManifest(t, tmpDir, `{
  "dependencies": {
    "a": "1.0.0",
    "b": "4.0.0"
  }
}`)

	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := fmt.Sprintf(`
registry: %s
mode: greatest
filter:
  - a
`, srv.URL)
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := mainWithFlags([]string{"-config", configPath}, tmpDir); err != nil {
		t.Fatalf("mainWithFlags failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest back: %v", err)
	}
	got := string(data)

	// greatest mode picks the unpromoted 2.5.0 for a, ahead of the latest tag.
	if !strings.Contains(got, `"a": "2.5.0"`) {
		t.Errorf("a not upgraded under greatest mode:\n%s", got)
	}
	// b is excluded by the filter and never queried.
	if !strings.Contains(got, `"b": "4.0.0"`) {
		t.Errorf("filtered dependency should be untouched:\n%s", got)
	}
}
