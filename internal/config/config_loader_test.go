package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSourcesJSON = `[
	{
		"name": "Busan",
		"id": 1,
		"base_url": "https://api.example.com/catalog",
		"service_key": "test-key",
		"area_code": "6",
		"content_type_id": "12"
	}
]`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfigFile(t, validSourcesJSON)

		sources, err := LoadConfigFromFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 1 {
			t.Fatalf("expected 1 source, got %d", len(sources))
		}
		if sources[0].Name != "Busan" || sources[0].AreaCode != "6" {
			t.Errorf("unexpected source: %+v", sources[0])
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.json"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeConfigFile(t, "{not json")
		_, err := LoadConfigFromFile(path)
		if err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		// base_url is not a URL and service_key is missing.
		path := writeConfigFile(t, `[{"name":"Bad","id":1,"base_url":"not-a-url"}]`)
		_, err := LoadConfigFromFile(path)
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "invalid source") {
			t.Errorf("expected validation error message, got %v", err)
		}
	})
}

func TestLoadConfigFromURL(t *testing.T) {
	t.Run("valid remote config", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(validSourcesJSON))
		}))
		defer ts.Close()

		sources, err := LoadConfigFromURL(context.Background(), ts.Client(), ts.URL, "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 1 {
			t.Errorf("expected 1 source, got %d", len(sources))
		}
	})

	t.Run("basic auth forwarded", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "admin" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(validSourcesJSON))
		}))
		defer ts.Close()

		_, err := LoadConfigFromURL(context.Background(), ts.Client(), ts.URL, "admin", "secret")
		if err != nil {
			t.Fatalf("unexpected error with correct credentials: %v", err)
		}

		_, err = LoadConfigFromURL(context.Background(), ts.Client(), ts.URL, "admin", "wrong")
		if err == nil {
			t.Fatal("expected error with wrong credentials")
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		_, err := LoadConfigFromURL(context.Background(), ts.Client(), ts.URL, "", "")
		if err == nil {
			t.Fatal("expected error for 404 response")
		}
	})
}

func TestValidateConfigFlags(t *testing.T) {
	tests := []struct {
		name       string
		configFile string
		configURL  string
		wantErr    bool
	}{
		{"file only", "config.json", "", false},
		{"url only", "", "https://example.com/config.json", false},
		{"both provided", "config.json", "https://example.com/config.json", true},
		{"neither provided", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigFlags(&tt.configFile, &tt.configURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigUpdateAndGetSources(t *testing.T) {
	cfg := NewConfig(4000, "testing", nil)

	if got := cfg.GetSources(); len(got) != 0 {
		t.Errorf("expected no sources initially, got %d", len(got))
	}

	sources, err := LoadConfigFromFile(writeConfigFile(t, validSourcesJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.UpdateConfig(sources)

	got := cfg.GetSources()
	if len(got) != 1 {
		t.Fatalf("expected 1 source, got %d", len(got))
	}

	// The returned slice is a copy; mutating it must not affect the config.
	got[0].Name = "mutated"
	if cfg.GetSources()[0].Name != "Busan" {
		t.Error("GetSources must return a copy, not the internal slice")
	}
}
