package bootstrap_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/artpar/primitives/adapters/clock"
	"github.com/artpar/primitives/bootstrap"
	"github.com/artpar/primitives/config"
)

var morning = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	return cfg
}

func newApp(t *testing.T, cfg *config.Config) *bootstrap.App {
	t.Helper()
	a, err := bootstrap.New(cfg, bootstrap.Options{
		Version:    "test",
		Prometheus: prometheus.NewRegistry(),
		Clock:      clock.NewFake(morning),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return a
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerCustomer(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/customers",
		`{"name":"John Doe","iban":"GB82WEST12345698765432","birth_date":"1980-01-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /customers status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var doc struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc.Data.ID
}

func TestNew_Memory(t *testing.T) {
	a := newApp(t, quietConfig())

	if a.DB != nil {
		t.Error("DB should be nil for the memory driver")
	}
	if a.HTTPServer == nil {
		t.Fatal("HTTPServer should not be nil")
	}
	if a.HTTPServer.Addr != "0.0.0.0:8080" {
		t.Errorf("Addr = %s, want 0.0.0.0:8080", a.HTTPServer.Addr)
	}
	if a.Registry == nil || a.Registry.Len() == 0 {
		t.Fatal("registry should hold the bank fragments")
	}
	if a.Metrics == nil || a.OpenAPI == nil || a.Schemas == nil {
		t.Fatal("metrics and documentation should be enabled by default")
	}

	id := registerCustomer(t, a.Router)

	rec := do(t, a.Router, http.MethodPost, "/transfers",
		`{"customer_id":"`+id+`","amount":"12.50","value_date":"20240115"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /transfers status = %d, want 201: %s", rec.Code, rec.Body)
	}

	rec = do(t, a.Router, http.MethodGet, "/customers/"+id+"/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET summary status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"12.50"`) && !strings.Contains(rec.Body.String(), `"12.5"`) {
		t.Errorf("summary should carry the total: %s", rec.Body)
	}
}

func TestNew_SystemRoutes(t *testing.T) {
	a := newApp(t, quietConfig())

	tests := []struct {
		path     string
		contains string
	}{
		{"/health", `"ok"`},
		{"/version", `"test"`},
		{"/openapi.json", `"Bank API"`},
		{"/schemas", "create-transfer"},
		{"/metrics", "primitives_registry_fragments"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, a.Router, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want 200", tt.path, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("GET %s body should contain %s", tt.path, tt.contains)
			}
		})
	}
}

func TestNew_DocsAndMetricsDisabled(t *testing.T) {
	cfg := quietConfig()
	cfg.OpenAPI.Enabled = false
	cfg.Metrics.Enabled = false
	a := newApp(t, cfg)

	if a.Metrics != nil || a.OpenAPI != nil || a.Schemas != nil {
		t.Fatal("disabled components should not be built")
	}
	for _, path := range []string{"/openapi.json", "/metrics", "/schemas"} {
		if rec := do(t, a.Router, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}

	registerCustomer(t, a.Router)
}

func TestNew_SQLite(t *testing.T) {
	cfg := quietConfig()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "bank.db")

	a, err := bootstrap.New(cfg, bootstrap.Options{Prometheus: prometheus.NewRegistry()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.DB == nil {
		t.Fatal("DB should not be nil for the sqlite driver")
	}

	id := registerCustomer(t, a.Router)
	if rec := do(t, a.Router, http.MethodGet, "/customers/"+id, ""); rec.Code != http.StatusOK {
		t.Errorf("GET customer status = %d, want 200", rec.Code)
	}

	if err := a.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if _, err := os.Stat(cfg.Database.DSN); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestNewWithHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primitives.yaml")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write(`
logging:
  level: error
openapi:
  transformer: fragments
`)

	a, err := bootstrap.NewWithHotReload(path, bootstrap.Options{Prometheus: prometheus.NewRegistry()})
	if err != nil {
		t.Fatalf("NewWithHotReload() error = %v", err)
	}
	defer a.Shutdown()

	hold := func() string {
		t.Helper()
		s, err := a.Schemas.Schema("create-transfer")
		if err != nil {
			t.Fatalf("Schema() error = %v", err)
		}
		b, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return string(b)
	}

	if strings.Contains(hold(), `"duration"`) {
		t.Fatal("HoldPeriod has no fragment, so the fragments transformer should not describe it")
	}

	write(`
logging:
  level: error
openapi:
  transformer: underlying
  title: Reloaded API
`)
	if err := a.Config.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if got := a.Config.Get().OpenAPI.Transformer; got != "underlying" {
		t.Errorf("Transformer = %s, want underlying", got)
	}
	doc, err := a.OpenAPI.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Info.Title != "Reloaded API" {
		t.Errorf("Title = %s, want Reloaded API", doc.Info.Title)
	}
	if !strings.Contains(hold(), `"duration"`) {
		t.Error("underlying transformer should describe HoldPeriod as a duration")
	}
}

func TestNewWithHotReload_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primitives.yaml")
	if err := os.WriteFile(path, []byte("database:\n  driver: postgres\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := bootstrap.NewWithHotReload(path, bootstrap.Options{}); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
