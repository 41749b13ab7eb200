package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/artpar/primitives/config"
	"github.com/artpar/primitives/core/discovery"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `
server:
  port: 9090
logging:
  level: debug
  format: console
database:
  driver: sqlite
  dsn: ${TEST_DB_PATH}
discovery:
  policy: skip_missing
  roots: [bank]
openapi:
  transformer: underlying
  title: Test API
metrics:
  enabled: false
`

func TestLoad(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/test.db")

	cfg, err := config.Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Database.DSN != "/tmp/test.db" {
		t.Errorf("Database.DSN = %q, want expanded /tmp/test.db", cfg.Database.DSN)
	}
	if cfg.DiscoveryPolicy() != discovery.SkipMissing {
		t.Errorf("DiscoveryPolicy() = %v, want skip_missing", cfg.DiscoveryPolicy())
	}
	if !slices.Equal(cfg.Discovery.Roots, []string{"bank"}) {
		t.Errorf("Discovery.Roots = %v, want [bank]", cfg.Discovery.Roots)
	}
	if cfg.OpenAPI.Transformer != "underlying" || cfg.OpenAPI.Title != "Test API" {
		t.Errorf("OpenAPI = %+v", cfg.OpenAPI)
	}
	if !cfg.OpenAPI.Enabled {
		t.Error("OpenAPI.Enabled = false, want default true")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false from file")
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want /metrics", cfg.Metrics.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("Load error = %v, want read config error", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("server: [oops"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("Parse error = %v, want parse config error", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Database.Driver != config.DriverMemory {
		t.Errorf("Database.Driver = %q, want memory", cfg.Database.Driver)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 60s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.DiscoveryPolicy() != discovery.FailFast {
		t.Errorf("DiscoveryPolicy() = %v, want fail_fast", cfg.DiscoveryPolicy())
	}
}

func TestParse_SQLiteDefaultDSN(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: sqlite\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Database.DSN != "primitives.db" {
		t.Errorf("Database.DSN = %q, want primitives.db", cfg.Database.DSN)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
		{"bad driver", "database:\n  driver: postgres\n", "database.driver"},
		{"bad policy", "discovery:\n  policy: sometimes\n", "discovery.policy"},
		{"bad transformer", "openapi:\n  transformer: magic\n", "openapi.transformer"},
		{"bad metrics path", "metrics:\n  path: metrics\n", "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	_, err := config.Parse([]byte("logging:\n  format: xml\ndatabase:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("Parse should fail")
	}
	for _, want := range []string{"logging.format", "database.driver"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %v, want it to mention %s", err, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRIMITIVES_SERVER_PORT", "7070")
	t.Setenv("PRIMITIVES_DATABASE_DRIVER", "sqlite")
	t.Setenv("PRIMITIVES_DATABASE_DSN", "/data/bank.db")
	t.Setenv("PRIMITIVES_DISCOVERY_ROOTS", "bank, bank/ledger ,")
	t.Setenv("PRIMITIVES_OPENAPI_ENABLED", "no")
	t.Setenv("PRIMITIVES_METRICS_ENABLED", "yes")
	t.Setenv("PRIMITIVES_LOG_LEVEL", "warn")

	cfg, err := config.Parse([]byte("server:\n  port: 9090\nmetrics:\n  enabled: false\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env 7070", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "/data/bank.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if !slices.Equal(cfg.Discovery.Roots, []string{"bank", "bank/ledger"}) {
		t.Errorf("Discovery.Roots = %v", cfg.Discovery.Roots)
	}
	if cfg.OpenAPI.Enabled {
		t.Error("OpenAPI.Enabled = true, want false from env")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true from env")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadWithFallback(t *testing.T) {
	t.Setenv("PRIMITIVES_SERVER_PORT", "6060")

	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want 6060 from env", cfg.Server.Port)
	}

	path := writeConfig(t, "logging:\n  level: error\n")
	cfg, err = config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error from file", cfg.Logging.Level)
	}
}
