package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/abhijeet/cadence/pkg/config"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Assistant.APIKey = "sk-test"
	cfg.Assistant.AssistantID = "asst_1"
	cfg.Assistant.ThreadID = "thread_1"
	cfg.Mail.Sender = "coach@example.com"
	cfg.Mail.Password = "app-password"
	cfg.Mail.Recipient = "me@example.com"
	return cfg
}

func TestValidConfigPasses(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config should pass: %v", err)
	}
}

func TestStoreConfig_EmptyDriverDefaultsSQLite(t *testing.T) {
	cfg := StoreConfig{Driver: "", SQLitePath: "./x.db"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default to sqlite: %v", err)
	}
	if cfg.Driver != StoreDriverSQLite {
		t.Errorf("driver = %q, want %q", cfg.Driver, StoreDriverSQLite)
	}
}

func TestStoreConfig_SQLiteRequiresPath(t *testing.T) {
	cfg := StoreConfig{Driver: StoreDriverSQLite, SQLitePath: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("sqlite driver with empty path should fail")
	}
	if !strings.Contains(err.Error(), "sqlite_path is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreConfig_FirestoreAllowsEmptyProject(t *testing.T) {
	cfg := StoreConfig{Driver: StoreDriverFirestore}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("firestore driver should not require a project: %v", err)
	}
}

func TestStoreConfig_InvalidDriver(t *testing.T) {
	cfg := StoreConfig{Driver: "mongo"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid driver should fail validation")
	}
}

func TestAssistantConfig_MissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.Assistant.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing api key should fail validation")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("SENDER_PASSWORD", "secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  log_level: debug
  http:
    port: 9090
assistant:
  api_key: ${OPENAI_API_KEY}
  assistant_id: asst_1
  thread_id: thread_1
  poll_interval: 250ms
  poll_timeout: 30s
mail:
  host: smtp.example.com
  port: 587
  sender: coach@example.com
  password: ${SENDER_PASSWORD}
  recipient: me@example.com
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.LogLevel.Level() != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel.Level())
	}
	if cfg.App.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Assistant.APIKey != "sk-from-env" {
		t.Errorf("api key = %q, want env-expanded value", cfg.Assistant.APIKey)
	}
	if time.Duration(cfg.Assistant.PollInterval) != 250*time.Millisecond {
		t.Errorf("poll interval = %v", time.Duration(cfg.Assistant.PollInterval))
	}
	if time.Duration(cfg.Assistant.PollTimeout) != 30*time.Second {
		t.Errorf("poll timeout = %v", time.Duration(cfg.Assistant.PollTimeout))
	}
	if cfg.Mail.Password != "secret" {
		t.Errorf("password = %q", cfg.Mail.Password)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if !cfg.Cycle.OncePerDay {
		t.Error("once_per_day default should survive")
	}
}

func TestMailConfig_MissingRecipient(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Recipient = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing recipient should fail validation")
	}
}
