package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreDriverSQLite    = "sqlite"
	StoreDriverFirestore = "firestore"
)

// LogLevel wraps slog.Level so YAML accepts textual levels ("debug",
// "info", "warn", "error"). It satisfies slog.Leveler.
type LogLevel slog.Level

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", value.Value, err)
	}
	*l = LogLevel(lv)
	return nil
}

// Level implements slog.Leveler.
func (l LogLevel) Level() slog.Level { return slog.Level(l) }

// Duration accepts Go duration strings ("1s", "2m") in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(v)
	return nil
}

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	Assistant AssistantConfig   `yaml:"assistant"`
	Mail      MailConfig        `yaml:"mail"`
	Cycle     CycleConfig       `yaml:"cycle"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Assistant.Validate(); err != nil {
		return err
	}
	return c.Mail.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel LogLevel   `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects and configures the record store backend.
//
// Driver controls which backend is used:
//   - "sqlite" (default): embedded database at SQLitePath.
//   - "firestore": cloud document store; FirestoreProject may be empty
//     when the project is detectable from the environment (Cloud Run).
type StoreConfig struct {
	Driver           string `yaml:"driver"`
	SQLitePath       string `yaml:"sqlite_path"`
	FirestoreProject string `yaml:"firestore_project"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverSQLite
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StoreDriverSQLite, StoreDriverFirestore)),
	); err != nil {
		return err
	}
	if c.Driver == StoreDriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("store: driver is %q but sqlite_path is empty", StoreDriverSQLite)
	}
	return nil
}

// AssistantConfig holds credentials and tuning for the conversational
// service. The API key, assistant ID, and thread ID come from the
// environment via config expansion.
type AssistantConfig struct {
	APIKey       string   `yaml:"api_key"`
	AssistantID  string   `yaml:"assistant_id"`
	ThreadID     string   `yaml:"thread_id"`
	BaseURL      string   `yaml:"base_url"`
	PollInterval Duration `yaml:"poll_interval"`
	PollTimeout  Duration `yaml:"poll_timeout"`
	TemplatesDir string   `yaml:"templates_dir"`
}

// Validate validates the assistant configuration.
func (c *AssistantConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.AssistantID, validation.Required),
		validation.Field(&c.ThreadID, validation.Required),
	)
}

// MailConfig holds SMTP delivery configuration. Sender doubles as the
// SMTP username.
type MailConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Sender             string `yaml:"sender"`
	Password           string `yaml:"password"`
	Recipient          string `yaml:"recipient"`
	SuppressFailedPlan bool   `yaml:"suppress_failed_plan"`
}

// Validate validates the mail configuration.
func (c *MailConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Sender, validation.Required),
		validation.Field(&c.Password, validation.Required),
		validation.Field(&c.Recipient, validation.Required),
	)
}

// CycleConfig tunes daily-cycle behavior.
type CycleConfig struct {
	// OncePerDay prevents a repeat trigger from generating a duplicate
	// Day on the same calendar date. Disable for fast-interval testing.
	OncePerDay bool `yaml:"once_per_day"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevel(slog.LevelInfo),
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Driver:     StoreDriverSQLite,
			SQLitePath: "./cadence.db",
		},
		Assistant: AssistantConfig{
			PollInterval: Duration(time.Second),
			PollTimeout:  Duration(2 * time.Minute),
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Cycle: CycleConfig{
			OncePerDay: true,
		},
	}
}
