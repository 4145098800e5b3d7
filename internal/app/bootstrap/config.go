// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// appConfigKeys defines the configuration keys for groupdrop. Each key
// is loadable from (lowest to highest precedence) its default, a
// groupdrop.yaml config file, a GROUPDROP_* environment variable, or a
// --flag.
var appConfigKeys = []struct {
	Name    string
	Default any
	Desc    string
}{
	{Name: "listen_addr", Default: ":9000", Desc: "TCP address the protocol server listens on"},
	{Name: "data_dir", Default: "data", Desc: "Directory holding the account/group/request/invite files"},
	{Name: "storage_root", Default: "storage", Desc: "Root directory of per-group file storage"},
	{Name: "log_level", Default: "info", Desc: "Log level: debug, info, warn, error"},
	{Name: "log_file", Default: "", Desc: "Log file path (blank logs to stderr)"},
	{Name: "audit", Default: "log", Desc: "Audit trail of processed commands: 'log' or 'off'"},
	{Name: "idle_timeout", Default: "0s", Desc: "Drop connections idle for this long (0s waits forever, the protocol default)"},
	{Name: "watch_data", Default: false, Desc: "Reload tables when the data files change on disk"},
	{Name: "status_addr", Default: "", Desc: "HTTP address for the JSON status endpoint (blank disables it)"},
}

// AppConfig is the resolved configuration.
type AppConfig struct {
	ListenAddr  string
	DataDir     string
	StorageRoot string
	LogLevel    string
	LogFile     string
	Audit       string
	IdleTimeout time.Duration
	WatchData   bool
	StatusAddr  string
}

// LoadConfig resolves the configuration from defaults, an optional
// groupdrop.{yaml,json,toml} in the working directory, GROUPDROP_*
// environment variables and command-line flags, in rising precedence.
func LoadConfig(args []string) (AppConfig, error) {
	v := viper.New()
	fs := pflag.NewFlagSet("groupdropd", pflag.ContinueOnError)

	for _, key := range appConfigKeys {
		v.SetDefault(key.Name, key.Default)
		switch def := key.Default.(type) {
		case string:
			fs.String(key.Name, def, key.Desc)
		case bool:
			fs.Bool(key.Name, def, key.Desc)
		case int:
			fs.Int(key.Name, def, key.Desc)
		}
	}
	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return AppConfig{}, err
	}

	v.SetEnvPrefix("GROUPDROP")
	v.AutomaticEnv()

	v.SetConfigName("groupdrop")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return AppConfig{
		ListenAddr:  v.GetString("listen_addr"),
		DataDir:     v.GetString("data_dir"),
		StorageRoot: v.GetString("storage_root"),
		LogLevel:    v.GetString("log_level"),
		LogFile:     v.GetString("log_file"),
		Audit:       v.GetString("audit"),
		IdleTimeout: v.GetDuration("idle_timeout"),
		WatchData:   v.GetBool("watch_data"),
		StatusAddr:  v.GetString("status_addr"),
	}, nil
}

// ValidateConfig rejects configurations the server cannot start with.
func ValidateConfig(cfg AppConfig) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if cfg.Audit != "log" && cfg.Audit != "off" {
		return fmt.Errorf("audit must be 'log' or 'off', got %q", cfg.Audit)
	}
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout must not be negative")
	}
	if cfg.DataDir == "" || cfg.StorageRoot == "" {
		return fmt.Errorf("data_dir and storage_root must not be empty")
	}
	return nil
}

// ensureDirs creates the data and storage directories if missing.
func ensureDirs(cfg AppConfig) error {
	for _, dir := range []string{cfg.DataDir, cfg.StorageRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
