// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Tenant   TenantConfig
	UI       UIConfig
	Aliases  map[string]string // extra header aliases merged over the built-ins
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// TenantConfig scopes every store call. OrgID is the multi-tenancy key that
// must accompany every mutation.
type TenantConfig struct {
	OrgID    string `mapstructure:"org_id"`
	ClientID string `mapstructure:"client_id"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize  int  `mapstructure:"page_size"`
	UndoDepth int  `mapstructure:"undo_depth"`
	SOVMode   bool `mapstructure:"sov_mode"`
	SeedDemo  bool `mapstructure:"seed_demo"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// SOVGRID_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "sovgrid", "sovgrid.db"))
	v.SetDefault("tenant.org_id", "org-demo")
	v.SetDefault("tenant.client_id", "client-demo")
	v.SetDefault("ui.page_size", 50)
	v.SetDefault("ui.undo_depth", 50)
	v.SetDefault("ui.sov_mode", false)
	v.SetDefault("ui.seed_demo", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SOVGRID_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "sovgrid"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SOVGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PageSize < 1 {
		c.UI.PageSize = 50
	}
	if c.UI.UndoDepth < 1 {
		c.UI.UndoDepth = 50
	}
	return c, nil
}
