// Package config loads credentials for the query tool. Credentials
// live in named sections of one YAML file, so a single config can hold
// sandbox and live apps side by side.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/brettcs/paypal-rest/internal/paypal"
)

// DefaultSection is the section consulted when the caller names none.
const DefaultSection = "query"

// Credentials assembles a paypal.Config from one named section of the
// loaded configuration. Values missing from the file fall back to
// PAYPAL_* environment variables; the site falls back to the sandbox so
// a half-configured run never touches live data.
func Credentials(v *viper.Viper, section string) (paypal.Config, error) {
	if section == "" {
		section = DefaultSection
	}

	cfg := paypal.Config{
		ClientID:     v.GetString(section + ".client_id"),
		ClientSecret: v.GetString(section + ".client_secret"),
		Site:         v.GetString(section + ".site"),
	}

	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("PAYPAL_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("PAYPAL_CLIENT_SECRET")
	}
	if cfg.Site == "" {
		cfg.Site = os.Getenv("PAYPAL_SITE")
	}
	if cfg.Site == "" {
		cfg.Site = paypal.SiteSandbox
	}

	if err := cfg.Validate(); err != nil {
		return paypal.Config{}, fmt.Errorf("config section %q: %w", section, err)
	}
	return cfg, nil
}

// ExpandPath expands ~ and $VAR environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	} else if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
