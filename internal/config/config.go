// Package config loads lookup settings from defaults, an optional config
// file, ARCHPKG_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ralt/archpkg/internal/fetcher"
	"github.com/ralt/archpkg/internal/models"
	"github.com/ralt/archpkg/internal/resolver/aur"
	"github.com/ralt/archpkg/internal/resolver/official"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "ARCHPKG"

// Configuration keys
const (
	KeyOfficialURL   = "official_url"
	KeyAURURL        = "aur_url"
	KeyAURWebURL     = "aur_web_url"
	KeyTimeout       = "timeout"
	KeyUserAgent     = "user_agent"
	KeyMaxConcurrent = "max_concurrent"
	KeyLang          = "lang"
	KeyColor         = "color"
)

// DefaultConfig returns the built-in settings
func DefaultConfig() models.Config {
	return models.Config{
		OfficialURL: official.DefaultURL,
		AURURL:      aur.DefaultURL,
		AURWebURL:   "https://aur.archlinux.org",
		Timeout:     fetcher.DefaultTimeout,
		UserAgent:   "archpkg/dev",
		Lang:        "en",
		Color:       true,
	}
}

// Load builds the configuration. path may be empty. Flags in fs are bound
// by key name with underscores written as dashes (aur_url -> --aur-url);
// only flags the user actually set override other sources.
func Load(path string, fs *pflag.FlagSet) (*models.Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault(KeyOfficialURL, defaults.OfficialURL)
	v.SetDefault(KeyAURURL, defaults.AURURL)
	v.SetDefault(KeyAURWebURL, defaults.AURWebURL)
	v.SetDefault(KeyTimeout, defaults.Timeout)
	v.SetDefault(KeyUserAgent, defaults.UserAgent)
	v.SetDefault(KeyMaxConcurrent, defaults.MaxConcurrent)
	v.SetDefault(KeyLang, defaults.Lang)
	v.SetDefault(KeyColor, defaults.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, configError(fmt.Errorf("reading config file %s: %w", path, err))
		}
	}

	if fs != nil {
		for _, key := range []string{
			KeyOfficialURL, KeyAURURL, KeyAURWebURL, KeyTimeout,
			KeyUserAgent, KeyMaxConcurrent, KeyLang, KeyColor,
		} {
			flag := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, configError(fmt.Errorf("binding flag %s: %w", flag.Name, err))
			}
		}
	}

	cfg := &models.Config{
		OfficialURL:   v.GetString(KeyOfficialURL),
		AURURL:        v.GetString(KeyAURURL),
		AURWebURL:     v.GetString(KeyAURWebURL),
		Timeout:       v.GetDuration(KeyTimeout),
		UserAgent:     v.GetString(KeyUserAgent),
		MaxConcurrent: v.GetInt(KeyMaxConcurrent),
		Lang:          v.GetString(KeyLang),
		Color:         v.GetBool(KeyColor),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration for unusable values
func Validate(cfg *models.Config) error {
	for key, raw := range map[string]string{
		KeyOfficialURL: cfg.OfficialURL,
		KeyAURURL:      cfg.AURURL,
		KeyAURWebURL:   cfg.AURWebURL,
	} {
		if raw == "" {
			return configError(fmt.Errorf("%s is required", key))
		}
		u, err := url.Parse(raw)
		if err != nil {
			return configError(fmt.Errorf("%s: %w", key, err))
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return configError(fmt.Errorf("%s must be an http(s) URL, got %q", key, raw))
		}
	}

	if cfg.Timeout <= 0 {
		return configError(fmt.Errorf("%s must be positive, got %s", KeyTimeout, cfg.Timeout))
	}
	if cfg.MaxConcurrent < 0 {
		return configError(fmt.Errorf("%s must not be negative", KeyMaxConcurrent))
	}
	if _, err := language.Parse(cfg.Lang); err != nil {
		return configError(fmt.Errorf("%s: %w", KeyLang, err))
	}

	return nil
}

func configError(err error) error {
	return &models.LookupError{Type: models.ErrInvalidConfig, Err: err}
}
