// Package config loads and validates gateway configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dmarrero/linkveil/internal/imageurl"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Image    ImageConfig    `mapstructure:"image"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior. BaseURL, when set, is used
// verbatim to build short URLs; when empty the request's host derives it.
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// UpstreamConfig points at the content site backing cloaked article pages.
type UpstreamConfig struct {
	GraphQLEndpoint string `mapstructure:"graphql_endpoint"`
	SiteBase        string `mapstructure:"site_base"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// ImageConfig selects the canonical image URL form for preview metadata.
type ImageConfig struct {
	Mode          string `mapstructure:"mode"`
	TranslateHost string `mapstructure:"translate_host"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKVEIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	// Defaulted to empty so viper knows the key; AutomaticEnv only surfaces
	// env vars for keys it has seen.
	v.SetDefault("server.base_url", "")
	v.SetDefault("upstream.graphql_endpoint", "https://wyseducation.xyz/graphql")
	v.SetDefault("upstream.site_base", "https://wyseducation.xyz")
	v.SetDefault("upstream.timeout_seconds", 15)
	v.SetDefault("image.mode", string(imageurl.ModeProxy))
	v.SetDefault("image.translate_host", "video-cdninstagram-com.translate.goog")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("upstream.timeout_seconds must be > 0")
	}
	switch imageurl.Mode(c.Image.Mode) {
	case imageurl.ModeDirect, imageurl.ModeProxy, imageurl.ModeTranslate:
	default:
		return fmt.Errorf("image.mode must be one of direct, proxy, translate")
	}
	if imageurl.Mode(c.Image.Mode) == imageurl.ModeTranslate && c.Image.TranslateHost == "" {
		return fmt.Errorf("image.translate_host must be set when image.mode is translate")
	}
	return nil
}

// UpstreamTimeout converts the configured timeout into a duration.
func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}
