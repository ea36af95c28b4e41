package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Security  SecurityConfig  `yaml:"security"`
	Logging   LoggingConfig   `yaml:"logging"`
	Retention RetentionConfig `yaml:"retention"`
	Revisit   RevisitConfig   `yaml:"revisit"`
	Chat      ChatConfig      `yaml:"chat"`
	Site      SiteConfig      `yaml:"site"`
}

// ServerConfig holds listen and storage settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	DBPath  string `yaml:"db_path"`
}

// Addr returns the combined listen address.
func (c *Config) Addr() string {
	host := c.Server.Address
	port := c.Server.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// SecurityConfig holds API keys, rate limiting and CORS settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	APIKeys struct {
		Backend     []string `yaml:"backend"`
		AllowUnauth bool     `yaml:"allow_unauth"`
	} `yaml:"api_keys"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RetentionConfig controls the record eviction sweep.
type RetentionConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	// Window is the retention age; records saved longer ago are evicted.
	Window Duration `yaml:"window"`
}

// RevisitConfig controls the due-reminder check.
type RevisitConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	// OpenWebhook receives a POST with the post URL for each due reminder;
	// the open-in-background-tab collaborator. Opens are log-only when
	// unset.
	OpenWebhook string `yaml:"open_webhook"`
}

// ChatConfig holds the transport target and routing rooms.
type ChatConfig struct {
	BaseURL       string `yaml:"base_url"`
	PrimaryRoom   string `yaml:"primary_room"`
	PrimaryName   string `yaml:"primary_name"`
	SecondaryRoom string `yaml:"secondary_room"`
	SecondaryName string `yaml:"secondary_name"`
	SandboxRoom   string `yaml:"sandbox_room"`
	// Debug reroutes every send to the sandbox room.
	Debug bool `yaml:"debug"`
	// OldPostDays is the last-activity age that flips close/revisit
	// requests for open questions to the secondary room.
	OldPostDays int `yaml:"old_post_days"`
}

// SiteConfig identifies the site posts live on.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Duration unmarshals from Go duration strings plus a "d" day suffix, so
// retention windows read naturally as "180d".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = 0
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = 0
		return nil
	}
	if v, err := ParseDuration(raw); err == nil {
		*d = Duration(v)
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// ParseDuration parses "30s"/"24h" style values and "Nd" day counts.
func ParseDuration(raw string) (time.Duration, error) {
	if strings.HasSuffix(raw, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count: %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(raw)
}
