package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the original constants: SOCVR and its old-questions room,
// 180-day retention, 180-day old-post routing threshold.
const (
	DefaultChatBaseURL   = "https://chat.stackoverflow.com"
	DefaultSiteBaseURL   = "https://stackoverflow.com"
	DefaultPrimaryRoom   = "41570"
	DefaultPrimaryName   = "SOCVR"
	DefaultSecondaryRoom = "253110"
	DefaultSecondaryName = "SOCVR old questions"
	DefaultSandboxRoom   = "1"
	DefaultOldPostDays   = 180
)

// DefaultRetentionWindow is the record storage window.
const DefaultRetentionWindow = Duration(180 * 24 * time.Hour)

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with production defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = "./.database"
	}
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = DefaultChatBaseURL
	}
	if c.Chat.PrimaryRoom == "" {
		c.Chat.PrimaryRoom = DefaultPrimaryRoom
	}
	if c.Chat.PrimaryName == "" {
		c.Chat.PrimaryName = DefaultPrimaryName
	}
	if c.Chat.SecondaryRoom == "" {
		c.Chat.SecondaryRoom = DefaultSecondaryRoom
	}
	if c.Chat.SecondaryName == "" {
		c.Chat.SecondaryName = DefaultSecondaryName
	}
	if c.Chat.SandboxRoom == "" {
		c.Chat.SandboxRoom = DefaultSandboxRoom
	}
	if c.Chat.OldPostDays == 0 {
		c.Chat.OldPostDays = DefaultOldPostDays
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = DefaultSiteBaseURL
	}
	if c.Retention.Window == 0 {
		c.Retention.Window = DefaultRetentionWindow
	}
}
