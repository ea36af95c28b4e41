package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// EffectiveConfigResult is the single resolved configuration the server
// runs with, plus where its values came from.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "config", or "env"
}

// ParseConfigFlags parses command-line flags.
func ParseConfigFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path (\":memory:\" for ephemeral)")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: setFlags}
}

// ResolveConfigPath prefers an explicit flag over the env var over the
// default path.
func ResolveConfigPath(flagVal string, flagSet bool) string {
	if flagSet {
		return flagVal
	}
	if v := os.Getenv("PLSTRACK_CONFIG"); v != "" {
		return v
	}
	return flagVal
}

// applyEnv overlays PLSTRACK_* environment variables onto cfg and reports
// whether any were used.
func applyEnv(cfg *Config) bool {
	used := false
	if v := os.Getenv("PLSTRACK_ADDR"); v != "" {
		used = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("PLSTRACK_DB_PATH"); v != "" {
		used = true
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("PLSTRACK_LOG_LEVEL"); v != "" {
		used = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PLSTRACK_CHAT_BASE_URL"); v != "" {
		used = true
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("PLSTRACK_SITE_BASE_URL"); v != "" {
		used = true
		cfg.Site.BaseURL = v
	}
	if v := os.Getenv("PLSTRACK_CHAT_DEBUG"); v != "" {
		used = true
		cfg.Chat.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("PLSTRACK_API_KEYS"); v != "" {
		used = true
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.Security.APIKeys.Backend = append(cfg.Security.APIKeys.Backend, s)
			}
		}
	}
	if v := os.Getenv("PLSTRACK_RETENTION_WINDOW"); v != "" {
		used = true
		if d, err := ParseDuration(v); err == nil {
			cfg.Retention.Window = Duration(d)
		}
	}
	return used
}

// LoadEffective merges config file, env and flags (flags win) into the one
// effective configuration the process runs with.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])

	cfg := &Config{}
	source := "flags"
	if b, err := os.Stat(cfgPath); err == nil && !b.IsDir() {
		loaded, err := Load(cfgPath)
		if err != nil {
			return EffectiveConfigResult{}, err
		}
		cfg = loaded
		source = "config"
	}
	if applyEnv(cfg) {
		source = "env"
	}
	cfg.ApplyDefaults()

	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
		source = "flags"
	}
	dbPath := cfg.Server.DBPath
	if flags.Set["db"] {
		dbPath = flags.DB
		source = "flags"
	}
	return EffectiveConfigResult{Config: cfg, Addr: addr, DBPath: dbPath, Source: source}, nil
}
