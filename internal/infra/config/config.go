package config

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DiscordPublicKey string `koanf:"discord_public_key"`
	DiscordToken     string `koanf:"discord_bot_token"`
	DiscordAppID     string `koanf:"discord_app_id"`
	DiscordGuild     string `koanf:"discord_guild_id"` // vacío = comandos globales
	RegisterCommands bool   `koanf:"register_commands"`

	DatabaseURL    string `koanf:"database_url"`
	DatabaseDriver string `koanf:"database_driver"` // postgres | sqlite

	HTTPAddr  string `koanf:"http_addr"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // text | json

	AdminRoles string `koanf:"admin_role_ids"`

	// rate limit por usuario; 0 lo desactiva
	CommandRate  float64 `koanf:"command_rate"`
	CommandBurst int     `koanf:"command_burst"`

	AuditRetentionDays int `koanf:"audit_retention_days"`

	publicKey ed25519.PublicKey
}

func defaults() Config {
	return Config{
		DatabaseDriver:     "postgres",
		HTTPAddr:           ":8080",
		LogLevel:           "info",
		LogFormat:          "text",
		CommandRate:        1,
		CommandBurst:       3,
		AuditRetentionDays: 90,
	}
}

// Load arma la config: defaults -> YAML (si CONFIG_FILE) -> env.
func Load(_ context.Context) (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	// DISCORD_PUBLIC_KEY -> discord_public_key; vacías no pisan defaults
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	for key, v := range map[string]string{
		"DISCORD_PUBLIC_KEY": cfg.DiscordPublicKey,
		"DISCORD_BOT_TOKEN":  cfg.DiscordToken,
		"DATABASE_URL":       cfg.DatabaseURL,
	} {
		if strings.TrimSpace(v) == "" {
			return Config{}, fmt.Errorf("missing env %s", key)
		}
	}

	raw, err := hex.DecodeString(strings.TrimSpace(cfg.DiscordPublicKey))
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("DISCORD_PUBLIC_KEY must be %d hex-encoded bytes", ed25519.PublicKeySize)
	}
	cfg.publicKey = ed25519.PublicKey(raw)

	if cfg.CommandRate < 0 || cfg.CommandBurst < 0 {
		return Config{}, fmt.Errorf("command rate/burst must not be negative")
	}
	if cfg.AuditRetentionDays <= 0 {
		cfg.AuditRetentionDays = 90
	}
	return cfg, nil
}

func (c Config) PublicKey() ed25519.PublicKey { return c.publicKey }

// AdminRoleIDs parsea ADMIN_ROLE_IDS ("id1, id2").
func (c Config) AdminRoleIDs() []string {
	var out []string
	for _, p := range strings.Split(c.AdminRoles, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
