package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/emorelay/pkg/dotdir"
)

const envPrefix = "EMORELAY"

// legacyEnv lists the conventional environment variable names honoured for a
// key in addition to its EMORELAY_ form. Earlier names win.
var legacyEnv = map[string][]string{
	"server.port":                   {"PORT"},
	"chat.model":                    {"DEFAULT_MODEL"},
	"providers.openai.api_key":      {"OPENAI_API_KEY"},
	"providers.openai.base_url":     {"OPENAI_BASE_URL"},
	"providers.azure.api_key":       {"AZURE_OPENAI_API_KEY"},
	"providers.azure.endpoint":      {"AZURE_OPENAI_ENDPOINT"},
	"providers.azure.deployment":    {"AZURE_OPENAI_DEPLOYMENT"},
	"providers.azure.api_version":   {"AZURE_OPENAI_API_VERSION"},
	"providers.openrouter.api_key":  {"OPENROUTER_API_KEY"},
	"providers.openrouter.base_url": {"OPENROUTER_BASE_URL"},
	"providers.openrouter.site_url": {"OPENROUTER_SITE_URL"},
	"providers.openrouter.app_name": {"OPENROUTER_APP_NAME"},
	"network.proxy_url":             {"HTTPS_PROXY", "HTTP_PROXY", "PROXY", "OPENAI_PROXY"},
	"rag.target":                    {"RAG_BASE_URL"},
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the EMORELAY_ prefix plus the conventional provider variables
// (OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, PORT, ...).
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// An explicit binding replaces the automatic one for that key, so the
	// prefixed name is bound again alongside the legacy names.
	for key, names := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return v, nil
}

// FromViper resolves every config key through v's precedence chain into a
// Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{Version: CurrentV}

	for _, key := range ValidConfigKeys() {
		val := strings.TrimSpace(v.GetString(key))
		if val == "" {
			continue
		}
		if err := configKeys[key].set(cfg, val); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	for _, key := range ValidConfigKeys() {
		val := configKeys[key].get(d)
		if val == "" {
			continue
		}
		if key == "server.mcp" {
			v.SetDefault(key, d.Server.MCPEnabled())
			continue
		}
		v.SetDefault(key, val)
	}
}
