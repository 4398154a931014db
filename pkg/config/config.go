package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/emorelay/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Always set targetPath when the directory exists so SaveConfig
	// can create or overwrite the file.
	cfger.targetPath = path

	return cfger, nil
}

// orderedKeys is the display order of config keys, matching the TOML layout.
var orderedKeys = []string{
	"server.listen",
	"server.port",
	"server.static_dir",
	"server.mcp",
	"chat.provider",
	"chat.model",
	"providers.openai.api_key",
	"providers.openai.base_url",
	"providers.azure.api_key",
	"providers.azure.endpoint",
	"providers.azure.deployment",
	"providers.azure.api_version",
	"providers.openrouter.api_key",
	"providers.openrouter.base_url",
	"providers.openrouter.site_url",
	"providers.openrouter.app_name",
	"network.proxy_url",
	"rag.target",
	"emotion.lexicon_path",
	"client.target",
}

// ValidConfigKeys returns the list of all supported configuration key names
// in a stable order.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range orderedKeys {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}

	// Append any keys in the map that we missed in the ordered list.
	for k := range configKeys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// IsSecretKey reports whether key holds a credential.
func IsSecretKey(key string) bool {
	return configKeys[key].secret
}

// MaskSecret hides all but the edges of a credential. Short values are fully
// masked.
func MaskSecret(v string) string {
	switch {
	case v == "":
		return ""
	case len(v) <= 8:
		return strings.Repeat("*", 8)
	default:
		return v[:3] + strings.Repeat("*", 8) + v[len(v)-4:]
	}
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target .emorelay/
// directory. If the file does not exist, returns NewDefaultConfig() so callers
// always receive a fully-populated Config. Fields explicitly set in the file
// override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
// Credentials, endpoints without a default and server.port are left alone.
func applyDefaults(cfg *Config) {
	d := NewDefaultConfig()

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	if cfg.Version == 0 {
		cfg.Version = d.Version
	}

	fill(&cfg.Server.Listen, d.Server.Listen)
	if cfg.Server.MCP == nil {
		cfg.Server.MCP = d.Server.MCP
	}

	fill(&cfg.Chat.Provider, d.Chat.Provider)
	fill(&cfg.Chat.Model, d.Chat.Model)

	fill(&cfg.Providers.OpenAI.BaseURL, d.Providers.OpenAI.BaseURL)
	fill(&cfg.Providers.Azure.APIVersion, d.Providers.Azure.APIVersion)
	fill(&cfg.Providers.OpenRouter.BaseURL, d.Providers.OpenRouter.BaseURL)
	fill(&cfg.Providers.OpenRouter.SiteURL, d.Providers.OpenRouter.SiteURL)
	fill(&cfg.Providers.OpenRouter.AppName, d.Providers.OpenRouter.AppName)

	fill(&cfg.RAG.Target, d.RAG.Target)
	fill(&cfg.Client.Target, d.Client.Target)
}

// SaveConfig persists the configuration to config.toml in the target .emorelay/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// 0600: the file may hold API keys.
	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// GetValue returns the string representation of key on cfg.
func GetValue(cfg *Config, key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}
	return info.get(cfg), nil
}

// ListenAddr returns the address the server binds to. A configured port
// replaces the port of Listen and keeps its host.
func (s ServerConfig) ListenAddr() string {
	if s.Port == "" {
		return s.Listen
	}

	host, _, err := net.SplitHostPort(s.Listen)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, s.Port)
}

// MCPEnabled reports whether the /mcp endpoint is mounted. Unset means enabled.
func (s ServerConfig) MCPEnabled() bool {
	return s.MCP == nil || *s.MCP
}

// PresetConfig returns a Config with sane defaults for the named provider preset.
// Supported presets: "openai", "azure", "openrouter".
// Returns an error if the preset name is not recognized.
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "openai":
		cfg.Chat.Provider = "openai"
		cfg.Chat.Model = defaultModel

	case "azure":
		// Azure ignores the model field; the deployment selects the model.
		cfg.Chat.Provider = "azure"
		cfg.Providers.Azure.Deployment = "gpt-35-turbo"

	case "openrouter":
		cfg.Chat.Provider = "openrouter"
		cfg.Chat.Model = "openai/gpt-3.5-turbo"

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	return cfg, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"openai", "azure", "openrouter"}
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
