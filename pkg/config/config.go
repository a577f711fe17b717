// Package config manages server configuration from file and environment.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/mizu/config"
	ConfigFileName    = "mizu.yml"
)

// MizuConfig holds all server configuration settings. Secrets (the machine
// API token, the JWT secret, the ledger token) are deliberately env-only and
// never read from the config file.
type MizuConfig struct {
	// MachineDomain is appended to a machine's name to form the hostname
	// of its drop API (e.g. "bigdrink" + "csh.rit.edu")
	MachineDomain string `yaml:"machine_domain" json:"machine_domain"`

	// DropTimeout is the outbound drop request timeout in seconds
	DropTimeout int `yaml:"drop_timeout" json:"drop_timeout"`

	// LedgerURL is the base URL of the credit ledger service
	LedgerURL string `yaml:"ledger_url" json:"ledger_url"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *MizuConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *MizuConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *MizuConfig {
	return &MizuConfig{
		MachineDomain:  "csh.rit.edu",
		DropTimeout:    10,
		LedgerURL:      "",
		TrustedProxies: []string{},
		sources:        make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*MizuConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("MIZU_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig MizuConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"machine_domain", "drop_timeout", "ledger_url", "trusted_proxies",
	}
}

func (c *MizuConfig) applyFileConfig(file *MizuConfig) {
	if file.MachineDomain != "" {
		c.MachineDomain = file.MachineDomain
		c.sources["machine_domain"] = "file"
	}
	if file.DropTimeout != 0 {
		c.DropTimeout = file.DropTimeout
		c.sources["drop_timeout"] = "file"
	}
	if file.LedgerURL != "" {
		c.LedgerURL = file.LedgerURL
		c.sources["ledger_url"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *MizuConfig) applyEnvConfig() {
	if val := os.Getenv("MIZU_MACHINE_DOMAIN"); val != "" {
		c.MachineDomain = val
		c.sources["machine_domain"] = "environment"
	}
	if val := os.Getenv("MIZU_DROP_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.DropTimeout = i
			c.sources["drop_timeout"] = "environment"
		}
	}
	if val := os.Getenv("MIZU_LEDGER_URL"); val != "" {
		c.LedgerURL = val
		c.sources["ledger_url"] = "environment"
	}
	if val := os.Getenv("MIZU_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *MizuConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *MizuConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// DropTimeoutDuration returns the drop timeout as a duration
func (c *MizuConfig) DropTimeoutDuration() time.Duration {
	return time.Duration(c.DropTimeout) * time.Second
}

// MachineAPIToken returns the pre-shared secret for the machines' drop API
func MachineAPIToken() string {
	return os.Getenv("MIZU_MACHINE_API_TOKEN")
}

// JWTSecret returns the shared secret used to verify bearer tokens
func JWTSecret() string {
	return os.Getenv("MIZU_JWT_SECRET")
}

// LedgerToken returns the auth token for the credit ledger service
func LedgerToken() string {
	return os.Getenv("MIZU_LEDGER_TOKEN")
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *MizuConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *MizuConfig) Validate() error {
	if c.DropTimeout <= 0 {
		return fmt.Errorf("drop_timeout must be a positive number of seconds")
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *MizuConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "machine_domain", Value: c.MachineDomain, Source: c.Source("machine_domain")},
		{Name: "drop_timeout", Value: strconv.Itoa(c.DropTimeout), Source: c.Source("drop_timeout")},
		{Name: "ledger_url", Value: c.LedgerURL, Source: c.Source("ledger_url")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *MizuConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *MizuConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
