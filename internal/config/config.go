package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/dyluth/fleetid/pkg/naming"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is where commands look for configuration when --config is not given.
	DefaultPath = "fleetid.yml"

	// DefaultFleet is the registry namespace used when none is configured.
	DefaultFleet = "default"

	// DefaultMaxRetries bounds compare-and-set retries for registry allocation.
	DefaultMaxRetries = 32

	// MaxFleetNameLength keeps fleet names DNS-compatible.
	MaxFleetNameLength = 63
)

// FleetNamePattern is the rule for fleet names: lowercase alphanumeric,
// hyphens allowed but not at start or end.
var FleetNamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// FleetConfig represents the top-level fleetid.yml configuration
type FleetConfig struct {
	Version     string                  `yaml:"version"`
	Fleet       string                  `yaml:"fleet"`
	Parents     []naming.Parent         `yaml:"parents"`
	Roles       []RoleConfig            `yaml:"roles"`
	CustomRoles []naming.RoleDefinition `yaml:"custom_roles,omitempty"`
	Migration   *MigrationConfig        `yaml:"migration,omitempty"`
	Registry    *RegistryConfig         `yaml:"registry,omitempty"`
}

// RoleConfig declares a core role
type RoleConfig struct {
	Name         string   `yaml:"name"`
	Abbreviation string   `yaml:"abbreviation"`
	Parents      []string `yaml:"parents"`
	Category     string   `yaml:"category,omitempty"`
	Description  string   `yaml:"description,omitempty"`
}

// MigrationConfig holds the ordered legacy-label rules and per-parent fallbacks
type MigrationConfig struct {
	Rules    []naming.MigrationRule `yaml:"rules"`
	Defaults map[string]string      `yaml:"defaults"`
}

// RegistryConfig points at the shared Redis registry
type RegistryConfig struct {
	URL        string `yaml:"url,omitempty"`         // redis://host:port/db; empty disables the registry
	MaxRetries *int   `yaml:"max_retries,omitempty"` // CAS retries per spawn (default 32)
}

// Default returns the built-in configuration: the stock parents, the eight
// core roles and the stock migration table.
func Default() *FleetConfig {
	cfg := &FleetConfig{
		Version: "1.0",
		Fleet:   DefaultFleet,
		Parents: naming.DefaultParents(),
		Migration: &MigrationConfig{
			Rules:    naming.DefaultMigrationRules(),
			Defaults: naming.DefaultParentRoles(),
		},
	}
	for _, r := range naming.DefaultCoreRoles() {
		cfg.Roles = append(cfg.Roles, RoleConfig{
			Name:         r.Name,
			Abbreviation: r.Abbreviation,
			Parents:      r.AllowedParents,
		})
	}
	cfg.applyDefaults()
	return cfg
}

// ValidateFleetName checks a fleet name against DNS naming rules.
func ValidateFleetName(name string) error {
	if name == "" {
		return fmt.Errorf("fleet name cannot be empty")
	}

	if len(name) > MaxFleetNameLength {
		return fmt.Errorf("fleet name too long: %d characters (max: %d)", len(name), MaxFleetNameLength)
	}

	if !FleetNamePattern.MatchString(name) {
		return fmt.Errorf("invalid fleet name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}

	return nil
}

// applyDefaults fills optional sections
func (c *FleetConfig) applyDefaults() {
	if c.Fleet == "" {
		c.Fleet = DefaultFleet
	}

	if c.Registry == nil {
		c.Registry = &RegistryConfig{}
	}
	if c.Registry.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.Registry.MaxRetries = &retries
	}
}

// Validate performs strict validation on the configuration and applies defaults.
// Schema-level checks (key formats, abbreviation collisions, unknown parents)
// are delegated to the naming package by building the schema.
func (c *FleetConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	c.applyDefaults()

	if err := ValidateFleetName(c.Fleet); err != nil {
		return err
	}

	// Required: at least one parent and one role
	if len(c.Parents) == 0 {
		return fmt.Errorf("no parents defined")
	}
	if len(c.Roles) == 0 {
		return fmt.Errorf("no roles defined")
	}

	if *c.Registry.MaxRetries < 1 {
		return fmt.Errorf("registry.max_retries must be >= 1, got %d", *c.Registry.MaxRetries)
	}

	schema, err := c.Schema()
	if err != nil {
		return err
	}

	if _, err := c.Migrator(schema); err != nil {
		return err
	}

	return nil
}

// Schema builds the naming schema: parents and core roles first, then every
// custom role in file order through the guarded registration path.
func (c *FleetConfig) Schema() (*naming.Schema, error) {
	core := make([]naming.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		core = append(core, naming.Role{
			Name:           r.Name,
			Abbreviation:   r.Abbreviation,
			AllowedParents: r.Parents,
			Category:       r.Category,
			Description:    r.Description,
		})
	}

	schema, err := naming.NewSchema(c.Parents, core)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	for _, def := range c.CustomRoles {
		if _, err := schema.RegisterRole(def); err != nil {
			return nil, fmt.Errorf("custom role '%s': %w", def.Name, err)
		}
	}

	return schema, nil
}

// Migrator builds the legacy-label migrator for schema. Without a migration
// section the stock table is used, restricted to the parents and roles the
// schema actually declares.
func (c *FleetConfig) Migrator(schema *naming.Schema) (*naming.Migrator, error) {
	m := c.Migration
	if m == nil {
		m = stockMigration(schema)
	}

	migrator, err := naming.NewMigrator(schema, m.Rules, m.Defaults)
	if err != nil {
		return nil, fmt.Errorf("invalid migration config: %w", err)
	}
	return migrator, nil
}

func stockMigration(schema *naming.Schema) *MigrationConfig {
	m := &MigrationConfig{Defaults: make(map[string]string)}
	for _, rule := range naming.DefaultMigrationRules() {
		if _, ok := schema.Role(rule.Role); ok {
			m.Rules = append(m.Rules, rule)
		}
	}
	for parentKey, role := range naming.DefaultParentRoles() {
		_, parentOK := schema.Parent(parentKey)
		_, roleOK := schema.Role(role)
		if parentOK && roleOK {
			m.Defaults[parentKey] = role
		}
	}
	return m
}

// RedisURL returns the registry URL, preferring the REDIS_URL environment variable.
func (c *FleetConfig) RedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	if c.Registry == nil {
		return ""
	}
	return c.Registry.URL
}

// Load reads and validates fleetid.yml from the specified path
func Load(path string) (*FleetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config FleetConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
// Any other read or validation failure is returned.
func LoadOrDefault(path string) (*FleetConfig, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}
