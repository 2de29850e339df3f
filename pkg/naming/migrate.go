package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MigrationRule maps legacy labels containing any of Keywords to Role.
type MigrationRule struct {
	Keywords []string `yaml:"keywords"`
	Role     string   `yaml:"role"`
}

// Matches reports whether the lower-cased label contains any keyword.
func (r MigrationRule) Matches(lowerLabel string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(lowerLabel, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DefaultMigrationRules returns the stock keyword rules. Order matters: the
// first matching rule wins, so specific operational terms come before
// generic ones.
func DefaultMigrationRules() []MigrationRule {
	return []MigrationRule{
		{Keywords: []string{"audit", "review"}, Role: "Auditor"},
		{Keywords: []string{"data", "bridge"}, Role: "TaskRunner"},
		{Keywords: []string{"gameboy", "enhance"}, Role: "CodeBuilder"},
		{Keywords: []string{"ops", "hetzner"}, Role: "OpsRunner"},
		{Keywords: []string{"landing", "content"}, Role: "ContentCreator"},
		{Keywords: []string{"videocast", "video"}, Role: "CodeBuilder"},
	}
}

// DefaultParentRoles returns the fallback role for each stock parent.
func DefaultParentRoles() map[string]string {
	return map[string]string{
		"forge":    "CodeBuilder",
		"atlas":    "OpsRunner",
		"echo":     "ContentCreator",
		"hunter":   "Researcher",
		"sentinel": "Auditor",
		"main":     "Coordinator",
	}
}

var (
	versionSuffix = regexp.MustCompile(`-v(\d+)$`)
	numericSuffix = regexp.MustCompile(`-(\d+)$`)
)

// Migrator converts free-form legacy labels into canonical identifiers.
// It is a best-effort backfill tool and is not used on the allocation path.
type Migrator struct {
	schema   *Schema
	rules    []MigrationRule
	defaults map[string]string
}

// NewMigrator builds a Migrator. Rules and defaults are validated against the
// schema so a typo in configuration fails at startup instead of silently
// never matching.
func NewMigrator(schema *Schema, rules []MigrationRule, defaults map[string]string) (*Migrator, error) {
	for i, rule := range rules {
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("migration rule %d: keywords are required", i)
		}
		if _, ok := schema.Role(rule.Role); !ok {
			return nil, fmt.Errorf("migration rule %d: %w: %s", i, ErrInvalidRole, rule.Role)
		}
	}

	fallback := make(map[string]string, len(defaults))
	for parentKey, role := range defaults {
		if _, ok := schema.Parent(parentKey); !ok {
			return nil, fmt.Errorf("migration default: %w: %s", ErrInvalidParent, parentKey)
		}
		if _, ok := schema.Role(role); !ok {
			return nil, fmt.Errorf("migration default for '%s': %w: %s", parentKey, ErrInvalidRole, role)
		}
		fallback[strings.ToLower(parentKey)] = role
	}

	return &Migrator{
		schema:   schema,
		rules:    append([]MigrationRule(nil), rules...),
		defaults: fallback,
	}, nil
}

// DefaultMigrator returns a Migrator over schema with the stock rules and defaults.
func DefaultMigrator(schema *Schema) *Migrator {
	m, err := NewMigrator(schema, DefaultMigrationRules(), DefaultParentRoles())
	if err != nil {
		panic(fmt.Sprintf("naming: default migration table is invalid: %v", err))
	}
	return m
}

// TargetRole returns the role a legacy label maps to for parentKey, or false
// when neither a keyword rule nor a parent default applies.
func (m *Migrator) TargetRole(label, parentKey string) (string, bool) {
	lower := strings.ToLower(label)
	for _, rule := range m.rules {
		if rule.Matches(lower) {
			return rule.Role, true
		}
	}

	role, ok := m.defaults[strings.ToLower(parentKey)]
	return role, ok
}

// Migrate maps a legacy label to an identifier under parentKey.
//
// It returns false when the parent is unknown, the label is empty, no role
// can be inferred, or the inferred role is not allowed for the parent. The
// result is not checked against issued identifiers; callers must
// deduplicate before committing it.
func (m *Migrator) Migrate(label, parentKey string) (Identifier, bool) {
	parent, ok := m.schema.Parent(parentKey)
	if !ok || label == "" {
		return Identifier{}, false
	}

	roleName, ok := m.TargetRole(label, parent.Key)
	if !ok {
		return Identifier{}, false
	}

	role, ok := m.schema.Role(roleName)
	if !ok || !role.Allows(parent.Key) {
		return Identifier{}, false
	}

	return Identifier{
		ParentDisplay: parent.DisplayName,
		Role:          role.Name,
		InstanceID:    legacyInstanceID(label),
	}, true
}

// legacyInstanceID extracts "-v2" or "-7" style suffixes. Suffixes outside
// the numeric instance range fall back to "01".
func legacyInstanceID(label string) InstanceID {
	m := versionSuffix.FindStringSubmatch(label)
	if m == nil {
		m = numericSuffix.FindStringSubmatch(label)
	}
	if m == nil {
		return NumericInstanceID(1)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > MaxNumericInstance {
		return NumericInstanceID(1)
	}
	return NumericInstanceID(n)
}
