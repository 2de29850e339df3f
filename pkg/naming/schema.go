package naming

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	// parentKeyPattern matches lowercase parent keys such as "forge".
	parentKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

	// parentDisplayPattern matches display names that survive the identifier grammar.
	parentDisplayPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

	// RoleNamePattern is the PascalCase rule every role name must satisfy.
	RoleNamePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]{2,19}$`)

	// AbbreviationPattern is the rule every role abbreviation must satisfy.
	AbbreviationPattern = regexp.MustCompile(`^[A-Z0-9]{2,4}$`)
)

// CategoryCustom is the category assigned to custom roles registered without one.
const CategoryCustom = "custom"

// Parent is an orchestrating agent that can spawn sub-agents.
type Parent struct {
	Key         string `json:"key" yaml:"key"`                   // Lowercase lookup key, e.g. "forge"
	DisplayName string `json:"display_name" yaml:"display_name"` // Capitalized form used in identifiers, e.g. "Forge"
}

// Role is a functional category assigned to a sub-agent.
// AllowedParents constrains which parents may spawn it.
type Role struct {
	Name           string    `json:"name"`
	Abbreviation   string    `json:"abbreviation"`
	AllowedParents []string  `json:"allowed_parents"`
	Core           bool      `json:"core"`
	Category       string    `json:"category,omitempty"`
	Description    string    `json:"description,omitempty"`
	RegisteredAt   time.Time `json:"registered_at,omitempty"` // Zero for core roles
}

// Allows reports whether parentKey may spawn this role.
func (r Role) Allows(parentKey string) bool {
	return slices.Contains(r.AllowedParents, strings.ToLower(parentKey))
}

func (r Role) clone() Role {
	r.AllowedParents = slices.Clone(r.AllowedParents)
	return r
}

// RoleDefinition describes a custom role to be registered at runtime.
type RoleDefinition struct {
	Name         string   `yaml:"name"`
	Abbreviation string   `yaml:"abbreviation"`
	Parents      []string `yaml:"parents"`
	Category     string   `yaml:"category,omitempty"`
	Description  string   `yaml:"description,omitempty"`
}

// Schema holds the parent and role registries.
//
// Parents and core roles are fixed at construction. Custom roles may be
// appended with RegisterRole but are never removed or mutated. A Schema is
// safe for concurrent use.
type Schema struct {
	parents   []Parent
	byKey     map[string]Parent
	byDisplay map[string]Parent

	core      []Role
	coreIndex map[string]Role

	mu          sync.RWMutex
	custom      []Role
	customIndex map[string]Role

	now func() time.Time
}

// DefaultParents returns the stock parent registry.
func DefaultParents() []Parent {
	return []Parent{
		{Key: "main", DisplayName: "Main"},
		{Key: "forge", DisplayName: "Forge"},
		{Key: "atlas", DisplayName: "Atlas"},
		{Key: "hunter", DisplayName: "Hunter"},
		{Key: "echo", DisplayName: "Echo"},
		{Key: "sentinel", DisplayName: "Sentinel"},
	}
}

// DefaultCoreRoles returns the eight built-in roles.
func DefaultCoreRoles() []Role {
	return []Role{
		{Name: "TaskRunner", Abbreviation: "TR", AllowedParents: []string{"forge", "atlas", "main"}},
		{Name: "CodeBuilder", Abbreviation: "CB", AllowedParents: []string{"forge"}},
		{Name: "DataProcessor", Abbreviation: "DP", AllowedParents: []string{"atlas"}},
		{Name: "ContentCreator", Abbreviation: "CC", AllowedParents: []string{"echo"}},
		{Name: "OpsRunner", Abbreviation: "OR", AllowedParents: []string{"atlas"}},
		{Name: "Auditor", Abbreviation: "AU", AllowedParents: []string{"sentinel"}},
		{Name: "Researcher", Abbreviation: "RE", AllowedParents: []string{"hunter", "echo"}},
		{Name: "Coordinator", Abbreviation: "CO", AllowedParents: []string{"main", "atlas"}},
	}
}

// DefaultSchema returns a schema built from DefaultParents and DefaultCoreRoles.
func DefaultSchema() *Schema {
	s, err := NewSchema(DefaultParents(), DefaultCoreRoles())
	if err != nil {
		panic(fmt.Sprintf("naming: default schema is invalid: %v", err))
	}
	return s
}

// NewSchema validates the registries and builds a Schema.
// Every role passed here is marked as a core role.
func NewSchema(parents []Parent, coreRoles []Role) (*Schema, error) {
	if len(parents) == 0 {
		return nil, fmt.Errorf("%w: at least one parent is required", ErrInvalidDefinition)
	}

	s := &Schema{
		byKey:       make(map[string]Parent, len(parents)),
		byDisplay:   make(map[string]Parent, len(parents)),
		coreIndex:   make(map[string]Role, len(coreRoles)),
		customIndex: make(map[string]Role),
		now:         time.Now,
	}

	for _, p := range parents {
		if !parentKeyPattern.MatchString(p.Key) {
			return nil, fmt.Errorf("%w: parent key '%s' must be lowercase alphanumeric", ErrInvalidDefinition, p.Key)
		}
		if !parentDisplayPattern.MatchString(p.DisplayName) {
			return nil, fmt.Errorf("%w: parent '%s' has invalid display name '%s'", ErrInvalidDefinition, p.Key, p.DisplayName)
		}
		if _, dup := s.byKey[p.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate parent key '%s'", ErrInvalidDefinition, p.Key)
		}
		if other, dup := s.byDisplay[p.DisplayName]; dup {
			return nil, fmt.Errorf("%w: parents '%s' and '%s' share display name '%s'", ErrInvalidDefinition, other.Key, p.Key, p.DisplayName)
		}
		s.parents = append(s.parents, p)
		s.byKey[p.Key] = p
		s.byDisplay[p.DisplayName] = p
	}

	abbrevs := make(map[string]string, len(coreRoles))
	for _, r := range coreRoles {
		if err := s.checkRole(r.Name, r.Abbreviation, r.AllowedParents); err != nil {
			return nil, err
		}
		if _, dup := s.coreIndex[r.Name]; dup {
			return nil, fmt.Errorf("%w: '%s'", ErrRoleExists, r.Name)
		}
		if owner, dup := abbrevs[r.Abbreviation]; dup {
			return nil, fmt.Errorf("%w: '%s' (roles '%s' and '%s')", ErrAbbreviationExists, r.Abbreviation, owner, r.Name)
		}
		abbrevs[r.Abbreviation] = r.Name

		role := r.clone()
		role.Core = true
		role.RegisteredAt = time.Time{}
		s.core = append(s.core, role)
		s.coreIndex[role.Name] = role
	}

	return s, nil
}

// checkRole validates the shape of a role definition against the parent registry.
func (s *Schema) checkRole(name, abbreviation string, parents []string) error {
	if name == "" {
		return fmt.Errorf("%w: role name must be a non-empty string", ErrInvalidDefinition)
	}
	if !RoleNamePattern.MatchString(name) {
		return fmt.Errorf("%w: role name '%s' must be PascalCase, alphanumeric, 3-20 characters", ErrInvalidDefinition, name)
	}
	if abbreviation == "" {
		return fmt.Errorf("%w: role '%s': abbreviation is required", ErrInvalidDefinition, name)
	}
	if !AbbreviationPattern.MatchString(abbreviation) {
		return fmt.Errorf("%w: role '%s': abbreviation '%s' must be 2-4 uppercase alphanumeric characters", ErrInvalidDefinition, name, abbreviation)
	}
	if len(parents) == 0 {
		return fmt.Errorf("%w: role '%s': parents must be a non-empty list", ErrInvalidDefinition, name)
	}

	var unknown []string
	for _, p := range parents {
		if _, ok := s.byKey[p]; !ok {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: role '%s': invalid parent agents: %s", ErrInvalidDefinition, name, strings.Join(unknown, ", "))
	}

	return nil
}

// RegisterRole appends a custom role. It fails if the name or abbreviation
// collides with any core or custom role, or if the definition is malformed.
// Registration is atomic with respect to concurrent callers.
func (s *Schema) RegisterRole(def RoleDefinition) (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if RoleNamePattern.MatchString(def.Name) {
		if _, exists := s.coreIndex[def.Name]; exists {
			return Role{}, fmt.Errorf("%w: '%s'", ErrRoleExists, def.Name)
		}
		if _, exists := s.customIndex[def.Name]; exists {
			return Role{}, fmt.Errorf("%w: '%s'", ErrRoleExists, def.Name)
		}
	}

	if err := s.checkRole(def.Name, def.Abbreviation, def.Parents); err != nil {
		return Role{}, err
	}

	if owner, taken := s.abbreviationOwnerLocked(def.Abbreviation); taken {
		return Role{}, fmt.Errorf("%w: '%s' is used by role '%s'", ErrAbbreviationExists, def.Abbreviation, owner)
	}

	category := def.Category
	if category == "" {
		category = CategoryCustom
	}

	role := Role{
		Name:           def.Name,
		Abbreviation:   def.Abbreviation,
		AllowedParents: slices.Clone(def.Parents),
		Core:           false,
		Category:       category,
		Description:    def.Description,
		RegisteredAt:   s.now().UTC(),
	}
	s.custom = append(s.custom, role)
	s.customIndex[role.Name] = role

	return role.clone(), nil
}

func (s *Schema) abbreviationOwnerLocked(abbreviation string) (string, bool) {
	for _, r := range s.core {
		if r.Abbreviation == abbreviation {
			return r.Name, true
		}
	}
	for _, r := range s.custom {
		if r.Abbreviation == abbreviation {
			return r.Name, true
		}
	}
	return "", false
}

// Parent looks up a parent by key, ignoring case.
func (s *Schema) Parent(key string) (Parent, bool) {
	p, ok := s.byKey[strings.ToLower(key)]
	return p, ok
}

// ParentByDisplay looks up a parent by its exact display name.
func (s *Schema) ParentByDisplay(display string) (Parent, bool) {
	p, ok := s.byDisplay[display]
	return p, ok
}

// Parents returns the parent registry in declaration order.
func (s *Schema) Parents() []Parent {
	return slices.Clone(s.parents)
}

// Role looks up a core or custom role by exact name.
func (s *Schema) Role(name string) (Role, bool) {
	if r, ok := s.coreIndex[name]; ok {
		return r.clone(), true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.customIndex[name]
	if !ok {
		return Role{}, false
	}
	return r.clone(), true
}

// Roles returns core roles followed by custom roles in registration order.
func (s *Schema) Roles() []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]Role, 0, len(s.core)+len(s.custom))
	for _, r := range s.core {
		roles = append(roles, r.clone())
	}
	for _, r := range s.custom {
		roles = append(roles, r.clone())
	}
	return roles
}

// CoreRoles returns only the built-in roles.
func (s *Schema) CoreRoles() []Role {
	roles := make([]Role, 0, len(s.core))
	for _, r := range s.core {
		roles = append(roles, r.clone())
	}
	return roles
}

// CustomRoles returns only the runtime-registered roles.
func (s *Schema) CustomRoles() []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]Role, 0, len(s.custom))
	for _, r := range s.custom {
		roles = append(roles, r.clone())
	}
	return roles
}

// RolesFor returns the roles parentKey may spawn. An empty key returns every role.
func (s *Schema) RolesFor(parentKey string) []Role {
	all := s.Roles()
	if parentKey == "" {
		return all
	}

	var allowed []Role
	for _, r := range all {
		if r.Allows(parentKey) {
			allowed = append(allowed, r)
		}
	}
	return allowed
}

// IsCoreRole reports whether name is a built-in role.
func (s *Schema) IsCoreRole(name string) bool {
	_, ok := s.coreIndex[name]
	return ok
}

// IsCustomRole reports whether name was registered at runtime.
func (s *Schema) IsCustomRole(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.customIndex[name]
	return ok
}
