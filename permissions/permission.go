package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"hotelops/shared/constant"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleStaff, constant.RoleGuest}

// Rule describes who may call one route. An empty Roles list admits any
// authenticated caller.
type Rule struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"roles"`
	Skip   bool     `json:"skip"`
}

// Allows reports whether role may call the route.
func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

type PermissionData struct {
	Endpoints []Rule `json:"endpoints"`
	Skip      bool   `json:"skip"`

	index map[string]Rule
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Lookup finds the rule for a chi route pattern such as /v1/bookings/{id}.
func (p *PermissionData) Lookup(method, path string) (Rule, bool) {
	rule, ok := p.index[routeKey(method, path)]

	return rule, ok
}

// Parse decodes a rule table and rejects duplicate routes or unknown roles.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Rule, len(permissions.Endpoints))

	for _, rule := range permissions.Endpoints {
		key := routeKey(rule.Method, rule.Path)
		if _, dup := permissions.index[key]; dup {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		for _, role := range rule.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q for %s", role, key)
			}
		}

		permissions.index[key] = rule
	}

	return &permissions, nil
}

// Get loads the embedded rule table. A nil result makes RBAC deny everything.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("loaded embedded permissions")

	return permissions
}
