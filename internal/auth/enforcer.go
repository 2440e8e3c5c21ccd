package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/hongminglow/taskboard/internal/models"
)

// Route-level objects guarded by role.
const (
	ObjectProfile = "profile"
	ObjectTasks   = "tasks"
	ObjectAdmin   = "admin"
)

// Actions checked against role policies.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (p.act == "*" || r.act == p.act)
`

// rolePolicies grant USER its own profile and tasks; ADMIN inherits USER and adds the admin area.
var rolePolicies = [][]string{
	{string(models.RoleUser), ObjectProfile, "*"},
	{string(models.RoleUser), ObjectTasks, "*"},
	{string(models.RoleAdmin), ObjectAdmin, "*"},
}

var roleInheritance = [][]string{
	{string(models.RoleAdmin), string(models.RoleUser)},
}

// NewEnforcer builds the in-memory casbin enforcer for route-level role checks.
// Per-task ownership is decided by the policy package, not here.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(rolePolicies); err != nil {
		return nil, fmt.Errorf("load role policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(roleInheritance); err != nil {
		return nil, fmt.Errorf("load role inheritance: %w", err)
	}
	return enforcer, nil
}

// RolesFor lists the roles allowed to perform act on obj, for error messages.
func RolesFor(enforcer casbin.IEnforcer, obj, act string) []string {
	var out []string
	for _, role := range []models.Role{models.RoleUser, models.RoleAdmin} {
		if ok, err := enforcer.Enforce(string(role), obj, act); err == nil && ok {
			out = append(out, string(role))
		}
	}
	return out
}
