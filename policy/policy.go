// Package policy decides whether a role may perform an action. Decisions
// depend only on the role and the policy table, never on resource data.
package policy

import (
	"rayob-cms/models"
)

type Action string

const (
	// ActionContentWrite covers create, update, delete and reorder on every
	// content collection, the company overview and asset uploads.
	ActionContentWrite Action = "content:write"
	// ActionUsersManage covers every user-management endpoint.
	ActionUsersManage Action = "users:manage"
)

// Table maps each action to the roles allowed to perform it.
type Table map[Action][]models.UserRole

func DefaultTable() Table {
	return Table{
		ActionContentWrite: {models.RoleAdmin, models.RoleStaff},
		ActionUsersManage:  {models.RoleAdmin},
	}
}

type Gate struct {
	table Table
}

func NewGate(table Table) *Gate {
	return &Gate{table: table}
}

// Check returns nil when role may perform action and models.ErrForbidden
// otherwise. Actions missing from the table are denied.
func (g *Gate) Check(role models.UserRole, action Action) error {
	for _, allowed := range g.table[action] {
		if allowed == role {
			return nil
		}
	}
	return models.ErrForbidden
}

// Authorize permits role when it is one of required. An empty required
// list denies everyone.
func Authorize(role models.UserRole, required ...models.UserRole) error {
	for _, r := range required {
		if r == role {
			return nil
		}
	}
	return models.ErrForbidden
}
