package service

import "campusvoice.com/backend/internal/model"

// Scope is the staff filter applied before least-loaded selection.
type Scope int

const (
	// ScopeNone selects among all staff with the required role.
	ScopeNone Scope = iota
	// ScopeHall restricts to staff whose hall matches the student's hall.
	ScopeHall
	// ScopeDepartment restricts to staff whose department matches the
	// student's department.
	ScopeDepartment
)

// RoutingRule says which staff role owns a category and how the candidate
// pool is scoped.
type RoutingRule struct {
	RoleID uint
	Scope  Scope
}

// RoutingPolicy maps a complaint category to its routing rule. New categories
// are added here, not in the selector.
type RoutingPolicy struct {
	rules          map[uint]RoutingRule
	fallback       RoutingRule
	escalationRole uint
}

// DefaultRoutingPolicy mirrors the institution's triage table: hall
// complaints go to hall porters in the student's hall, course complaints to
// departmental secretaries, everything else to bursary staff.
func DefaultRoutingPolicy() *RoutingPolicy {
	return &RoutingPolicy{
		rules: map[uint]RoutingRule{
			model.CategoryHall:   {RoleID: model.RoleHallPorter, Scope: ScopeHall},
			model.CategoryCourse: {RoleID: model.RoleSecretary, Scope: ScopeDepartment},
		},
		fallback:       RoutingRule{RoleID: model.RoleBursaryStaff, Scope: ScopeNone},
		escalationRole: model.RoleHallAdmin,
	}
}

// RuleFor returns the routing rule for a category id.
func (p *RoutingPolicy) RuleFor(categoryID uint) RoutingRule {
	if rule, ok := p.rules[categoryID]; ok {
		return rule
	}
	return p.fallback
}

// EscalationRole is the administrative role escalations are rebound to.
func (p *RoutingPolicy) EscalationRole() uint {
	return p.escalationRole
}
