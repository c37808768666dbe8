// Package permissions checks actor privileges.
//
// Privilege Format:
//   - "*" - Full access (all privileges)
//   - "hr" - Human resources: reports, contracts, billing periods
//   - "sales" - A regular sales person
//   - "shiftplanner" - Maintains slots, bookings and special days
package permissions

import (
	"context"

	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/errors"
)

// Known privileges
const (
	HR           = "hr"
	Sales        = "sales"
	ShiftPlanner = "shiftplanner"
)

// HasPermission checks if the user's privileges include the required one.
// "*" matches everything and an empty requirement is always satisfied.
func HasPermission(userPerms []string, required string) bool {
	if required == "" {
		return true // No permission required
	}

	for _, p := range userPerms {
		if p == "*" || p == required {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if the user has any of the required privileges.
func HasAnyPermission(userPerms []string, required []string) bool {
	for _, req := range required {
		if HasPermission(userPerms, req) {
			return true
		}
	}
	return false
}

// IsValidPermission checks if a privilege string is known.
func IsValidPermission(perm string) bool {
	switch perm {
	case "*", HR, Sales, ShiftPlanner:
		return true
	}
	return false
}

// Checker evaluates privileges of the actor carried by a context.
// The system actor passes every check.
type Checker struct{}

// NewChecker creates a privilege checker
func NewChecker() *Checker {
	return &Checker{}
}

// Check fails with Forbidden unless the actor holds one of the privileges.
func (c *Checker) Check(ctx context.Context, privileges ...string) error {
	a := actor.FromContext(ctx)
	if a == nil {
		return errors.Unauthorized("authentication required")
	}
	if a.IsSystem() || HasAnyPermission(a.Privileges, privileges) {
		return nil
	}
	return errors.Forbidden("missing privilege")
}

// CheckSelfOr passes when the actor is linked to salesPersonID or holds one
// of the privileges.
func (c *Checker) CheckSelfOr(ctx context.Context, salesPersonID string, privileges ...string) error {
	a := actor.FromContext(ctx)
	if a != nil && a.SalesPersonID != "" && a.SalesPersonID == salesPersonID {
		return nil
	}
	return c.Check(ctx, privileges...)
}
