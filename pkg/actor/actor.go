// Package actor identifies the user or system performing an action.
//
// This package is used for:
// - Permission checks (privileges carried by the actor)
// - Audit stamping (created_by / deleted_by)
// - Linking a login to its sales person record
package actor

import (
	"context"
	"fmt"
)

// SystemID is the actor id used for background jobs.
const SystemID = "00000000-0000-0000-0000-000000000000"

// Actor represents the entity performing an action in the system.
type Actor struct {
	// ID is the unique identifier of the actor (user ID)
	ID string `json:"id"`

	// Name is the actor's display name
	Name string `json:"name"`

	// SalesPersonID links the login to a sales person, if any
	SalesPersonID string `json:"sales_person_id,omitempty"`

	// Privileges granted to the actor, e.g. "hr" or "shiftplanner"
	Privileges []string `json:"privileges,omitempty"`
}

// String returns a string representation of the actor for logging
func (a *Actor) String() string {
	if a == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

// contextKey is the type for context keys to avoid collisions
type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present.
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	actor, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return actor
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}

// SystemActor returns an Actor representing the system itself.
// Use this for background jobs, scheduled tasks, and system-initiated operations.
func SystemActor() *Actor {
	return &Actor{
		ID:   SystemID,
		Name: "System",
	}
}

// WithSystem attaches the system actor to ctx.
func WithSystem(ctx context.Context) context.Context {
	return WithActor(ctx, SystemActor())
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	return a != nil && a.ID == SystemID
}

// AuditName is the value stamped into created_by / deleted_by columns.
func (a *Actor) AuditName() string {
	if a == nil {
		return "anonymous"
	}
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
