package domain

import (
	"context"
	"errors"
)

// Actor is the authenticated principal recorded on postings and audit rows.
type Actor struct {
	ID   string
	Role Role
}

// Role represents an actor's access level
type Role string

const (
	// RoleController manages master data and may reverse posted entries
	RoleController Role = "controller"

	// RoleAccountant drafts and posts journal entries
	RoleAccountant Role = "accountant"

	// RoleViewer can only read
	RoleViewer Role = "viewer"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleController, RoleAccountant, RoleViewer:
		return true
	}

	return false
}

// CanPost checks if the role may create, edit and post entries
func (r Role) CanPost() bool {
	return r == RoleController || r == RoleAccountant
}

// CanManage checks if the role may change master data, rates and reverse entries
func (r Role) CanManage() bool {
	return r == RoleController
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type actorKey struct{}

// WithActor stores the actor in ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

type requestIDKey struct{}

// WithRequestID stores the request ID used to correlate audit rows.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or "" when none was set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
