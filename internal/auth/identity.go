// Package auth issues and verifies access tokens and carries the verified
// request identity through the context. There is no ambient current-user
// state: handlers and services receive the identity explicitly.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoIdentity indicates the context carries no verified identity
var ErrNoIdentity = errors.New("no verified identity in context")

// Identity is a verified caller identity
type Identity struct {
	UserID   uuid.UUID
	Username string
}

type contextKey struct{}

// WithIdentity returns a context carrying the verified identity
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom extracts the verified identity from the context
func IdentityFrom(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
