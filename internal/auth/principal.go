// Package auth identifies who is making a request and what they may do.
package auth

import (
	"context"
	"slices"
)

const (
	// CapEditOthersPosts allows editing content written by other users.
	// The editor-notes report requires it.
	CapEditOthersPosts = "edit_others_posts"
	// CapEditPosts allows editing one's own content.
	CapEditPosts = "edit_posts"
)

// Principal is an authenticated user and their capabilities.
type Principal struct {
	UserID       string
	Login        string
	Name         string
	Capabilities []string
}

// Can reports whether p holds capability. A nil principal holds nothing.
func (p *Principal) Can(capability string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Capabilities, capability)
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored in ctx, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
