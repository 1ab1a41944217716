// Package caller carries the authenticated identity of a request. The HTTP
// middleware stores one immutable Caller per request and handlers pass it to
// services explicitly.
package caller

import (
	"context"
	"eventhub/shared/constant"
	"time"
)

type Caller struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string
	RequestID string
	ExpiresAt time.Time
}

type contextKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the caller stored by the auth middleware. Public routes
// yield a guest caller and false.
func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	if !ok || c.UserID == "" {
		return Caller{RequestID: c.RequestID}, false
	}

	return c, true
}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != ""
}

func (c Caller) IsAdmin() bool {
	return c.Role == constant.RoleAdmin
}

func (c Caller) IsVendor() bool {
	return c.Role == constant.RoleVendor
}

// Actor is the value written to created_by and modified_by.
func (c Caller) Actor() string {
	if c.UserID == "" {
		return constant.ContextGuest
	}

	return c.UserID
}
