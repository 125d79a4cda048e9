package testutil

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"immat/pkg/domain"
	"immat/pkg/requestcontext"
)

// WithActor puts an authenticated actor on the request context, as the auth
// middleware does for a verified token.
func WithActor(req *http.Request, actor domain.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// NewActor returns an actor with a fresh user id.
func NewActor(role domain.Role, dept domain.DepartmentID) domain.Actor {
	return domain.Actor{
		UserID:       domain.UserID(uuid.New()),
		Role:         role,
		DepartmentID: dept,
		Name:         string(role),
	}
}

// ActorContext returns a background context carrying actor.
func ActorContext(actor domain.Actor) context.Context {
	return requestcontext.WithActor(context.Background(), actor)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
