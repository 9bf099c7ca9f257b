// Package actorcontext carries the authenticated actor on a request context.
// A missing actor is valid and marks system-posted entries.
package actorcontext

import (
	"context"
	"strings"
)

type actorKey struct{}

func WithActorID(ctx context.Context, actorID string) context.Context {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

func ActorIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	actorID, ok := ctx.Value(actorKey{}).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}

// ActorID returns the actor as a nullable column value.
func ActorID(ctx context.Context) *string {
	actorID, ok := ActorIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &actorID
}
