package services

import "context"

type contextKey string

const (
	itemIDKey    contextKey = "item_id"
	actorKey     contextKey = "actor"
	operationKey contextKey = "operation"
	requestIDKey contextKey = "request_id"
)

// ActorRef is the minimal actor identity carried through a request.
type ActorRef struct {
	ID   string
	Role string
}

// WithItemID annotates context with the article identifier.
func WithItemID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, itemIDKey, id)
}

// ItemIDFromContext extracts the article identifier if present.
func ItemIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(itemIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithActor annotates context with the acting user and role snapshot.
func WithActor(ctx context.Context, id, role string) context.Context {
	if id == "" && role == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, ActorRef{ID: id, Role: role})
}

// ActorFromContext returns the actor if present.
func ActorFromContext(ctx context.Context) (ActorRef, bool) {
	actor, ok := ctx.Value(actorKey).(ActorRef)
	return actor, ok
}

// WithOperation annotates context with the external operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
