package services_test

import (
	"context"
	"testing"

	"copydesk/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithItemID(ctx, "article-42")
	ctx = services.WithActor(ctx, "u-7", "reviewer")
	ctx = services.WithOperation(ctx, "transitionStatus")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ItemIDFromContext(ctx); !ok || id != "article-42" {
		t.Fatalf("unexpected item id: %v %v", id, ok)
	}
	if actor, ok := services.ActorFromContext(ctx); !ok || actor.ID != "u-7" || actor.Role != "reviewer" {
		t.Fatalf("unexpected actor: %+v %v", actor, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "transitionStatus" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithItemID(ctx, "")
	ctx = services.WithActor(ctx, "", "")
	ctx = services.WithOperation(ctx, "")
	if _, ok := services.ItemIDFromContext(ctx); ok {
		t.Fatal("expected no item id")
	}
	if _, ok := services.ActorFromContext(ctx); ok {
		t.Fatal("expected no actor")
	}
	if _, ok := services.OperationFromContext(ctx); ok {
		t.Fatal("expected no operation")
	}
}
