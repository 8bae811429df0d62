package services_test

import (
	"context"
	"testing"

	"v2t/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-abc")
	ctx = services.WithItem(ctx, "https://example.com/watch?v=1")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-abc" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if item, ok := services.ItemFromContext(ctx); !ok || item != "https://example.com/watch?v=1" {
		t.Fatalf("unexpected item: %v %v", item, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithItem(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.ItemFromContext(ctx); ok {
		t.Fatal("expected no item value")
	}
}
