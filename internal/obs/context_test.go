package obs

import (
	"context"
	"testing"
)

func TestRoutePatternRoundTrip(t *testing.T) {
	ctx := WithRoutePattern(context.Background(), "/api/v1/carts/{id}")
	if got := RoutePatternFromContext(ctx); got != "/api/v1/carts/{id}" {
		t.Fatalf("unexpected pattern %q", got)
	}
}

func TestRoutePatternAbsent(t *testing.T) {
	if got := RoutePatternFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty pattern, got %q", got)
	}
	if got := RoutePatternFromContext(nil); got != "" {
		t.Fatalf("expected empty pattern for nil context, got %q", got)
	}
}
