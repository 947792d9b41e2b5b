package obs

import "context"

type ctxKey int

const routePatternKey ctxKey = iota

// WithRoutePattern stores the matched chi route pattern, e.g.
// /api/v1/carts/{id}/apply-code, so logs and metrics label by pattern
// instead of exploding cardinality with raw cart and order ids.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey, pattern)
}

// RoutePatternFromContext returns the stored pattern, or "" when the
// request never matched a route.
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(routePatternKey).(string)
	return v
}
