package common

// Error codes carried in the API error envelope. Clients switch on the
// code, never on the message, so these strings are part of the contract
// and must stay stable across releases. Handlers translate their
// package's sentinel errors into one of these before rendering.
const (
	// CodeBadRequest covers malformed payloads and requests a handler
	// cannot map to a more specific failure.
	CodeBadRequest = "BAD_REQUEST"
	// CodeValidation reports a structurally valid payload with field
	// values that fail validation.
	CodeValidation = "VALIDATION_ERROR"
	// CodeInternal is the generic server-side failure.
	CodeInternal = "INTERNAL"
	// CodeNotFound is the generic missing-resource code for admin
	// surfaces such as campaigns and affiliates.
	CodeNotFound = "NOT_FOUND"

	// CodeCartNotFound means the cart session is gone, either never
	// created or expired out of Redis.
	CodeCartNotFound = "CART_NOT_FOUND"
	// CodeInvalidCode means the submitted discount code is empty or
	// malformed and was never looked up.
	CodeInvalidCode = "INVALID_CODE"
	// CodeCodeNotFound means the discount code is well formed but no
	// active affiliate carries it.
	CodeCodeNotFound = "CODE_NOT_FOUND"
	// CodeInvalidTransition rejects a campaign lifecycle move the state
	// machine does not allow.
	CodeInvalidTransition = "INVALID_TRANSITION"
	// CodePaymentReplay means the payment reference was already
	// processed by an earlier webhook delivery.
	CodePaymentReplay = "PAYMENT_REPLAY"
	// CodeIdempotentReplay means the Idempotency-Key header was seen
	// before and the request was dropped.
	CodeIdempotentReplay = "IDEMPOTENT_REPLAY"
	// CodeRateLimited is returned with HTTP 429 by the code-apply
	// limiter.
	CodeRateLimited = "RATE_LIMITED"

	// CodeUnauthorized and CodeForbidden guard the admin surface: the
	// former for missing or invalid tokens, the latter for valid tokens
	// without the admin role.
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
)
