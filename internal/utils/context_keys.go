package utils

type contextKey string

func (c contextKey) String() string {
	return string(c)
}

const (
	// TraceIdKey is the key under which the request trace id is stored.
	TraceIdKey contextKey = "traceId"

	// ClaimsKey is the key under which the validated JWT claims are stored.
	ClaimsKey contextKey = "claims"

	// SanitizedPayloadKey is the key under which the validated request payload is stored.
	SanitizedPayloadKey contextKey = "sanitizedPayload"
)
