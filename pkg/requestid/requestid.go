package requestid

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Header carries the request id between the browser, the gateway and the underwriting service.
const Header = "X-Request-ID"

const maxLength = 128

type contextKey struct{}

// New returns a fresh random request id.
func New() string {
	return uuid.NewString()
}

// Resolve keeps an inbound id when it is usable, otherwise mints a new one.
func Resolve(inbound string) string {
	id := strings.TrimSpace(inbound)
	if id == "" || len(id) > maxLength {
		return New()
	}
	return id
}

// NewContext stores id on ctx.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request id stored on ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}
