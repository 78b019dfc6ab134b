package requestid

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolveKeepsInboundID(t *testing.T) {
	require.Equal(t, "abc-123", Resolve("  abc-123 "))
}

func TestResolveMintsUUID(t *testing.T) {
	for _, inbound := range []string{"", "   ", strings.Repeat("x", maxLength+1)} {
		id := Resolve(inbound)
		_, err := uuid.Parse(id)
		require.NoError(t, err, "inbound %q", inbound)
	}
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	ctx := NewContext(context.Background(), "req-1")
	id, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "req-1", id)
}
