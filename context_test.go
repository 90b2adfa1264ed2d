package grantkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextUserID tests user ID context helpers
func TestContextUserID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))

	ctx = WithUserID(ctx, "user-1")
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "user-1", MustGetUserID(ctx))
}

// TestContextMustGetUserIDPanics tests panic on missing user ID
func TestContextMustGetUserIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustGetUserID(context.Background())
	})
}

// TestContextActorFallback tests that actor ID falls back to user ID
func TestContextActorFallback(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")
	assert.Equal(t, "user-1", GetActorID(ctx))

	ctx = WithActorID(ctx, "admin-1")
	assert.Equal(t, "admin-1", GetActorID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

// TestContextAuditRoundTrip tests the combined audit context helpers
func TestContextAuditRoundTrip(t *testing.T) {
	ac := AuditContext{
		ActorID:   "admin-1",
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
		RequestID: "req-123",
	}

	ctx := WithAuditContext(context.Background(), ac)
	assert.Equal(t, ac, GetAuditContext(ctx))
}

// TestContextAuditPartial tests that empty audit fields are not set
func TestContextAuditPartial(t *testing.T) {
	ctx := WithAuditContext(context.Background(), AuditContext{RequestID: "req-123"})
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Empty(t, GetIPAddress(ctx))
	assert.Empty(t, GetUserAgent(ctx))
	assert.Empty(t, GetActorID(ctx))
}
