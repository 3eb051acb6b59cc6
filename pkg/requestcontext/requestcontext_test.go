package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "coldchain/pkg/domain"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	orgID := id.OrganizationID(uuid.New())
	pinned := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, userID)
	ctx = WithClientIP(ctx, "10.0.0.7")
	ctx = WithUserAgent(ctx, "dispatchctl/1.0")
	ctx = WithNow(ctx, pinned)
	ctx = WithMembership(ctx, orgID, "dispatcher")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, "10.0.0.7", ClientIP(ctx))
	assert.Equal(t, "dispatchctl/1.0", UserAgent(ctx))
	assert.Equal(t, pinned, Now(ctx))
	assert.Equal(t, orgID, OrganizationID(ctx))
	assert.Equal(t, "dispatcher", Role(ctx))
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.True(t, UserID(ctx).IsNil())
	assert.True(t, OrganizationID(ctx).IsNil())
	assert.Empty(t, Role(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}
