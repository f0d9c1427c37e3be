package replay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cardwallet/pkg/platform/sentinel"
)

func TestMemoryGuardRejectsReplay(t *testing.T) {
	guard := NewMemoryGuard(time.Minute)
	ctx := context.Background()

	require.NoError(t, guard.MarkUsed(ctx, "nonce-1"))
	require.ErrorIs(t, guard.MarkUsed(ctx, "nonce-1"), sentinel.ErrAlreadyUsed)
	require.NoError(t, guard.MarkUsed(ctx, "nonce-2"))
}

func TestMemoryGuardExpiresNonces(t *testing.T) {
	guard := NewMemoryGuard(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, guard.MarkUsed(ctx, "nonce-1"))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, guard.MarkUsed(ctx, "nonce-1"))
}
