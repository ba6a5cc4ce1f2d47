package service

import (
	"context"
	"testing"
	"time"

	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/stretchr/testify/require"
)

func TestRecordSuccessMarksRowsWithoutAppending(t *testing.T) {
	ctx := context.Background()
	store := &fakeAttempts{}
	lockout := NewLockoutService(store, config.LockoutConfig{MaxAttempts: 5, Window: 30 * time.Minute}, quietLogger())

	require.NoError(t, lockout.RecordFailure(ctx, "u1"))
	require.NoError(t, lockout.RecordFailure(ctx, "u1"))
	require.NoError(t, lockout.RecordFailure(ctx, "u2"))
	require.Len(t, store.attempts, 3)

	require.NoError(t, lockout.RecordSuccess(ctx, "u1"))

	require.Len(t, store.attempts, 3)
	for _, a := range store.attempts {
		require.Equal(t, a.UserID == "u1", a.Successful, "attempt of %s", a.UserID)
	}

	n, err := store.CountFailuresSince(ctx, "u1", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, n)
}
