package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "coldchain/pkg/domain-errors"
)

func TestNewWithoutURL(t *testing.T) {
	pool, err := New(context.Background(), DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, pool)

	assert.ErrorIs(t, pool.Health(context.Background()), errNotConfigured)
	assert.NoError(t, pool.Close())
}

func TestRunInTxRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := FromDB(nil).RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	})

	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.False(t, called)
}
