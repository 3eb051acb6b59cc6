package tx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunnerNestedCallsJoinOuterUnit(t *testing.T) {
	r := NewMemoryRunner()
	calls := 0
	err := r.RunInTx(context.Background(), func(ctx context.Context) error {
		calls++
		return r.RunInTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemoryRunnerPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := NewMemoryRunner().RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestMemoryRunnerSerializesUnits(t *testing.T) {
	r := NewMemoryRunner()
	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.RunInTx(context.Background(), func(context.Context) error {
				v := counter
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestFromWithoutTx(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}
