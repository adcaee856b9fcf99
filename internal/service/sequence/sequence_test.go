package sequence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/repository/gormdb"
)

func newService(t *testing.T) *Service {
	t.Helper()

	store, err := gormdb.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	return NewService(store)
}

func TestNextInvoiceNumberFormat(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := svc.NextInvoiceNumber(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "INV2024030001", first)

	second, err := svc.NextInvoiceNumber(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "INV2024030002", second)

	april, err := svc.NextInvoiceNumber(ctx, march.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "INV2024040001", april)
}

func TestPeekInvoiceNumberDoesNotConsume(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	june := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	peek, err := svc.PeekInvoiceNumber(ctx, june, 0)
	require.NoError(t, err)
	assert.Equal(t, "INV2024060001", peek)

	again, err := svc.PeekInvoiceNumber(ctx, june, 0)
	require.NoError(t, err)
	assert.Equal(t, peek, again)

	ahead, err := svc.PeekInvoiceNumber(ctx, june, 2)
	require.NoError(t, err)
	assert.Equal(t, "INV2024060003", ahead)

	next, err := svc.NextInvoiceNumber(ctx, june)
	require.NoError(t, err)
	assert.Equal(t, "INV2024060001", next)

	peek, err = svc.PeekInvoiceNumber(ctx, june, 0)
	require.NoError(t, err)
	assert.Equal(t, "INV2024060002", peek)
}

func TestNextInvoiceNumberConcurrentUnique(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]bool)
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.NextInvoiceNumber(ctx, date)
			assert.NoError(t, err)
			mu.Lock()
			numbers[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, 20)
	assert.True(t, numbers["INV2024050020"])
}
