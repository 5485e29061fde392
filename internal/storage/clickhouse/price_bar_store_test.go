package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

func makeBars(dates ...int64) []domain.PriceBar {
	bars := make([]domain.PriceBar, len(dates))
	for i, d := range dates {
		bars[i] = domain.PriceBar{
			Date: d, Open: 100, High: 102, Low: 99, Close: 101, Volume: 5000,
		}
	}
	return bars
}

func TestPriceBarStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceBarStore(conn)

	require.NoError(t, store.InsertBulk(ctx, "instr-1", makeBars(3000, 1000, 2000)))

	bars, err := store.GetByInstrumentID(ctx, "instr-1")
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, int64(1000), bars[0].Date)
	assert.Equal(t, int64(3000), bars[2].Date)
	assert.InDelta(t, 101.0, bars[0].Close, 1e-9)
}

func TestPriceBarStore_DuplicateRejected(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceBarStore(conn)

	require.NoError(t, store.InsertBulk(ctx, "instr-1", makeBars(1000)))

	err := store.InsertBulk(ctx, "instr-1", makeBars(1000, 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	err = store.InsertBulk(ctx, "instr-2", makeBars(4000, 4000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey, "intra-batch duplicate")
}

func TestPriceBarStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceBarStore(conn)

	require.NoError(t, store.InsertBulk(ctx, "instr-1", makeBars(1000, 2000, 3000, 4000)))

	bars, err := store.GetByTimeRange(ctx, "instr-1", 2000, 3000)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, int64(2000), bars[0].Date)
	assert.Equal(t, int64(3000), bars[1].Date)
}

func TestPriceBarStore_EmptyInstrument(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceBarStore(conn)
	bars, err := store.GetByInstrumentID(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, bars)
}
