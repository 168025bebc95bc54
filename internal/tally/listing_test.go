package tally

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"tallysync-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPaginatesByName(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	records := make([]string, 0, 5)
	for i, name := range []string{"Echo", "Alpha", "Delta", "Bravo", "Charlie"} {
		records = append(records, fmt.Sprintf(`{"NAME":%q,"GUID":"g-%d"}`, name, i))
	}
	_, err := e.SyncBatch(ctx, 1, LedgerKind, []byte("["+strings.Join(records, ",")+"]"))
	require.NoError(t, err)
	_, err = e.SyncBatch(ctx, 2, LedgerKind, []byte(`{"NAME":"Other tenant","GUID":"x"}`))
	require.NoError(t, err)

	page1, err := List[models.Ledger](ctx, e, LedgerKind, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	assert.Equal(t, 3, page1.LastPage)
	require.Len(t, page1.Items, 2)
	assert.Equal(t, "Alpha", page1.Items[0].Name)
	assert.Equal(t, "Bravo", page1.Items[1].Name)

	page3, err := List[models.Ledger](ctx, e, LedgerKind, 1, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, "Echo", page3.Items[0].Name)

	beyond, err := List[models.Ledger](ctx, e, LedgerKind, 1, 9, 2)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}

func TestListClampsPageSize(t *testing.T) {
	e, _ := newTestEngine(t)

	res, err := List[models.StockItem](context.Background(), e, StockItemKind, 1, 0, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, MaxPerPage, res.PerPage)
	assert.Equal(t, 1, res.LastPage)

	res, err = List[models.StockItem](context.Background(), e, StockItemKind, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerPage, res.PerPage)

	res, err = List[models.StockItem](context.Background(), e, StockItemKind, 1, math.MaxInt, MaxPerPage)
	require.NoError(t, err)
	assert.Equal(t, MaxPage, res.Page)
	assert.Empty(t, res.Items)
}

func TestListVouchersNewestFirst(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.SyncBatch(ctx, 1, VoucherKind, []byte(`[
		{"GUID":"v-1","DATE":"20240110","VOUCHERTYPENAME":"Sales","VOUCHERNUMBER":"1"},
		{"GUID":"v-2","DATE":"20240301","VOUCHERTYPENAME":"Sales","VOUCHERNUMBER":"2"},
		{"GUID":"v-3","DATE":"20240110","VOUCHERTYPENAME":"Receipt","VOUCHERNUMBER":"3"}
	]`))
	require.NoError(t, err)

	res, err := List[models.Voucher](ctx, e, VoucherKind, 1, 1, DefaultPerPage)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	numbers := make([]string, 0, 3)
	for _, v := range res.Items {
		require.NotNil(t, v.VoucherNumber)
		numbers = append(numbers, *v.VoucherNumber)
	}
	assert.Equal(t, []string{"2", "3", "1"}, numbers)
}
