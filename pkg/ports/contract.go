package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunOrderStoreContract runs a suite of tests to verify that an OrderStore
// implementation adheres to the defined interface contract.
func RunOrderStoreContract(t *testing.T, store OrderStore) {
	ctx := context.Background()
	orderID := "contract-test-order-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		rec := &domain.OrderRecord{
			OrderID:    orderID,
			CustomerID: "customer_14",
			ItemID:     "item_51",
			Quantity:   2,
			Location:   "domestic",
			Category:   domain.CategoryNewOrder,
		}

		err := store.Put(ctx, orderID, rec)
		require.NoError(t, err, "Put should not return error")

		loaded, err := store.Get(ctx, orderID)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, rec.CustomerID, loaded.CustomerID)
		assert.Equal(t, rec.Quantity, loaded.Quantity)
		assert.Equal(t, domain.CategoryNewOrder, loaded.Category)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+orderID)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("Merge Preserves Existing Fields", func(t *testing.T) {
		merged, err := store.Merge(ctx, orderID, domain.OrderPatch{
			InventoryChecked: domain.Ptr(true),
			StockAvailable:   domain.Ptr(7),
		})
		require.NoError(t, err)
		assert.True(t, merged.InventoryChecked)
		assert.Equal(t, 7, merged.StockAvailable)
		assert.Equal(t, "customer_14", merged.CustomerID, "merge must not erase earlier fields")

		loaded, err := store.Get(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, merged, loaded)
	})

	t.Run("Merge Is Idempotent", func(t *testing.T) {
		patch := domain.OrderPatch{ShippingCost: domain.Ptr("$40.00"), ShippingRate: domain.Ptr(10.0)}

		first, err := store.Merge(ctx, orderID, patch)
		require.NoError(t, err)
		second, err := store.Merge(ctx, orderID, patch)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Merge Creates Missing Record", func(t *testing.T) {
		freshID := orderID + "-fresh"
		defer func() { _ = store.Delete(ctx, freshID) }()

		merged, err := store.Merge(ctx, freshID, domain.OrderPatch{PaymentStatus: domain.Ptr(domain.PaymentPending)})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPending, merged.PaymentStatus)

		_, err = store.Get(ctx, freshID)
		assert.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, orderID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, orderID)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound, "Get after Delete should return ErrOrderNotFound")

		// Deleting an absent id stays silent.
		assert.NoError(t, store.Delete(ctx, orderID))
	})

	t.Run("Concurrent Merges Serialize", func(t *testing.T) {
		concID := orderID + "-conc"
		defer func() { _ = store.Delete(ctx, concID) }()

		require.NoError(t, store.Put(ctx, concID, &domain.OrderRecord{OrderID: concID}))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				_, err := store.Merge(ctx, concID, domain.OrderPatch{StockAvailable: domain.Ptr(n)})
				assert.NoError(t, err)
			}(i)
			go func() {
				defer wg.Done()
				_, err := store.Merge(ctx, concID, domain.OrderPatch{InventoryChecked: domain.Ptr(true)})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		loaded, err := store.Get(ctx, concID)
		require.NoError(t, err)
		// Both field families survive: no merge tore down the other's write.
		assert.True(t, loaded.InventoryChecked)
		assert.GreaterOrEqual(t, loaded.StockAvailable, 0)
		assert.Less(t, loaded.StockAvailable, 16)
	})
}
