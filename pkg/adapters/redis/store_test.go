package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nexustrade/orderflow/pkg/adapters/redis"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	// Initialize client
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Run contract
	store := redis.NewFromClient(client)
	ports.RunOrderStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	orderID := "order-ttl"
	rec := &domain.OrderRecord{
		OrderID:  orderID,
		ItemID:   "item_51",
		Quantity: 2,
	}

	// 1. Put
	err = store.Put(ctx, orderID, rec)
	assert.NoError(t, err)

	// 2. Verify Get (immediately)
	loaded, err := store.Get(ctx, orderID)
	assert.NoError(t, err)
	assert.Equal(t, "item_51", loaded.ItemID)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Get (should fail)
	_, err = store.Get(ctx, orderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Custom Prefix
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	orderID := "my-order"

	err = store.Put(ctx, orderID, &domain.OrderRecord{OrderID: orderID})
	assert.NoError(t, err)

	// Verify keys in Redis directly
	// Key should be "custom:app:my-order"
	exists := mr.Exists("custom:app:my-order")
	assert.True(t, exists, "Expected key with custom prefix to exist")
}

func TestRedisStore_MergeSurvivesRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)
	ctx := context.Background()

	err = store.Put(ctx, "ord-1", &domain.OrderRecord{
		OrderID:    "ord-1",
		CustomerID: "customer_14",
		ItemID:     "item_51",
		Quantity:   2,
		Location:   "domestic",
	})
	assert.NoError(t, err)

	merged, err := store.Merge(ctx, "ord-1", domain.OrderPatch{
		ShippingCost: domain.Ptr("$40.00"),
		TotalWeight:  domain.Ptr(4.0),
		ShippingRate: domain.Ptr(10.0),
	})
	assert.NoError(t, err)
	assert.Equal(t, "$40.00", merged.ShippingCost)
	assert.Equal(t, "customer_14", merged.CustomerID)

	loaded, err := store.Get(ctx, "ord-1")
	assert.NoError(t, err)
	assert.Equal(t, merged, loaded)
}
