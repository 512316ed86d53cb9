package domain_test

import (
	"testing"

	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestOrderPatch_Apply(t *testing.T) {
	rec := &domain.OrderRecord{
		OrderID:    "ord-1",
		CustomerID: "customer_14",
		ItemID:     "item_51",
		Quantity:   2,
		Location:   "domestic",
		Category:   domain.CategoryNewOrder,
	}

	patch := domain.OrderPatch{
		InventoryChecked: domain.Ptr(true),
		StockAvailable:   domain.Ptr(10),
	}
	patch.Apply(rec)

	assert.True(t, rec.InventoryChecked)
	assert.Equal(t, 10, rec.StockAvailable)
	// Fields not mentioned by the patch survive.
	assert.Equal(t, "customer_14", rec.CustomerID)
	assert.Equal(t, "item_51", rec.ItemID)
	assert.Equal(t, 2, rec.Quantity)

	t.Run("Idempotent", func(t *testing.T) {
		before := *rec
		patch.Apply(rec)
		assert.Equal(t, before, *rec)
	})
}

func TestOrderRecord_Clone(t *testing.T) {
	rec := &domain.OrderRecord{OrderID: "ord-1", Quantity: 3}
	cp := rec.Clone()
	cp.Quantity = 9

	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, 9, cp.Quantity)

	var nilRec *domain.OrderRecord
	assert.Nil(t, nilRec.Clone())
}

func TestEnvelope_AppendDoesNotMutateSnapshots(t *testing.T) {
	first := domain.NewEnvelope("place an order")
	second := first.Append(domain.Message{Role: domain.RoleAssistant, Content: "ok"})
	third := second.Append(domain.Message{Role: domain.RoleAssistant, Content: "done"})

	assert.Len(t, first.Messages, 1)
	assert.Len(t, second.Messages, 2)
	assert.Len(t, third.Messages, 3)
	assert.Equal(t, "place an order", third.Messages[0].Content)
}

func TestEnvelope_WithErrorFirstFailureWins(t *testing.T) {
	env := domain.NewEnvelope("hi")
	env = env.WithError(domain.NewFlowError(domain.ErrNotFound, "item item_99 not found"))
	env = env.WithError(domain.NewFlowError(domain.ErrPayment, "payment failed"))

	if assert.NotNil(t, env.Err) {
		assert.Equal(t, domain.ErrNotFound, env.Err.Kind)
	}
}
