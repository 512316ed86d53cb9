package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexustrade/orderflow/pkg/domain"
)

// current resolves a step's effective input record: the store is the
// source of truth, the envelope snapshot only a fallback. The in-flight
// envelope may be stale relative to what earlier steps merged.
func (e *Engine) current(ctx context.Context, env domain.Envelope) *domain.OrderRecord {
	if env.Order == nil {
		return nil
	}
	rec, err := e.store.Get(ctx, env.Order.OrderID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			e.logger.WarnContext(ctx, "store read failed, using envelope snapshot", "order_id", env.Order.OrderID, "err", err)
		}
		return env.Order.Clone()
	}
	return rec
}

// categorize is the intake step: it generates the order ID, runs the
// structured extractor on the first message, and stores the initial
// record. Every failure path returns a normal envelope with an error
// signal; nothing is raised.
func (e *Engine) categorize(ctx context.Context, env domain.Envelope) domain.Envelope {
	if len(env.Messages) == 0 || strings.TrimSpace(env.Messages[0].Content) == "" {
		return env.WithError(domain.NewFlowError(domain.ErrExtraction, "empty request received"))
	}
	query := env.Messages[0].Content

	orderID := e.newID()
	e.logger.DebugContext(ctx, "generated order id", "order_id", orderID)

	req, err := e.extractor.ExtractOrder(ctx, query)
	if err != nil {
		return env.WithError(asFlowError(err))
	}

	rec := &domain.OrderRecord{
		OrderID:    orderID,
		CustomerID: req.CustomerID,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		Location:   req.Location,
		Category:   req.DomainCategory(),
	}

	if err := e.store.Put(ctx, orderID, rec); err != nil {
		return env.WithError(domain.NewFlowError(domain.ErrInternal, "failed to store order: %v", err))
	}

	e.logger.DebugContext(ctx, "initial order stored", "order_id", orderID, "category", string(rec.Category))
	return env.WithOrder(rec)
}

// checkInventory verifies stock for the requested item and merges the
// result into the stored record.
func (e *Engine) checkInventory(ctx context.Context, env domain.Envelope) domain.Envelope {
	if env.Err != nil {
		return env // Silent on error: contribute nothing, let the signal ride.
	}

	rec := e.current(ctx, env)
	if rec == nil {
		return env.WithError(domain.NewMissingFieldError("order_id"))
	}
	env = env.WithOrder(rec)

	if rec.ItemID == "" || rec.Quantity == 0 {
		return env.WithError(domain.NewFlowError(domain.ErrMissingField, "missing item_id or quantity in order state"))
	}

	info, ok := e.catalog.Item(rec.ItemID)
	if !ok {
		return env.WithError(domain.NewFlowError(domain.ErrNotFound, "item %s not found in inventory", rec.ItemID))
	}

	if info.Stock < rec.Quantity {
		return env.WithError(domain.NewFlowError(domain.ErrInsufficientStock,
			"insufficient stock. requested: %d, available: %d", rec.Quantity, info.Stock))
	}

	e.logger.DebugContext(ctx, "item in stock", "order_id", rec.OrderID, "item_id", rec.ItemID,
		"requested", rec.Quantity, "available", info.Stock)

	merged, err := e.store.Merge(ctx, rec.OrderID, domain.OrderPatch{
		InventoryChecked: domain.Ptr(true),
		StockAvailable:   domain.Ptr(info.Stock),
	})
	if err != nil {
		return env.WithError(domain.NewFlowError(domain.ErrInternal, "failed to update order: %v", err))
	}

	return env.WithOrder(merged)
}

// computeShipping derives the shipping cost from item weight, quantity
// and the per-location rate table.
func (e *Engine) computeShipping(ctx context.Context, env domain.Envelope) domain.Envelope {
	if env.Err != nil {
		return env
	}

	rec := e.current(ctx, env)
	if rec == nil {
		return env.WithError(domain.NewMissingFieldError("order_id"))
	}
	env = env.WithOrder(rec)

	var missing []string
	if rec.CustomerID == "" {
		missing = append(missing, "customer_id")
	}
	if rec.ItemID == "" {
		missing = append(missing, "item_id")
	}
	if rec.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if rec.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return env.WithError(domain.NewMissingFieldError(missing...))
	}

	if !e.catalog.HasCustomer(rec.CustomerID) {
		return env.WithError(domain.NewFlowError(domain.ErrNotFound, "customer %s not found", rec.CustomerID))
	}

	info, ok := e.catalog.Item(rec.ItemID)
	if !ok {
		return env.WithError(domain.NewFlowError(domain.ErrNotFound, "item %s not found in inventory", rec.ItemID))
	}

	totalWeight := info.Weight * float64(rec.Quantity)

	// Unrecognized locations deliberately fall back to the default rate.
	rate, ok := e.rates[rec.Location]
	if !ok {
		rate, ok = e.rates[e.defaultLocation]
	}
	if !ok {
		return env.WithError(domain.NewFlowError(domain.ErrInternal,
			"no shipping rate configured for location %q or fallback %q", rec.Location, e.defaultLocation))
	}
	cost := totalWeight * rate

	e.logger.DebugContext(ctx, "shipping computed", "order_id", rec.OrderID,
		"cost", cost, "location", rec.Location, "rate", rate)

	merged, err := e.store.Merge(ctx, rec.OrderID, domain.OrderPatch{
		ShippingCost: domain.Ptr(fmt.Sprintf("$%.2f", cost)),
		TotalWeight:  domain.Ptr(totalWeight),
		ShippingRate: domain.Ptr(rate),
	})
	if err != nil {
		return env.WithError(domain.NewFlowError(domain.ErrInternal, "failed to update order: %v", err))
	}

	return env.WithOrder(merged)
}

// processPayment marks the payment successful once its preconditions
// hold. No payment gateway exists; this is a deliberate stub boundary.
func (e *Engine) processPayment(ctx context.Context, env domain.Envelope) domain.Envelope {
	if env.Err != nil {
		return env
	}

	rec := e.current(ctx, env)
	if rec == nil {
		return env.WithError(domain.NewMissingFieldError("order_id"))
	}
	env = env.WithOrder(rec)

	var missing []string
	if rec.CustomerID == "" {
		missing = append(missing, "customer_id")
	}
	if rec.ItemID == "" {
		missing = append(missing, "item_id")
	}
	if rec.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if rec.ShippingCost == "" {
		missing = append(missing, "shipping_cost")
	}
	if rec.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return env.WithError(domain.NewMissingFieldError(missing...))
	}

	e.logger.DebugContext(ctx, "payment successful", "order_id", rec.OrderID, "amount", rec.ShippingCost)

	merged, err := e.store.Merge(ctx, rec.OrderID, domain.OrderPatch{
		PaymentStatus: domain.Ptr(domain.PaymentSuccess),
	})
	if err != nil {
		return env.WithError(domain.NewFlowError(domain.ErrInternal, "failed to update order: %v", err))
	}

	return env.WithOrder(merged)
}

// finalize is the terminal step of the new-order branch. It is the only
// step that emits a user-visible message for an error signal. On success
// it writes the completion receipt back under the same order ID.
func (e *Engine) finalize(ctx context.Context, env domain.Envelope) domain.Envelope {
	if env.Err != nil {
		return env.Append(domain.Message{
			Role:    domain.RoleAssistant,
			Content: "Error: " + env.Err.Message,
		})
	}

	rec := e.current(ctx, env)
	if rec == nil {
		err := domain.NewMissingFieldError("order_id")
		return env.WithError(err).Append(domain.Message{
			Role:    domain.RoleAssistant,
			Content: "Error: " + err.Message,
		})
	}
	env = env.WithOrder(rec)

	var missing []string
	if rec.CustomerID == "" {
		missing = append(missing, "customer_id")
	}
	if rec.ItemID == "" {
		missing = append(missing, "item_id")
	}
	if rec.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if rec.Location == "" {
		missing = append(missing, "location")
	}
	if rec.ShippingCost == "" {
		missing = append(missing, "shipping_cost")
	}
	if rec.PaymentStatus == "" {
		missing = append(missing, "payment_status")
	}
	if len(missing) > 0 {
		err := domain.NewMissingFieldError(missing...)
		return env.WithError(err).Append(domain.Message{
			Role:    domain.RoleAssistant,
			Content: "Error: Missing order details - " + strings.Join(missing, ", "),
		})
	}

	if rec.PaymentStatus != domain.PaymentSuccess {
		return env.WithError(domain.NewFlowError(domain.ErrPayment, "payment failed")).Append(domain.Message{
			Role:    domain.RoleAssistant,
			Content: "Payment failed. Please try again.",
		})
	}

	// Durable receipt: the completed record later consulted by cancellation.
	receipt := rec.Clone()
	receipt.Status = "Order Successfully Placed"
	receipt.CompletedAt = e.now().UTC().Format(time.RFC3339)

	if err := e.store.Put(ctx, rec.OrderID, receipt); err != nil {
		return env.WithError(domain.NewFlowError(domain.ErrInternal, "failed to store order result: %v", err))
	}

	pretty, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return env.WithError(domain.NewFlowError(domain.ErrInternal, "failed to format order result: %v", err))
	}

	e.logger.DebugContext(ctx, "order completed", "order_id", rec.OrderID)

	return env.WithOrder(receipt).Append(domain.Message{
		Role:    domain.RoleAssistant,
		Content: "Order Details:\n" + string(pretty),
	})
}

// asFlowError keeps a step's failure inside the envelope taxonomy.
func asFlowError(err error) *domain.FlowError {
	var flowErr *domain.FlowError
	if errors.As(err, &flowErr) {
		return flowErr
	}
	return domain.NewFlowError(domain.ErrInternal, "%v", err)
}
