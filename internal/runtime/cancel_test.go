package runtime_test

import (
	"context"
	"testing"

	"github.com/nexustrade/orderflow/internal/runtime"
	"github.com/nexustrade/orderflow/pkg/adapters/memory"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cancelCall(id, request string) domain.Message {
	return domain.Message{
		Role: domain.RoleAssistant,
		ToolCalls: []domain.ToolCall{{
			ID:   id,
			Name: runtime.CancelActionName,
			Args: map[string]any{"request": request},
		}},
	}
}

func TestRun_CancelExistingOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ord-223", &domain.OrderRecord{
		OrderID:       "ord-223",
		CustomerID:    "customer_14",
		ItemID:        "item_51",
		Quantity:      2,
		PaymentStatus: domain.PaymentSuccess,
		Status:        "Order Successfully Placed",
	}))

	model := &fakeModel{
		// First completion categorizes the request, second resolves the
		// order id inside the cancel action.
		completions: []string{
			`{"category": "CancelOrder"}`,
			`{"order_id": "ord-223"}`,
		},
		chatReplies: []domain.Message{
			cancelCall("call_1", "Cancel order ord-223"),
			{Role: domain.RoleAssistant, Content: "Order ord-223 has been cancelled."},
		},
	}
	engine := runtime.NewEngine(store, testCatalog(), model)

	snapshots := engine.Run(ctx, "Cancel order ord-223")
	final := snapshots[len(snapshots)-1]

	require.Nil(t, final.Err)

	// Hard delete: the record is gone, not tombstoned.
	_, err := store.Get(ctx, "ord-223")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	// History carries the action result and the model's closing message.
	var toolMsg *domain.Message
	for i := range final.Messages {
		if final.Messages[i].Role == domain.RoleTool {
			toolMsg = &final.Messages[i]
		}
	}
	require.NotNil(t, toolMsg, "expected a tool result message in history")
	assert.Contains(t, toolMsg.Content, `"status":"success"`)
	assert.Contains(t, toolMsg.Content, "ord-223")
	assert.Equal(t, "call_1", toolMsg.ToolCallID)

	last := final.Messages[len(final.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Equal(t, "Order ord-223 has been cancelled.", last.Content)

	// The model was offered exactly the cancel action.
	require.Len(t, model.LastTools, 1)
	assert.Equal(t, runtime.CancelActionName, model.LastTools[0].Name)
}

func TestRun_CancelUnknownOrder(t *testing.T) {
	store := memory.NewStore()
	model := &fakeModel{
		completions: []string{
			`{"category": "CancelOrder"}`,
			`{"order_id": "ord-999"}`,
		},
		chatReplies: []domain.Message{
			cancelCall("call_1", "Cancel order ord-999"),
			{Role: domain.RoleAssistant, Content: "I could not find that order."},
		},
	}
	engine := runtime.NewEngine(store, testCatalog(), model)

	snapshots := engine.Run(context.Background(), "Cancel order ord-999")
	final := snapshots[len(snapshots)-1]

	require.Nil(t, final.Err, "an unresolvable reference is an action result, not a workflow error")

	var toolMsg *domain.Message
	for i := range final.Messages {
		if final.Messages[i].Role == domain.RoleTool {
			toolMsg = &final.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Contains(t, toolMsg.Content, "order ord-999 not found")

	// Only the intake record exists; nothing was deleted or invented.
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.NotEqual(t, "ord-999", ids[0])
}

func TestRun_CancelNoIdentifierInRequest(t *testing.T) {
	model := &fakeModel{
		completions: []string{
			`{"category": "CancelOrder"}`,
			`{"order_id": ""}`,
		},
		chatReplies: []domain.Message{
			cancelCall("call_1", "Cancel my order please"),
			{Role: domain.RoleAssistant, Content: "Which order did you mean?"},
		},
	}
	engine := runtime.NewEngine(memory.NewStore(), testCatalog(), model)

	snapshots := engine.Run(context.Background(), "Cancel my order please")
	final := snapshots[len(snapshots)-1]

	require.Nil(t, final.Err)

	var toolMsg *domain.Message
	for i := range final.Messages {
		if final.Messages[i].Role == domain.RoleTool {
			toolMsg = &final.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Contains(t, toolMsg.Content, "no order id found in request")
}

func TestRun_CancelLoopIsBounded(t *testing.T) {
	// A model that requests the action on every round never settles; the
	// round cap must end the loop with an action error.
	model := &fakeModel{
		completions: []string{
			`{"category": "CancelOrder"}`,
			`{"order_id": ""}`,
		},
		chatReplies: []domain.Message{
			cancelCall("call_loop", "cancel it again"),
		},
	}
	engine := runtime.NewEngine(memory.NewStore(), testCatalog(), model,
		runtime.WithMaxCancelRounds(3))

	snapshots := engine.Run(context.Background(), "Cancel my order")
	final := snapshots[len(snapshots)-1]

	require.NotNil(t, final.Err)
	assert.Equal(t, domain.ErrAction, final.Err.Kind)
	assert.Equal(t, 3, model.ChatCalls)
}

func TestRun_CancelModelFailure(t *testing.T) {
	model := &fakeModel{
		completions: []string{`{"category": "CancelOrder"}`},
		chatErr:     assert.AnError,
	}
	engine := runtime.NewEngine(memory.NewStore(), testCatalog(), model)

	snapshots := engine.Run(context.Background(), "Cancel order 42")
	final := snapshots[len(snapshots)-1]

	require.NotNil(t, final.Err)
	assert.Equal(t, domain.ErrInternal, final.Err.Kind)
	assert.Contains(t, final.Err.Message, "error in model call")
}
