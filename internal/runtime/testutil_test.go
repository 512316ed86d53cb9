package runtime_test

import (
	"context"
	"sync"

	"github.com/nexustrade/orderflow/pkg/adapters/memory"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// fakeModel is a scripted ChatModel. Completions and chat replies are
// consumed in order; when a queue runs dry the last entry repeats, which
// lets tests script "the model keeps doing the same thing" behavior.
type fakeModel struct {
	mu          sync.Mutex
	completions []string
	completeErr error
	chatReplies []domain.Message
	chatErr     error

	CompleteCalls int
	ChatCalls     int
	LastTools     []domain.Tool
}

func (m *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls++
	if m.completeErr != nil {
		return "", m.completeErr
	}
	if len(m.completions) == 0 {
		return "", nil
	}
	out := m.completions[0]
	if len(m.completions) > 1 {
		m.completions = m.completions[1:]
	}
	return out, nil
}

func (m *fakeModel) Chat(ctx context.Context, messages []domain.Message, tools []domain.Tool) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls++
	m.LastTools = tools
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	if len(m.chatReplies) == 0 {
		return &domain.Message{Role: domain.RoleAssistant, Content: "ok"}, nil
	}
	reply := m.chatReplies[0]
	if len(m.chatReplies) > 1 {
		m.chatReplies = m.chatReplies[1:]
	}
	return &reply, nil
}

// testCatalog matches the sample data used across the engine tests:
// item_51 weighs 2 units with 10 in stock, customer_14 exists.
func testCatalog() *memory.Catalog {
	return memory.NewCatalog(map[string]ports.ItemInfo{
		"item_51": {Stock: 10, Weight: 2},
		"item_7":  {Stock: 1, Weight: 0.5},
	}, []string{"customer_14", "customer_2"})
}

const placeOrderJSON = `{"category": "PlaceOrder", "customer_id": "customer_14", "item_id": "item_51", "quantity": 2, "location": "domestic"}`
