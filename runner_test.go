package orderflow_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	orderflow "github.com/nexustrade/orderflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RequiresIO(t *testing.T) {
	r := orderflow.NewRunner()
	require.Error(t, r.Run(context.Background(), nil))

	r.Input = strings.NewReader("")
	require.Error(t, r.Run(context.Background(), nil))
}

func TestRunner_ExitCommand(t *testing.T) {
	var out bytes.Buffer
	r := orderflow.NewRunner()
	r.Input = strings.NewReader("exit\n")
	r.Output = &out
	r.Headless = true

	require.NoError(t, r.Run(context.Background(), nil))
	assert.Empty(t, out.String())
}

func TestRunner_ProcessesRequestsUntilEOF(t *testing.T) {
	model := &scriptedModel{
		completions: []string{
			`{"category": "PlaceOrder", "customer_id": "customer_14", "item_id": "item_51", "quantity": 2, "location": "domestic"}`,
		},
	}
	engine, err := orderflow.New(model, orderflow.WithCatalog(testCatalog()))
	require.NoError(t, err)

	var out bytes.Buffer
	r := orderflow.NewRunner()
	r.Input = strings.NewReader("2 units of item_51 for customer_14, domestic\n")
	r.Output = &out
	r.Headless = true

	require.NoError(t, r.Run(context.Background(), engine))
	assert.Contains(t, out.String(), "Order Successfully Placed")
	assert.Contains(t, out.String(), "$40.00")
}
