package orderflow_test

import (
	"context"
	"fmt"
	"log"

	orderflow "github.com/nexustrade/orderflow"
)

// ExampleEngine_Reply processes a request that the extractor cannot turn
// into a complete order, so the workflow answers with an error message.
func ExampleEngine_Reply() {
	model := &scriptedModel{
		completions: []string{
			`{"category": "PlaceOrder", "item_id": "item_51", "location": "local"}`,
		},
	}

	engine, err := orderflow.New(model, orderflow.WithCatalog(testCatalog()))
	if err != nil {
		log.Fatal(err)
	}

	reply, _ := engine.Reply(context.Background(), "I want some item_51, local delivery")
	fmt.Println(reply)
	// Output: Error: missing required fields for PlaceOrder: customer_id, quantity
}
