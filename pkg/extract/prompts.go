package extract

// orderPromptTemplate asks the model to turn free text into the intake
// JSON object. %s is the raw request text.
const orderPromptTemplate = `Extract order information from this text and return ONLY a valid JSON object without any markdown formatting or backticks.

Text: %s

The JSON must have these exact fields:
- category: Either "PlaceOrder" for new orders or "CancelOrder" for cancellations
- customer_id: (format: customer_XX) - Required for PlaceOrder
- item_id: (format: item_XX) - Required for PlaceOrder
- quantity: (number) - Required for PlaceOrder
- location: "domestic" (default) - Optional

Example format:
{
    "category": "PlaceOrder",
    "customer_id": "customer_14",
    "item_id": "item_51",
    "quantity": 2,
    "location": "domestic"
}

Return ONLY the JSON object, no other text, no code blocks, no backticks.`

// orderIDPromptTemplate asks the model to pull a bare order identifier
// out of a cancellation reference. %s is the free-text reference.
const orderIDPromptTemplate = `Extract the order_id from this text and return ONLY a valid JSON object.

Text: %s

Rules:
- The order_id should be a string
- If you see a number or UUID after "order_id" or "order", that's the order_id
- Return format must be exactly: {"order_id": "EXTRACTED_ID"}
- Do not include markdown formatting, backticks, or any other text`
