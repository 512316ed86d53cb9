// Package extract wraps the opaque language model oracle behind a
// structured interface: raw free text in, a categorized and validated
// intake request (or an order identifier) out. All oracle failures and
// malformed outputs surface as values, never as panics.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// Request is the structured result of extracting an intake message.
type Request struct {
	Category   string `mapstructure:"category"`
	CustomerID string `mapstructure:"customer_id"`
	ItemID     string `mapstructure:"item_id"`
	Quantity   int    `mapstructure:"quantity"`
	Location   string `mapstructure:"location"`
}

// DomainCategory maps the oracle's category label onto the workflow enum.
// Anything unrecognized is Unknown; the router sends Unknown to finalize.
func (r *Request) DomainCategory() domain.Category {
	switch r.Category {
	case "PlaceOrder", string(domain.CategoryNewOrder):
		return domain.CategoryNewOrder
	case string(domain.CategoryCancelOrder):
		return domain.CategoryCancelOrder
	default:
		return domain.CategoryUnknown
	}
}

// Extractor converts free text into structured requests via a Completer.
type Extractor struct {
	model ports.Completer
}

// New creates an Extractor bound to the given model.
func New(model ports.Completer) *Extractor {
	return &Extractor{model: model}
}

// ExtractOrder runs the intake prompt and validates the result.
// Failures return a *domain.FlowError with kind ErrExtraction.
func (x *Extractor) ExtractOrder(ctx context.Context, text string) (*Request, error) {
	raw, err := x.model.Complete(ctx, fmt.Sprintf(orderPromptTemplate, text))
	if err != nil {
		return nil, domain.NewFlowError(domain.ErrExtraction, "oracle call failed: %v", err)
	}

	fields, err := decodeObject(raw)
	if err != nil {
		return nil, domain.NewFlowError(domain.ErrExtraction, "unusable oracle output: %v", err)
	}

	var req Request
	if err := weakDecode(fields, &req); err != nil {
		return nil, domain.NewFlowError(domain.ErrExtraction, "unusable oracle output: %v", err)
	}

	if req.DomainCategory() == domain.CategoryNewOrder {
		var missing []string
		if req.CustomerID == "" {
			missing = append(missing, "customer_id")
		}
		if req.ItemID == "" {
			missing = append(missing, "item_id")
		}
		if req.Quantity == 0 {
			missing = append(missing, "quantity")
		}
		if len(missing) > 0 {
			return nil, domain.NewFlowError(domain.ErrExtraction,
				"missing required fields for PlaceOrder: %s", strings.Join(missing, ", "))
		}
		if req.Location == "" {
			req.Location = domain.DefaultLocation
		}
	}

	return &req, nil
}

// ExtractOrderID runs the narrower cancellation prompt. It returns ""
// when the oracle finds no identifier; the oracle failing outright or
// producing unusable output is an ErrExtraction.
func (x *Extractor) ExtractOrderID(ctx context.Context, text string) (string, error) {
	raw, err := x.model.Complete(ctx, fmt.Sprintf(orderIDPromptTemplate, text))
	if err != nil {
		return "", domain.NewFlowError(domain.ErrExtraction, "oracle call failed: %v", err)
	}

	fields, err := decodeObject(raw)
	if err != nil {
		return "", domain.NewFlowError(domain.ErrExtraction, "unusable oracle output: %v", err)
	}

	var out struct {
		OrderID string `mapstructure:"order_id"`
	}
	if err := weakDecode(fields, &out); err != nil {
		return "", domain.NewFlowError(domain.ErrExtraction, "unusable oracle output: %v", err)
	}

	return out.OrderID, nil
}

// StripFences removes surrounding markdown code-fence noise the oracle
// sometimes wraps its JSON in.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeObject(raw string) (map[string]any, error) {
	cleaned := StripFences(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	return fields, nil
}

// weakDecode maps loosely-typed oracle JSON onto a typed struct.
// Weak typing tolerates "2" vs 2 for numeric fields.
func weakDecode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
