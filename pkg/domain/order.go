package domain

// Category classifies an intake request.
type Category string

const (
	CategoryNewOrder    Category = "NewOrder"
	CategoryCancelOrder Category = "CancelOrder"
	CategoryUnknown     Category = "Unknown"
)

// PaymentStatus tracks the outcome of the payment step.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// DefaultLocation is assumed when the intake request carries no location.
const DefaultLocation = "domestic"

// OrderRecord is the persisted workflow state for a single order.
// OrderID is assigned once at intake and never changes; it is the sole
// key into the order store. Fields are populated monotonically as the
// record passes through pipeline steps.
type OrderRecord struct {
	OrderID    string   `json:"order_id"`
	CustomerID string   `json:"customer_id,omitempty"`
	ItemID     string   `json:"item_id,omitempty"`
	Quantity   int      `json:"quantity,omitempty"`
	Location   string   `json:"location,omitempty"`
	Category   Category `json:"category,omitempty"`

	// Set by the inventory step.
	InventoryChecked bool `json:"inventory_checked,omitempty"`
	StockAvailable   int  `json:"stock_available,omitempty"`

	// Set by the shipping step. ShippingCost is a formatted monetary
	// amount (e.g. "$42.50").
	ShippingCost string  `json:"shipping_cost,omitempty"`
	TotalWeight  float64 `json:"total_weight,omitempty"`
	ShippingRate float64 `json:"shipping_rate,omitempty"`

	// Set by the payment step.
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`

	// Set by the finalize step on successful completion.
	Status      string `json:"status,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Clone returns an independent copy of the record.
func (r *OrderRecord) Clone() *OrderRecord {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// OrderPatch is a partial update to an OrderRecord. Only non-nil fields
// are applied; everything else is preserved. Applying the same patch
// twice yields the same record as applying it once.
type OrderPatch struct {
	CustomerID       *string
	ItemID           *string
	Quantity         *int
	Location         *string
	Category         *Category
	InventoryChecked *bool
	StockAvailable   *int
	ShippingCost     *string
	TotalWeight      *float64
	ShippingRate     *float64
	PaymentStatus    *PaymentStatus
	Status           *string
	CompletedAt      *string
}

// Apply overlays the patch onto the record in place.
func (p OrderPatch) Apply(r *OrderRecord) {
	if p.CustomerID != nil {
		r.CustomerID = *p.CustomerID
	}
	if p.ItemID != nil {
		r.ItemID = *p.ItemID
	}
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.InventoryChecked != nil {
		r.InventoryChecked = *p.InventoryChecked
	}
	if p.StockAvailable != nil {
		r.StockAvailable = *p.StockAvailable
	}
	if p.ShippingCost != nil {
		r.ShippingCost = *p.ShippingCost
	}
	if p.TotalWeight != nil {
		r.TotalWeight = *p.TotalWeight
	}
	if p.ShippingRate != nil {
		r.ShippingRate = *p.ShippingRate
	}
	if p.PaymentStatus != nil {
		r.PaymentStatus = *p.PaymentStatus
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.CompletedAt != nil {
		r.CompletedAt = *p.CompletedAt
	}
}

// Ptr returns a pointer to v. It keeps OrderPatch literals readable.
func Ptr[T any](v T) *T {
	return &v
}
