package ports

// ItemInfo describes one inventory catalog entry.
type ItemInfo struct {
	Stock  int
	Weight float64
}

// Catalog provides lookups into the inventory and customer data.
// Implementations are read-only; the workflow never mutates catalog data.
type Catalog interface {
	// Item returns the catalog entry for an item ID, reporting whether it exists.
	Item(id string) (ItemInfo, bool)

	// HasCustomer reports whether a customer ID exists in the customer catalog.
	HasCustomer(id string) bool
}
