package memory

import "github.com/nexustrade/orderflow/pkg/ports"

// Catalog implements ports.Catalog from in-memory maps.
// It is the target of the CSV loader and the natural fixture for tests.
type Catalog struct {
	items     map[string]ports.ItemInfo
	customers map[string]struct{}
}

// NewCatalog builds a catalog from an item table and a customer ID list.
func NewCatalog(items map[string]ports.ItemInfo, customers []string) *Catalog {
	c := &Catalog{
		items:     make(map[string]ports.ItemInfo, len(items)),
		customers: make(map[string]struct{}, len(customers)),
	}
	for id, info := range items {
		c.items[id] = info
	}
	for _, id := range customers {
		c.customers[id] = struct{}{}
	}
	return c
}

// Item returns the catalog entry for an item ID.
func (c *Catalog) Item(id string) (ports.ItemInfo, bool) {
	info, ok := c.items[id]
	return info, ok
}

// HasCustomer reports whether the customer ID is known.
func (c *Catalog) HasCustomer(id string) bool {
	_, ok := c.customers[id]
	return ok
}
