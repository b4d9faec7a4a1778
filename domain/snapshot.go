package domain

import "time"

// CartSnapshot is the structural, field-keyed representation of a Cart used by persistence adapters.
type CartSnapshot struct {
	ID          string         `json:"cart_id"`
	Version     int            `json:"version"`
	Lines       []LineSnapshot `json:"lines"`
	CreatedAt   time.Time      `json:"created_at"`
	LastUpdated time.Time      `json:"last_updated"`
}

type LineSnapshot struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   Money  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

// Snapshot captures the persisted state of the cart. Pending events are not part of it.
func (c *Cart) Snapshot() CartSnapshot {
	lines := make([]LineSnapshot, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, LineSnapshot{
			ProductID:   l.productID,
			ProductName: l.productName,
			UnitPrice:   l.unitPrice,
			Quantity:    l.quantity,
		})
	}
	return CartSnapshot{
		ID:          c.id,
		Version:     c.version,
		Lines:       lines,
		CreatedAt:   c.createdAt,
		LastUpdated: c.lastUpdated,
	}
}

// RestoreCart rebuilds a Cart from a snapshot, enforcing the same invariants as the mutators.
// No events are recorded.
func RestoreCart(s CartSnapshot, opts ...CartOption) (*Cart, error) {
	c, err := NewCart(s.ID, opts...)
	if err != nil {
		return nil, err
	}
	if s.Version < 0 {
		return nil, invalidf("cart version cannot be negative")
	}
	for _, ls := range s.Lines {
		if _, dup := c.find(ls.ProductID); dup != nil {
			return nil, invalidf("duplicate product %q in cart %s", ls.ProductID, s.ID)
		}
		line, err := newCartLine(ls.ProductID, ls.ProductName, ls.UnitPrice, ls.Quantity)
		if err != nil {
			return nil, err
		}
		c.lines = append(c.lines, line)
	}
	c.version = s.Version
	if !s.CreatedAt.IsZero() {
		c.createdAt = s.CreatedAt
	}
	if !s.LastUpdated.IsZero() {
		c.lastUpdated = s.LastUpdated
	}
	return c, nil
}
