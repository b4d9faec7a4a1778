package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock supplies timestamps to a Cart.
type Clock func() time.Time

// CartOption customises a Cart at construction.
type CartOption func(*Cart)

// WithClock overrides time.Now for createdAt/lastUpdated and event timestamps.
func WithClock(clock Clock) CartOption {
	return func(c *Cart) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Cart is the aggregate root for a shopping cart. A Cart must be owned by a single
// call path; it holds no locks.
//
// Recorded events stay buffered until DrainEvents is called. Callers reusing an
// instance across mutations must drain after every successful save or events
// will be published twice.
type Cart struct {
	id          string
	lines       []*CartLine
	createdAt   time.Time
	lastUpdated time.Time
	version     int
	events      []Event
	clock       Clock
}

// NewCartID mints a fresh random cart identifier.
func NewCartID() string {
	return uuid.NewString()
}

// NewCart creates an empty cart. The id must be non-empty and not the nil uuid.
func NewCart(id string, opts ...CartOption) (*Cart, error) {
	if err := validateCartID(id); err != nil {
		return nil, err
	}
	c := &Cart{id: id, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	now := c.clock()
	c.createdAt = now
	c.lastUpdated = now
	return c, nil
}

func validateCartID(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidf("cart id is required")
	}
	if parsed, err := uuid.Parse(id); err == nil && parsed == uuid.Nil {
		return invalidf("cart id must not be the nil identifier")
	}
	return nil
}

func (c *Cart) ID() string { return c.id }

func (c *Cart) CreatedAt() time.Time { return c.createdAt }

func (c *Cart) LastUpdated() time.Time { return c.lastUpdated }

// Version is the persisted revision this instance was loaded at; 0 means never saved.
func (c *Cart) Version() int { return c.version }

// MarkSaved is called by repositories after a successful write.
func (c *Cart) MarkSaved() { c.version++ }

// Lines returns copies of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	return out
}

// Line looks up a single line by product id.
func (c *Cart) Line(productID string) (CartLine, bool) {
	if _, l := c.find(productID); l != nil {
		return *l, true
	}
	return CartLine{}, false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.lines {
		n += l.quantity
	}
	return n
}

// AddProduct appends a line or increments the quantity of an existing one.
// A price in a different currency than the existing lines is rejected with ErrCurrencyMismatch.
func (c *Cart) AddProduct(productID, productName string, unitPrice Money, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return invalidf("product id is required")
	}
	if quantity <= 0 {
		return invalidf("quantity must be greater than zero")
	}
	if unitPrice.currency == "" {
		return invalidf("unit price is required")
	}
	if cur := c.currency(); cur != "" && cur != unitPrice.currency {
		return WrapError(ErrCodeInvalidOperation, ErrCurrencyMismatch.Message,
			invalidf("cart is priced in %s, product %s is priced in %s", cur, productID, unitPrice.currency))
	}

	if _, existing := c.find(productID); existing != nil {
		if err := existing.updateQuantity(existing.quantity + quantity); err != nil {
			return err
		}
	} else {
		line, err := newCartLine(productID, productName, unitPrice, quantity)
		if err != nil {
			return err
		}
		c.lines = append(c.lines, line)
	}

	now := c.touch()
	c.record(CartProductAdded{
		baseEvent:   newBaseEvent(c.id, now),
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	})
	return nil
}

// RemoveProduct deletes a line. Removing an absent product is a no-op.
func (c *Cart) RemoveProduct(productID string) error {
	if strings.TrimSpace(productID) == "" {
		return invalidf("product id is required")
	}
	c.remove(productID)
	return nil
}

// UpdateQuantity sets a line's quantity. A quantity <= 0 removes the line.
// It reports false when the product is not in the cart.
func (c *Cart) UpdateQuantity(productID string, quantity int) (bool, error) {
	if strings.TrimSpace(productID) == "" {
		return false, invalidf("product id is required")
	}
	if quantity <= 0 {
		return c.remove(productID), nil
	}
	_, line := c.find(productID)
	if line == nil {
		return false, nil
	}
	if err := line.updateQuantity(quantity); err != nil {
		return false, err
	}
	c.touch()
	return true, nil
}

// Clear empties the cart. It always records CartCleared, even on an empty cart.
func (c *Cart) Clear() {
	c.lines = nil
	now := c.touch()
	c.record(CartCleared{baseEvent: newBaseEvent(c.id, now)})
}

// CalculateTotal sums all line totals. An empty cart totals zero in DefaultCurrency.
func (c *Cart) CalculateTotal() (Money, error) {
	if len(c.lines) == 0 {
		return Zero(DefaultCurrency), nil
	}
	total := Zero(c.lines[0].unitPrice.currency)
	for _, l := range c.lines {
		var err error
		if total, err = total.Add(l.TotalPrice()); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// Events returns the buffered events without clearing them.
func (c *Cart) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// DrainEvents returns the buffered events and empties the buffer.
func (c *Cart) DrainEvents() []Event {
	out := c.events
	c.events = nil
	return out
}

func (c *Cart) remove(productID string) bool {
	idx, line := c.find(productID)
	if line == nil {
		return false
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	now := c.touch()
	c.record(CartProductRemoved{baseEvent: newBaseEvent(c.id, now), ProductID: productID})
	return true
}

func (c *Cart) find(productID string) (int, *CartLine) {
	for i, l := range c.lines {
		if l.productID == productID {
			return i, l
		}
	}
	return -1, nil
}

func (c *Cart) currency() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[0].unitPrice.currency
}

func (c *Cart) touch() time.Time {
	now := c.clock()
	c.lastUpdated = now
	return now
}

func (c *Cart) record(e Event) {
	c.events = append(c.events, e)
}
