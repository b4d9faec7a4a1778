package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCart(t *testing.T) (*Cart, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c, err := NewCart("cart-1", WithClock(clock.Now))
	require.NoError(t, err)
	return c, clock
}

func sek(amount string) Money {
	return MustNewMoney(dec(amount), "SEK")
}

func TestNewCart(t *testing.T) {
	c, clock := newTestCart(t)
	assert.Equal(t, "cart-1", c.ID())
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Events())
	assert.Equal(t, clock.now, c.CreatedAt())
	assert.Equal(t, clock.now, c.LastUpdated())
	assert.Zero(t, c.Version())
}

func TestNewCart_RejectsEmptyAndNilIDs(t *testing.T) {
	for _, id := range []string{"", "   ", uuid.Nil.String()} {
		_, err := NewCart(id)
		assert.True(t, IsDomainError(err, ErrCodeInvalid), "id %q", id)
	}
	_, err := NewCart(NewCartID())
	assert.NoError(t, err)
}

func TestCart_AddThenIncrement(t *testing.T) {
	c, _ := newTestCart(t)

	require.NoError(t, c.AddProduct("p1", "Widget", sek("10"), 2))
	require.NoError(t, c.AddProduct("p1", "Widget", sek("10"), 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity())

	total, err := c.CalculateTotal()
	require.NoError(t, err)
	assert.True(t, total.Equal(sek("50")), total.String())

	events := c.Events()
	require.Len(t, events, 2)
	for i, want := range []int{2, 3} {
		added, ok := events[i].(CartProductAdded)
		require.True(t, ok)
		assert.Equal(t, want, added.Quantity)
		assert.Equal(t, "p1", added.ProductID)
		assert.Equal(t, "cart-1", added.AggregateID())
		assert.True(t, added.UnitPrice.Equal(sek("10")))
		assert.NotEmpty(t, added.EventID())
	}
	assert.NotEqual(t, events[0].EventID(), events[1].EventID())
}

func TestCart_AddManyKeepsOneLinePerProduct(t *testing.T) {
	c, _ := newTestCart(t)
	quantities := []int{1, 4, 2, 7, 1}
	var sum int
	for _, q := range quantities {
		require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), q))
		require.NoError(t, c.AddProduct("p2", "Gadget", sek("2"), 1))
		sum += q
	}

	require.Len(t, c.Lines(), 2)
	line, ok := c.Line("p1")
	require.True(t, ok)
	assert.Equal(t, sum, line.Quantity())
	assert.Equal(t, sum+len(quantities), c.ItemCount())
}

func TestCart_AddProductValidation(t *testing.T) {
	c, _ := newTestCart(t)

	assert.True(t, IsDomainError(c.AddProduct("", "Widget", sek("1"), 1), ErrCodeInvalid))
	assert.True(t, IsDomainError(c.AddProduct("p1", "Widget", sek("1"), 0), ErrCodeInvalid))
	assert.True(t, IsDomainError(c.AddProduct("p1", "Widget", sek("1"), -3), ErrCodeInvalid))
	assert.True(t, IsDomainError(c.AddProduct("p1", "", sek("1"), 1), ErrCodeInvalid))
	assert.True(t, IsDomainError(c.AddProduct("p1", "Widget", Money{}, 1), ErrCodeInvalid))

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Events())
}

func TestCart_IncrementRejectsZeroPrice(t *testing.T) {
	c, _ := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))

	err := c.AddProduct("p1", "Widget", Money{}, 2)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
	line, _ := c.Line("p1")
	assert.Equal(t, 1, line.Quantity())
	assert.Len(t, c.Events(), 1)
}

func TestCart_AddProductRejectsSecondCurrency(t *testing.T) {
	c, _ := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))

	err := c.AddProduct("p2", "Gadget", MustNewMoney(dec("1"), "EUR"), 1)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	assert.Len(t, c.Lines(), 1)
	assert.Len(t, c.Events(), 1)
}

func TestCart_AddProductRefreshesLastUpdated(t *testing.T) {
	c, clock := newTestCart(t)
	clock.Advance(time.Minute)

	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))
	assert.Equal(t, clock.now, c.LastUpdated())
	assert.NotEqual(t, c.CreatedAt(), c.LastUpdated())
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	c, clock := newTestCart(t)
	created := c.LastUpdated()
	clock.Advance(time.Hour)

	require.NoError(t, c.RemoveProduct("ghost"))
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Events())
	assert.Equal(t, created, c.LastUpdated())
}

func TestCart_RemoveProduct(t *testing.T) {
	c, clock := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))
	require.NoError(t, c.AddProduct("p2", "Gadget", sek("1"), 1))
	clock.Advance(time.Minute)

	require.NoError(t, c.RemoveProduct("p1"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID())
	assert.Equal(t, clock.now, c.LastUpdated())

	events := c.Events()
	removed, ok := events[len(events)-1].(CartProductRemoved)
	require.True(t, ok)
	assert.Equal(t, "p1", removed.ProductID)

	assert.True(t, IsDomainError(c.RemoveProduct(""), ErrCodeInvalid))
}

func TestCart_UpdateQuantity(t *testing.T) {
	c, clock := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("3"), 1))
	clock.Advance(time.Minute)
	before := len(c.Events())

	updated, err := c.UpdateQuantity("p1", 4)
	require.NoError(t, err)
	assert.True(t, updated)

	line, _ := c.Line("p1")
	assert.Equal(t, 4, line.Quantity())
	assert.True(t, line.TotalPrice().Equal(sek("12")))
	assert.Equal(t, clock.now, c.LastUpdated())
	assert.Len(t, c.Events(), before, "quantity updates record no event")
}

func TestCart_UpdateQuantityToZeroOrBelowDeletes(t *testing.T) {
	for _, q := range []int{0, -1} {
		c, _ := newTestCart(t)
		require.NoError(t, c.AddProduct("p1", "Widget", sek("3"), 2))

		updated, err := c.UpdateQuantity("p1", q)
		require.NoError(t, err)
		assert.True(t, updated)
		_, present := c.Line("p1")
		assert.False(t, present)

		_, isRemoval := c.Events()[1].(CartProductRemoved)
		assert.True(t, isRemoval)
	}
}

func TestCart_UpdateQuantityAbsentProduct(t *testing.T) {
	for _, q := range []int{3, 0} {
		c, clock := newTestCart(t)
		stamp := c.LastUpdated()
		clock.Advance(time.Minute)

		updated, err := c.UpdateQuantity("ghost", q)
		require.NoError(t, err)
		assert.False(t, updated)
		assert.True(t, c.IsEmpty())
		assert.Empty(t, c.Events())
		assert.Equal(t, stamp, c.LastUpdated())
	}

	c, _ := newTestCart(t)
	_, err := c.UpdateQuantity("", 1)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestCart_ClearAlwaysRecordsEvent(t *testing.T) {
	c, _ := newTestCart(t)

	c.Clear()
	assert.True(t, c.IsEmpty())
	require.Len(t, c.Events(), 1)
	_, ok := c.Events()[0].(CartCleared)
	assert.True(t, ok)

	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Len(t, c.Events(), 3)
}

func TestCart_CalculateTotal(t *testing.T) {
	c, _ := newTestCart(t)

	empty, err := c.CalculateTotal()
	require.NoError(t, err)
	assert.True(t, empty.Equal(Zero("SEK")))

	require.NoError(t, c.AddProduct("p1", "Widget", sek("19.99"), 3))
	require.NoError(t, c.AddProduct("p2", "Gadget", sek("0.01"), 1))
	require.NoError(t, c.AddProduct("p3", "Gizmo", sek("5"), 2))

	total, err := c.CalculateTotal()
	require.NoError(t, err)
	assert.True(t, total.Equal(sek("69.98")), total.String())
}

func TestCart_CalculateTotalMixedCurrencyFails(t *testing.T) {
	c, err := RestoreCart(CartSnapshot{
		ID: "cart-1",
		Lines: []LineSnapshot{
			{ProductID: "p1", ProductName: "Widget", UnitPrice: sek("1"), Quantity: 1},
			{ProductID: "p2", ProductName: "Gadget", UnitPrice: MustNewMoney(dec("1"), "EUR"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	_, err = c.CalculateTotal()
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestCart_DrainEvents(t *testing.T) {
	c, _ := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))

	assert.Len(t, c.Events(), 1, "reading does not clear")
	assert.Len(t, c.Events(), 1)

	drained := c.DrainEvents()
	assert.Len(t, drained, 1)
	assert.Empty(t, c.Events())
	assert.Empty(t, c.DrainEvents())
}

func TestCart_LinesAreCopies(t *testing.T) {
	c, _ := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("1"), 1))

	lines := c.Lines()
	lines[0] = CartLine{}

	line, ok := c.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity())
}
