package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLine_Validation(t *testing.T) {
	_, err := newCartLine("", "Widget", sek("1"), 1)
	assert.Error(t, err)
	_, err = newCartLine("p1", " ", sek("1"), 1)
	assert.Error(t, err)
	_, err = newCartLine("p1", "Widget", Money{}, 1)
	assert.Error(t, err)
	_, err = newCartLine("p1", "Widget", sek("1"), 0)
	assert.Error(t, err)

	line, err := newCartLine("p1", "Widget", sek("2.5"), 2)
	require.NoError(t, err)
	assert.True(t, line.TotalPrice().Equal(sek("5")))

	assert.Error(t, line.updateQuantity(0))
	assert.Equal(t, 2, line.Quantity())
	require.NoError(t, line.updateQuantity(7))
	assert.True(t, line.TotalPrice().Equal(sek("17.5")))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c, _ := newTestCart(t)
	require.NoError(t, c.AddProduct("p1", "Widget", sek("10"), 2))
	require.NoError(t, c.AddProduct("p2", "Gadget", sek("3.5"), 1))
	c.MarkSaved()

	restored, err := RestoreCart(c.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, c.ID(), restored.ID())
	assert.Equal(t, c.Lines(), restored.Lines())
	assert.True(t, c.CreatedAt().Equal(restored.CreatedAt()))
	assert.True(t, c.LastUpdated().Equal(restored.LastUpdated()))
	assert.Equal(t, 1, restored.Version())
	assert.Empty(t, restored.Events())
}

func TestRestoreCart_RejectsBrokenSnapshots(t *testing.T) {
	good := LineSnapshot{ProductID: "p1", ProductName: "Widget", UnitPrice: sek("1"), Quantity: 1}
	cases := map[string]CartSnapshot{
		"empty id":       {Lines: []LineSnapshot{good}},
		"duplicate line": {ID: "c", Lines: []LineSnapshot{good, good}},
		"zero quantity":  {ID: "c", Lines: []LineSnapshot{{ProductID: "p1", ProductName: "Widget", UnitPrice: sek("1")}}},
		"missing price":  {ID: "c", Lines: []LineSnapshot{{ProductID: "p1", ProductName: "Widget", Quantity: 1}}},
		"negative rev":   {ID: "c", Version: -1},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := RestoreCart(snap)
			assert.True(t, IsDomainError(err, ErrCodeInvalid))
		})
	}
}

func TestRestoreCart_KeepsTimestamps(t *testing.T) {
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)

	c, err := RestoreCart(CartSnapshot{ID: "c", CreatedAt: created, LastUpdated: updated})
	require.NoError(t, err)
	assert.Equal(t, created, c.CreatedAt())
	assert.Equal(t, updated, c.LastUpdated())
}
