package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsIdentity(t *testing.T) {
	lines := []Line{
		{Name: "Chicken Karahi", Price: 1899, Quantity: 2},
		{Name: "Naan", Price: 150, Quantity: 3},
		{Name: "Lassi", Price: 333, Quantity: 1},
	}
	for _, m := range []Method{Cash, Card} {
		tot := Compute(lines, m)
		assert.Equal(t, int64(1899*2+150*3+333), tot.Subtotal)
		assert.Equal(t, tot.Subtotal+tot.Tax, tot.Total)

		rate := 0.08
		if m == Cash {
			rate = 0.15
		}
		exact := float64(tot.Subtotal) * rate
		assert.InDelta(t, exact, float64(tot.Tax), 0.5, "method %s", m)
	}
}

func TestTaxRoundsHalfUp(t *testing.T) {
	// 10 * 0.15 = 1.5 -> 2
	assert.Equal(t, int64(2), Tax(10, Cash))
	// 6 * 0.08 = 0.48 -> 0
	assert.Equal(t, int64(0), Tax(6, Card))
	// 7 * 0.08 = 0.56 -> 1
	assert.Equal(t, int64(1), Tax(7, Card))
	assert.Equal(t, int64(0), Tax(0, Cash))
}

func TestUnknownMethodUsesCardRate(t *testing.T) {
	assert.Equal(t, Card.RateBasisPoints(), Method("").RateBasisPoints())
	assert.Equal(t, int64(1500), Cash.RateBasisPoints())
}

func TestAddSameNameTwiceMerges(t *testing.T) {
	o := &Order{Method: Card}
	o.Add("Chai", 200)
	o.Add("Chai", 999)

	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	// first snapshot wins
	assert.Equal(t, int64(200), o.Lines[0].Price)
	assert.Equal(t, int64(400), o.Totals().Subtotal)
}

func TestSetQuantityBelowOneRemoves(t *testing.T) {
	for _, q := range []int{0, -3} {
		o := &Order{Method: Cash}
		o.Add("Biryani", 1200)
		o.Add("Raita", 300)

		assert.True(t, o.SetQuantity("Biryani", q))
		require.Len(t, o.Lines, 1)
		assert.Equal(t, "Raita", o.Lines[0].Name)
		assert.Equal(t, int64(300), o.Totals().Subtotal)
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	o := &Order{}
	assert.False(t, o.SetQuantity("ghost", 2))
	assert.False(t, o.Remove("ghost"))
}

func TestChangingMethodRecomputesTax(t *testing.T) {
	o := &Order{Method: Cash}
	o.Add("Platter", 10000)
	assert.Equal(t, int64(1500), o.Totals().Tax)

	o.SetMethod(Card)
	assert.Equal(t, int64(800), o.Totals().Tax)
	assert.Equal(t, int64(10800), o.Totals().Total)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Order{Method: Cash, Lines: []Line{{Name: "Tea", Price: 0, Quantity: 1}}}).Validate())
	assert.Error(t, (&Order{Method: "bitcoin"}).Validate())
	assert.Error(t, (&Order{Lines: []Line{{Name: "Tea", Price: -1, Quantity: 1}}}).Validate())
	assert.Error(t, (&Order{Lines: []Line{{Name: " ", Price: 1, Quantity: 1}}}).Validate())
	assert.Error(t, (&Order{Lines: []Line{{Name: "Tea", Price: 1, Quantity: 0}}}).Validate())
}

func TestAddLineMergesQuantities(t *testing.T) {
	o := &Order{}
	o.AddLine(Line{Name: "Kebab", Price: 500, Quantity: 2})
	o.AddLine(Line{Name: "Kebab", Price: 700, Quantity: 3})

	require.Len(t, o.Lines, 1)
	assert.Equal(t, 5, o.Lines[0].Quantity)
	assert.Equal(t, int64(2500), o.Totals().Subtotal)
}
