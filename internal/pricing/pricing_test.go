package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMRPTagOverridesMargins(t *testing.T) {
	policy := TagMarginPolicy{}

	selling := policy.SellingPrice(ProductPricing{
		BasePrice: 100,
		MRPPrice:  150,
		Tags: []TagMargin{
			{Name: "MRP"},
			{Name: "grocery", Margin: 20},
		},
	})

	assert.Equal(t, 150.0, Round2(selling), "mrp tag must win over margin tags")
}

func TestMRPTagIgnoredWithoutMRPPrice(t *testing.T) {
	policy := TagMarginPolicy{}

	selling := policy.SellingPrice(ProductPricing{
		BasePrice: 100,
		Tags: []TagMargin{
			{Name: "mrp"},
			{Name: "grocery", Margin: 20},
		},
	})

	assert.Equal(t, 120.0, Round2(selling), "zero mrp_price falls back to margin arithmetic")
}

func TestMaxMarginWins(t *testing.T) {
	policy := TagMarginPolicy{}

	selling := policy.SellingPrice(ProductPricing{
		BasePrice: 100,
		Tags: []TagMargin{
			{Name: "a", Margin: 5},
			{Name: "b", Margin: 15},
			{Name: "c", Margin: 10},
		},
	})

	assert.Equal(t, 115.0, Round2(selling), "margins are never summed or averaged")
}

func TestNoTagsMeansBasePrice(t *testing.T) {
	policy := TagMarginPolicy{}

	selling := policy.SellingPrice(ProductPricing{BasePrice: 42.5})
	assert.Equal(t, 42.5, Round2(selling))
}

func TestMarginThenDiscount(t *testing.T) {
	// base 200, 25% margin tag, 10% discount, qty 2
	policy := TagMarginPolicy{}

	in := ProductPricing{
		BasePrice:       200,
		DiscountPercent: 10,
		Tags:            []TagMargin{{Name: "fresh", Margin: 25}},
	}

	selling := policy.SellingPrice(in)
	require.Equal(t, 250.0, Round2(selling))

	discounted := ApplyDiscount(selling, in.DiscountPercent)
	require.Equal(t, 225.0, Round2(discounted))

	assert.Equal(t, 450.0, Round2(LineTotal(discounted, 2)))
}

func TestCategoryPolicyAppliesGlobalMargin(t *testing.T) {
	policy := CategoryMarginPolicy{}

	selling := policy.SellingPrice(ProductPricing{
		BasePrice:     100,
		ProfitMargin:  12,
		CategorySlugs: []string{"fish"},
	})
	assert.Equal(t, 112.0, Round2(selling))

	plain := policy.SellingPrice(ProductPricing{
		BasePrice:     100,
		ProfitMargin:  12,
		CategorySlugs: []string{"electronics"},
	})
	assert.Equal(t, 100.0, Round2(plain), "non-margin categories sell at base")
}

func TestForName(t *testing.T) {
	p, err := ForName("")
	require.NoError(t, err)
	assert.Equal(t, PolicyTagMargin, p.Name())

	p, err = ForName(PolicyCategoryMargin)
	require.NoError(t, err)
	assert.Equal(t, PolicyCategoryMargin, p.Name())

	_, err = ForName("flat")
	assert.Error(t, err)
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	policy := TagMarginPolicy{}

	// 33.33 * 1.5% margin keeps full precision until rounding
	selling := policy.SellingPrice(ProductPricing{
		BasePrice: 33.33,
		Tags:      []TagMargin{{Name: "x", Margin: 1.5}},
	})
	assert.Equal(t, 33.83, Round2(selling))

	assert.Equal(t, 0.13, RoundMoney(0.125))
	assert.Equal(t, -0.13, RoundMoney(-0.125))
}
