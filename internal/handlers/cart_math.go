package handlers

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

/* =========================
   CART LINE ARITHMETIC
========================= */

// applyQuantityChange upserts one line. Quantity zero removes an existing
// line and is a no-op for an unknown product; positive quantity inserts or
// overwrites. Derived prices are left stale here: callers reprice the whole
// cart afterwards.
func applyQuantityChange(cart *models.Cart, productID primitive.ObjectID, quantity int) {
	idx := cart.LineIndex(productID)

	if quantity == 0 {
		if idx >= 0 {
			cart.Products = append(cart.Products[:idx], cart.Products[idx+1:]...)
		}
		return
	}

	if idx >= 0 {
		cart.Products[idx].Quantity = quantity
		return
	}
	cart.Products = append(cart.Products, models.CartLine{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// priceCartLine recomputes the derived price fields of a line from current
// catalog state and refreshes the weight/unit display snapshot.
func priceCartLine(policy pricing.Policy, in pricing.ProductPricing, product models.Product, line *models.CartLine) {
	selling := policy.SellingPrice(in)
	discounted := pricing.ApplyDiscount(selling, in.DiscountPercent)

	line.Price = pricing.Round2(selling)
	line.DiscountedPrice = pricing.Round2(discounted)
	line.FinalPrice = pricing.Round2(pricing.LineTotal(discounted, line.Quantity))
	line.Weight = product.Weight
	line.Unit = product.Unit
}

// cartTotals aggregates priced lines:
// sub_total is selling price times quantity, discount is the per-line
// selling-minus-discounted spread, grand_total is the line totals plus the
// delivery charge and platform fee.
func cartTotals(lines []models.CartLine, deliveryCharge, platformFee float64) (subTotal, discount, grandTotal float64) {
	sub := decimal.Zero
	disc := decimal.Zero
	grand := decimal.Zero

	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		price := decimal.NewFromFloat(line.Price)
		discounted := decimal.NewFromFloat(line.DiscountedPrice)

		sub = sub.Add(price.Mul(qty))
		disc = disc.Add(price.Sub(discounted).Mul(qty))
		grand = grand.Add(decimal.NewFromFloat(line.FinalPrice))
	}

	grand = grand.
		Add(decimal.NewFromFloat(deliveryCharge)).
		Add(decimal.NewFromFloat(platformFee))

	return pricing.Round2(sub), pricing.Round2(disc), pricing.Round2(grand)
}
