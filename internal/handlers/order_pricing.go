package handlers

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

type orderLineInput struct {
	ProductID primitive.ObjectID
	Quantity  int
	Weight    float64
	Unit      models.Unit
	Pricing   pricing.ProductPricing
}

type orderTotals struct {
	SubTotal           float64
	Discount           float64
	TotalPurchasePrice float64
	GrandTotal         float64
	Profit             float64
}

// buildOrderItems freezes per-line prices at checkout. The snapshots never
// see the catalog again: later price, discount, or tag changes leave placed
// orders untouched.
func buildOrderItems(policy pricing.Policy, inputs []orderLineInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(inputs))

	for _, in := range inputs {
		selling := policy.SellingPrice(in.Pricing)
		discounted := pricing.ApplyDiscount(selling, in.Pricing.DiscountPercent)
		base := decimal.NewFromFloat(in.Pricing.BasePrice)
		qty := decimal.NewFromInt(int64(in.Quantity))

		items = append(items, models.OrderItem{
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			BasePrice:       pricing.Round2(base),
			SellingPrice:    pricing.Round2(selling),
			DiscountedPrice: pricing.Round2(discounted),
			TotalPrice:      pricing.Round2(pricing.LineTotal(discounted, in.Quantity)),
			PurchasePrice:   pricing.Round2(base.Mul(qty)),
			Weight:          in.Weight,
			Unit:            in.Unit,
		})
	}
	return items
}

// placementTotals derives the order-level figures at checkout:
// grand_total = sub_total - discount + delivery_charge + platform_fee and
// profit = grand_total - total purchase price.
func placementTotals(items []models.OrderItem, deliveryCharge, platformFee float64) orderTotals {
	sub := decimal.Zero
	disc := decimal.Zero
	purchase := decimal.Zero

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		selling := decimal.NewFromFloat(item.SellingPrice)
		discounted := decimal.NewFromFloat(item.DiscountedPrice)

		sub = sub.Add(selling.Mul(qty))
		disc = disc.Add(selling.Sub(discounted).Mul(qty))
		purchase = purchase.Add(decimal.NewFromFloat(item.PurchasePrice))
	}

	grand := sub.Sub(disc).
		Add(decimal.NewFromFloat(deliveryCharge)).
		Add(decimal.NewFromFloat(platformFee))
	profit := grand.Sub(purchase)

	return orderTotals{
		SubTotal:           pricing.Round2(sub),
		Discount:           pricing.Round2(disc),
		TotalPurchasePrice: pricing.Round2(purchase),
		GrandTotal:         pricing.Round2(grand),
		Profit:             pricing.Round2(profit),
	}
}

// editedTotals re-derives the order-level figures after an admin corrects
// line items. Unlike placement it trusts the (possibly hand-edited)
// total_price and purchase_price fields rather than re-multiplying.
func editedTotals(items []models.OrderItem, deliveryCharge, platformFee float64) orderTotals {
	sub := decimal.Zero
	disc := decimal.Zero
	purchase := decimal.Zero
	lineTotal := decimal.Zero

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		selling := decimal.NewFromFloat(item.SellingPrice)
		discounted := decimal.NewFromFloat(item.DiscountedPrice)

		sub = sub.Add(selling.Mul(qty))
		disc = disc.Add(selling.Sub(discounted).Mul(qty))
		purchase = purchase.Add(decimal.NewFromFloat(item.PurchasePrice))
		lineTotal = lineTotal.Add(decimal.NewFromFloat(item.TotalPrice))
	}

	grand := lineTotal.
		Add(decimal.NewFromFloat(deliveryCharge)).
		Add(decimal.NewFromFloat(platformFee))
	profit := grand.Sub(purchase)

	return orderTotals{
		SubTotal:           pricing.Round2(sub),
		Discount:           pricing.Round2(disc),
		TotalPurchasePrice: pricing.Round2(purchase),
		GrandTotal:         pricing.Round2(grand),
		Profit:             pricing.Round2(profit),
	}
}
