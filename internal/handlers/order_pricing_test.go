package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

func TestBuildOrderItemsFreezesPrices(t *testing.T) {
	productID := primitive.NewObjectID()
	in := orderLineInput{
		ProductID: productID,
		Quantity:  2,
		Weight:    1,
		Unit:      models.UnitKg,
		Pricing: pricing.ProductPricing{
			BasePrice:       200,
			DiscountPercent: 10,
			Tags:            []pricing.TagMargin{{Name: "fresh", Margin: 25}},
		},
	}

	items := buildOrderItems(pricing.TagMarginPolicy{}, []orderLineInput{in})
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	item := items[0]
	if item.BasePrice != 200 || item.SellingPrice != 250 || item.DiscountedPrice != 225 {
		t.Fatalf("unexpected snapshot prices: %+v", item)
	}
	if item.TotalPrice != 450 {
		t.Fatalf("expected total_price 450, got %v", item.TotalPrice)
	}
	if item.PurchasePrice != 400 {
		t.Fatalf("expected purchase_price 400 (base x qty), got %v", item.PurchasePrice)
	}

	// The snapshot is a copy: changing the input afterwards must not be
	// able to reach into the built item.
	in.Pricing.BasePrice = 999
	if items[0].BasePrice != 200 {
		t.Fatal("snapshot leaked a reference to live pricing input")
	}
}

func TestPlacementTotals(t *testing.T) {
	// Two lines, computed sub_total 450, discount 50, delivery 50, fee 10:
	// grand_total = 450 - 50 + 50 + 10 = 460, profit = 460 - purchase.
	items := []models.OrderItem{
		{Quantity: 2, SellingPrice: 150, DiscountedPrice: 135, TotalPrice: 270, PurchasePrice: 240},
		{Quantity: 1, SellingPrice: 150, DiscountedPrice: 130, TotalPrice: 130, PurchasePrice: 120},
	}

	totals := placementTotals(items, 50, 10)

	if totals.SubTotal != 450 {
		t.Fatalf("expected sub_total 450, got %v", totals.SubTotal)
	}
	if totals.Discount != 50 {
		t.Fatalf("expected discount 50, got %v", totals.Discount)
	}
	if totals.GrandTotal != 460 {
		t.Fatalf("expected grand_total 460, got %v", totals.GrandTotal)
	}
	if totals.TotalPurchasePrice != 360 {
		t.Fatalf("expected purchase total 360, got %v", totals.TotalPurchasePrice)
	}
	if totals.Profit != 100 {
		t.Fatalf("expected profit 100, got %v", totals.Profit)
	}
}

func TestEditedTotalsTrustCorrectedFields(t *testing.T) {
	// Admin re-weighed a perishable line and bumped its total_price.
	items := []models.OrderItem{
		{Quantity: 2, SellingPrice: 150, DiscountedPrice: 135, TotalPrice: 300, PurchasePrice: 260},
		{Quantity: 1, SellingPrice: 150, DiscountedPrice: 130, TotalPrice: 130, PurchasePrice: 120},
	}

	totals := editedTotals(items, 50, 10)

	// grand_total comes from the corrected line totals, not selling math.
	if totals.GrandTotal != 490 {
		t.Fatalf("expected grand_total 490, got %v", totals.GrandTotal)
	}
	if totals.TotalPurchasePrice != 380 {
		t.Fatalf("expected purchase total 380, got %v", totals.TotalPurchasePrice)
	}
	if totals.Profit != 110 {
		t.Fatalf("expected profit 110, got %v", totals.Profit)
	}
}
