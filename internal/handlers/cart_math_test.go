package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

func TestApplyQuantityChangeZeroRemovesLine(t *testing.T) {
	productID := primitive.NewObjectID()
	cart := &models.Cart{
		Products: []models.CartLine{{ProductID: productID, Quantity: 3}},
	}

	applyQuantityChange(cart, productID, 0)

	if len(cart.Products) != 0 {
		t.Fatalf("expected line removed, got %d lines", len(cart.Products))
	}
}

func TestApplyQuantityChangeZeroOnUnknownProductIsNoop(t *testing.T) {
	existing := primitive.NewObjectID()
	cart := &models.Cart{
		Products: []models.CartLine{{ProductID: existing, Quantity: 1}},
	}

	applyQuantityChange(cart, primitive.NewObjectID(), 0)

	if len(cart.Products) != 1 {
		t.Fatalf("expected cart untouched, got %d lines", len(cart.Products))
	}
}

func TestApplyQuantityChangeUpsert(t *testing.T) {
	productID := primitive.NewObjectID()
	cart := &models.Cart{}

	applyQuantityChange(cart, productID, 2)
	if len(cart.Products) != 1 || cart.Products[0].Quantity != 2 {
		t.Fatalf("expected inserted line with quantity 2, got %+v", cart.Products)
	}

	applyQuantityChange(cart, productID, 5)
	if len(cart.Products) != 1 || cart.Products[0].Quantity != 5 {
		t.Fatalf("expected updated line with quantity 5, got %+v", cart.Products)
	}
}

func TestPriceCartLineWithMarginAndDiscount(t *testing.T) {
	// base 200, 25% margin tag, 10% discount, qty 2
	line := models.CartLine{ProductID: primitive.NewObjectID(), Quantity: 2}
	product := models.Product{Weight: 1.5, Unit: models.UnitKg}

	priceCartLine(pricing.TagMarginPolicy{}, pricing.ProductPricing{
		BasePrice:       200,
		DiscountPercent: 10,
		Tags:            []pricing.TagMargin{{Name: "fresh", Margin: 25}},
	}, product, &line)

	if line.Price != 250 {
		t.Fatalf("expected selling price 250, got %v", line.Price)
	}
	if line.DiscountedPrice != 225 {
		t.Fatalf("expected discounted price 225, got %v", line.DiscountedPrice)
	}
	if line.FinalPrice != 450 {
		t.Fatalf("expected final price 450, got %v", line.FinalPrice)
	}
	if line.Weight != 1.5 || line.Unit != models.UnitKg {
		t.Fatalf("expected weight/unit snapshot refreshed, got %v %v", line.Weight, line.Unit)
	}
}

func TestCartTotalsConsistency(t *testing.T) {
	lines := []models.CartLine{
		{Quantity: 2, Price: 250, DiscountedPrice: 225, FinalPrice: 450},
		{Quantity: 1, Price: 100, DiscountedPrice: 100, FinalPrice: 100},
	}

	subTotal, discount, grandTotal := cartTotals(lines, 50, 10)

	if subTotal != 600 {
		t.Fatalf("expected sub_total 600, got %v", subTotal)
	}
	if discount != 50 {
		t.Fatalf("expected discount 50, got %v", discount)
	}
	// grand_total = sum(final_price) + delivery + platform fee
	if grandTotal != 610 {
		t.Fatalf("expected grand_total 610, got %v", grandTotal)
	}
}

func TestCartTotalsEmptyCart(t *testing.T) {
	subTotal, discount, grandTotal := cartTotals(nil, 50, 10)
	if subTotal != 0 || discount != 0 {
		t.Fatalf("expected zero totals, got sub=%v discount=%v", subTotal, discount)
	}
	if grandTotal != 60 {
		t.Fatalf("expected grand_total 60 (fees only), got %v", grandTotal)
	}
}
