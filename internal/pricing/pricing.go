// Package pricing derives selling prices from base prices and markup
// policy. It is pure computation: no I/O, deterministic given inputs.
// Arithmetic runs on decimals; callers convert to float64 only at the
// storage/JSON boundary via Round2.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PolicyTagMargin      = "tag-margin"
	PolicyCategoryMargin = "category-margin"

	// mrpTagName flags products sold at their fixed retail price. It beats
	// every margin tag on the product.
	mrpTagName = "mrp"
)

// MarginCategorySlugs is the fixed business list of categories that receive
// the global profit margin under the legacy category policy.
var MarginCategorySlugs = []string{"vegetable", "meat", "beef", "mutton", "chicken", "fish"}

// TagMargin is the slice of tag state the engine needs.
type TagMargin struct {
	Name   string
	Margin float64
}

// ProductPricing carries everything a policy may consult. ProfitMargin is
// the Settings-level global percent; only the category policy reads it.
type ProductPricing struct {
	BasePrice       float64
	MRPPrice        float64
	DiscountPercent float64
	ProfitMargin    float64
	Tags            []TagMargin
	CategorySlugs   []string
}

// Policy resolves the selling price (post-markup, pre-discount) for one
// product. Implementations must not mix markup schemes.
type Policy interface {
	SellingPrice(in ProductPricing) decimal.Decimal
	Name() string
}

// ForName maps a configured policy name to its implementation. Tag-margin
// is the canonical scheme; category-margin exists for deployments that
// predate per-tag margins and is deprecated.
func ForName(name string) (Policy, error) {
	switch name {
	case PolicyTagMargin, "":
		return TagMarginPolicy{}, nil
	case PolicyCategoryMargin:
		return CategoryMarginPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown pricing policy %q", name)
}

// TagMarginPolicy: an "mrp" tag plus a nonzero mrp_price sells flat at
// mrp_price; otherwise the maximum tag margin is applied to the base price.
// Margins are never summed or averaged: the most profitable applicable tag
// wins.
type TagMarginPolicy struct{}

func (TagMarginPolicy) Name() string { return PolicyTagMargin }

func (TagMarginPolicy) SellingPrice(in ProductPricing) decimal.Decimal {
	base := decimal.NewFromFloat(in.BasePrice)

	if in.MRPPrice != 0 {
		for _, tag := range in.Tags {
			if strings.EqualFold(tag.Name, mrpTagName) {
				return decimal.NewFromFloat(in.MRPPrice)
			}
		}
	}

	maxMargin := 0.0
	for _, tag := range in.Tags {
		if tag.Margin > maxMargin {
			maxMargin = tag.Margin
		}
	}
	return applyMargin(base, maxMargin)
}

// CategoryMarginPolicy: the legacy scheme. Products in one of the fixed
// margin categories get the global profit_margin percent; everything else
// sells at base price.
type CategoryMarginPolicy struct{}

func (CategoryMarginPolicy) Name() string { return PolicyCategoryMargin }

func (CategoryMarginPolicy) SellingPrice(in ProductPricing) decimal.Decimal {
	base := decimal.NewFromFloat(in.BasePrice)

	for _, slug := range in.CategorySlugs {
		for _, margin := range MarginCategorySlugs {
			if strings.EqualFold(slug, margin) {
				return applyMargin(base, in.ProfitMargin)
			}
		}
	}
	return base
}

func applyMargin(price decimal.Decimal, marginPercent float64) decimal.Decimal {
	margin := decimal.NewFromFloat(marginPercent)
	return price.Add(price.Mul(margin).Div(decimal.NewFromInt(100)))
}

// ApplyDiscount reduces a selling price by a percent discount.
func ApplyDiscount(price decimal.Decimal, discountPercent float64) decimal.Decimal {
	discount := decimal.NewFromFloat(discountPercent)
	return price.Sub(price.Mul(discount).Div(decimal.NewFromInt(100)))
}

// LineTotal is the discounted unit price times quantity.
func LineTotal(discounted decimal.Decimal, quantity int) decimal.Decimal {
	return discounted.Mul(decimal.NewFromInt(int64(quantity)))
}

// Round2 rounds half away from zero to two decimal places and hands the
// value back as a float for storage and JSON exposure.
func Round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// RoundMoney is Round2 for values already held as float64, used when
// re-aggregating stored snapshots.
func RoundMoney(v float64) float64 {
	return Round2(decimal.NewFromFloat(v))
}
