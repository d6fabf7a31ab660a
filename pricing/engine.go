// Package pricing maps a cart snapshot to per-item and aggregate totals.
//
// Every function here is pure: the same cart always yields byte-identical
// Totals, and sums are exact decimals so item order never changes a figure.
package pricing

import (
	"github.com/shopspring/decimal"

	"repair-shop-quotes/devices"
	"repair-shop-quotes/models"
	"repair-shop-quotes/utils"
)

var (
	// StandardMarkup turns a device base price into the "total before tax" shown on a device page
	StandardMarkup = decimal.RequireFromString("1.15")
	// PartMarkup turns a custom build part's raw cost into its printed price
	PartMarkup = decimal.RequireFromString("1.05")
	// TaxRate applies to the marked-up parts subtotal of a custom build only
	TaxRate = decimal.RequireFromString("0.08")
)

// ComputePricing calculates totals for a cart.
// Repairs carts price their lines; custom-build carts price the build held by
// the first item; anything else prices each device item.
func ComputePricing(cart models.Cart) models.Totals {
	totals := models.Totals{
		Subtotal:    decimal.Zero,
		RepairTotal: decimal.Zero,
		AmountDue:   decimal.Zero,
	}

	if cart.Kind() == models.QuoteTypeRepairs {
		totals.Lines = RepairLines(cart.Lines)
		for _, l := range totals.Lines {
			totals.RepairTotal = totals.RepairTotal.Add(l.LineTotal)
		}
		totals.AmountDue = totals.RepairTotal
		return totals
	}

	if build, ok := cart.CustomBuild(); ok {
		totals.Build = ComputeBuild(build, 0)
		totals.AmountDue = totals.Build.TotalAfterTax
		return totals
	}

	totals.Items = make([]models.ItemPricing, 0, len(cart.Items))
	for i, item := range cart.Items {
		p := ItemTotal(item, i)
		totals.Items = append(totals.Items, p)
		totals.Subtotal = totals.Subtotal.Add(p.DisplayedTotal)
	}
	totals.AmountDue = totals.Subtotal
	return totals
}

// ItemTotal prices one standard device item: basePrice x 1.15, shown only for a positive base price
func ItemTotal(item models.SaleItem, index int) models.ItemPricing {
	p := models.ItemPricing{
		Index:          index,
		BasePrice:      item.Price.Amount(),
		DisplayedTotal: decimal.Zero,
	}
	if !item.Price.Positive() {
		return p
	}
	p.ShowPrice = true
	p.DisplayedTotal = utils.RoundCents(p.BasePrice.Mul(StandardMarkup))
	return p
}

// MarkPart applies the part markup. The OS part and unpriced parts keep a zero marked price.
func MarkPart(part models.CustomBuildPart) models.CustomBuildPart {
	if part.IsOS || !part.Priced {
		part.MarkedPrice = decimal.Zero
		return part
	}
	part.MarkedPrice = utils.RoundCents(part.RawPrice.Mul(PartMarkup))
	return part
}

// ComputeBuild prices a custom build item.
// Labor is added after tax and is never marked up.
func ComputeBuild(item models.SaleItem, index int) *models.BuildTotals {
	raw := devices.BuildParts(item)
	parts := make([]models.CustomBuildPart, 0, len(raw))
	subtotal := decimal.Zero
	for _, p := range raw {
		marked := MarkPart(p)
		parts = append(parts, marked)
		if !marked.IsOS {
			subtotal = subtotal.Add(marked.MarkedPrice)
		}
	}

	labor := utils.RoundCents(devices.BuildLabor(item))
	tax := utils.RoundCents(subtotal.Mul(TaxRate))

	return &models.BuildTotals{
		ItemIndex:     index,
		Parts:         parts,
		PartsSubtotal: subtotal,
		TaxAmount:     tax,
		BuildLabor:    labor,
		TotalAfterTax: subtotal.Add(tax).Add(labor),
	}
}

// RepairLines prices repair lines as part + labor with no markup
func RepairLines(lines []models.RepairLine) []models.RepairLinePricing {
	out := make([]models.RepairLinePricing, 0, len(lines))
	for i, l := range lines {
		out = append(out, models.RepairLinePricing{
			Index:       i,
			Description: l.Description,
			PartPrice:   l.PartPrice.Amount(),
			LaborPrice:  l.LaborPrice.Amount(),
			LineTotal:   utils.RoundCents(l.LineTotal()),
		})
	}
	return out
}

// PricedParts returns the parts that carry a price box (everything except the OS)
func PricedParts(b *models.BuildTotals) []models.CustomBuildPart {
	if b == nil {
		return nil
	}
	out := make([]models.CustomBuildPart, 0, len(b.Parts))
	for _, p := range b.Parts {
		if !p.IsOS {
			out = append(out, p)
		}
	}
	return out
}
