package models

import "github.com/shopspring/decimal"

// ItemPricing represents pricing for one standard device sale item
type ItemPricing struct {
	Index          int             `json:"index"`          // Position in cart.Items
	BasePrice      decimal.Decimal `json:"basePrice"`      // Price as entered
	DisplayedTotal decimal.Decimal `json:"displayedTotal"` // Total before tax shown on the page
	ShowPrice      bool            `json:"showPrice"`      // False when no positive base price was entered
}

// BuildTotals represents the itemized figures of a custom PC build
type BuildTotals struct {
	ItemIndex     int               `json:"itemIndex"`
	Parts         []CustomBuildPart `json:"parts"`
	PartsSubtotal decimal.Decimal   `json:"partsSubtotal"` // Sum of marked prices, OS excluded
	TaxAmount     decimal.Decimal   `json:"taxAmount"`     // partsSubtotal x tax rate
	BuildLabor    decimal.Decimal   `json:"buildLabor"`    // Never marked up, never taxed
	TotalAfterTax decimal.Decimal   `json:"totalAfterTax"`
}

// RepairLinePricing represents pricing for one repair line
type RepairLinePricing struct {
	Index       int             `json:"index"`
	Description string          `json:"description"`
	PartPrice   decimal.Decimal `json:"partPrice"`
	LaborPrice  decimal.Decimal `json:"laborPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Totals represents the complete pricing calculation result for a cart
type Totals struct {
	Items       []ItemPricing       `json:"items,omitempty"`
	Subtotal    decimal.Decimal     `json:"subtotal"` // Sum of displayed item totals (standard sales)
	Build       *BuildTotals        `json:"build,omitempty"`
	Lines       []RepairLinePricing `json:"lines,omitempty"`
	RepairTotal decimal.Decimal     `json:"repairTotal"`
	AmountDue   decimal.Decimal     `json:"amountDue"` // Figure handed to checkout
}
