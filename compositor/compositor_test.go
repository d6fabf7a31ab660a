package compositor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-quotes/devices"
	"repair-shop-quotes/models"
	"repair-shop-quotes/pricing"
)

func compose(cart models.Cart) []models.PageDescriptor {
	return Compose(cart, pricing.ComputePricing(cart))
}

// buildWithParts returns a custom build cart with n priced parts and no OS slot
func buildWithParts(n int, prompt string) models.Cart {
	dyn := map[string]any{devices.BuildLaborKey: 100}
	count := 0
	for _, slot := range devices.BaseParts {
		if count == n {
			break
		}
		if slot.Key == devices.OSKey {
			continue
		}
		dyn[slot.Key] = slot.Label + " pick"
		dyn[slot.Key+"Price"] = 10
		count++
	}
	var extras []any
	for ; count < n; count++ {
		extras = append(extras, map[string]any{"name": fmt.Sprintf("Extra %d", count), "price": 5})
	}
	if len(extras) > 0 {
		dyn[devices.ExtraPartsKey] = extras
	}
	return models.Cart{Items: []models.SaleItem{{
		DeviceType: models.CustomBuildDeviceType,
		Dynamic:    dyn,
		Prompt:     prompt,
	}}}
}

func kinds(pages []models.PageDescriptor) []models.PageKind {
	out := make([]models.PageKind, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Kind)
	}
	return out
}

func TestCompose_SingleItemSale(t *testing.T) {
	pages := compose(models.Cart{Items: []models.SaleItem{{
		DeviceType: "Phone", Brand: "Apple", Model: "iPhone 13", Price: models.MoneyFromFloat(200),
	}}})

	require.Len(t, pages, 2)
	assert.Equal(t, models.PageDevice, pages[0].Kind)
	assert.True(t, pages[0].WithHeader)
	require.NotNil(t, pages[0].Device)
	assert.Equal(t, "phone", pages[0].Device.Category)
	assert.Equal(t, "230.00", pages[0].Device.Pricing.DisplayedTotal.StringFixed(2))

	final := pages[1]
	assert.Equal(t, models.PageApproval, final.Kind)
	assert.True(t, final.Signature)
	require.Len(t, final.Checklist, 1)
	assert.Equal(t, "Apple iPhone 13", final.Checklist[0].Label)
	assert.Equal(t, "$230.00", final.Checklist[0].Amount)
}

func TestCompose_StandardSaleOnePagePerDevice(t *testing.T) {
	cart := models.Cart{Notes: "Pickup Friday", Items: []models.SaleItem{
		{DeviceType: "Laptop"}, {DeviceType: "Tablet"}, {DeviceType: "TV"},
	}}

	pages := compose(cart)

	assert.Equal(t, []models.PageKind{models.PageDevice, models.PageDevice, models.PageDevice, models.PageApproval}, kinds(pages))
	assert.False(t, pages[1].WithHeader)
	assert.Equal(t, "Pickup Friday", pages[3].Notes)
	assert.Empty(t, pages[3].Checklist[0].Amount, "unpriced item shows no amount")
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
	}
}

func TestCompose_EmptyCart(t *testing.T) {
	tests := []struct {
		name string
		cart models.Cart
	}{
		{"sales", models.Cart{}},
		{"repairs", models.Cart{Type: models.QuoteTypeRepairs}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := compose(tt.cart)
			require.NotEmpty(t, pages)
			assert.Equal(t, models.PageHeader, pages[0].Kind)
			assert.True(t, pages[0].WithHeader)
			assert.Equal(t, NoItemsPlaceholder, pages[0].Placeholder)
			assert.Equal(t, models.PageApproval, pages[len(pages)-1].Kind)
		})
	}
}

func TestCompose_CustomBuildPagination(t *testing.T) {
	pages := compose(buildWithParts(13, ""))

	assert.Equal(t, 3, countKind(pages, models.PagePartGroup))
	assert.Equal(t, 1, countKind(pages, models.PageSummary))
	assert.Equal(t, 1, countKind(pages, models.PageApproval))

	assert.True(t, pages[0].WithHeader)
	assert.Len(t, pages[0].Parts, 6)
	assert.Len(t, pages[1].Parts, 6)
	assert.Len(t, pages[2].Parts, 1)
	assert.Equal(t, models.PageSummary, pages[3].Kind)
	require.NotNil(t, pages[3].Summary)
	assert.Equal(t, models.PageApproval, pages[4].Kind)
	// 13 parts plus the labor row
	assert.Len(t, pages[4].Checklist, 14)
}

func TestCompose_CustomBuildPromptPlacement(t *testing.T) {
	tests := []struct {
		name       string
		parts      int
		wantPage   int
		wantGroups int
	}{
		{"room on first page", 4, 0, 1},
		{"room on second page", 9, 1, 2},
		{"no room gets own page", 12, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := compose(buildWithParts(tt.parts, "A quiet 1440p gaming build."))

			assert.Equal(t, tt.wantGroups, countKind(pages, models.PagePartGroup))
			for i, p := range pages {
				if i == tt.wantPage {
					assert.Equal(t, "A quiet 1440p gaming build.", p.Prompt)
				} else {
					assert.Empty(t, p.Prompt)
				}
			}
		})
	}
}

func TestCompose_CustomBuildNeverSplitsBoxes(t *testing.T) {
	for n := 0; n <= 25; n++ {
		cart := buildWithParts(n, "")
		totals := pricing.ComputePricing(cart)
		pages := Compose(cart, totals)

		want := make([]string, 0, len(totals.Build.Parts))
		for _, p := range totals.Build.Parts {
			want = append(want, p.Key)
		}
		seen := make([]string, 0, len(want))
		for _, p := range pages {
			assert.LessOrEqual(t, len(p.Parts), DefaultPartsPerPage)
			for _, part := range p.Parts {
				seen = append(seen, part.Key)
			}
		}
		assert.Equal(t, want, seen, "n=%d", n)
	}
}

func TestCompose_RepairLines(t *testing.T) {
	lines := make([]models.RepairLine, 25)
	for i := range lines {
		lines[i] = models.RepairLine{Description: fmt.Sprintf("Line %d", i), LaborPrice: models.MoneyFromFloat(10)}
	}

	pages := compose(models.Cart{Type: models.QuoteTypeRepairs, Lines: lines})

	assert.Equal(t, []models.PageKind{models.PageRepairLines, models.PageRepairLines, models.PageRepairLines, models.PageApproval}, kinds(pages))
	assert.Len(t, pages[0].Lines, 12)
	assert.Len(t, pages[2].Lines, 1)
	assert.Len(t, pages[3].Checklist, 25)
	assert.Equal(t, "$10.00", pages[3].Checklist[0].Amount)
}

func TestLayout_CustomCapacity(t *testing.T) {
	cart := buildWithParts(5, "")
	pages := Layout{PartsPerPage: 2}.Compose(cart, pricing.ComputePricing(cart))

	assert.Equal(t, 3, countKind(pages, models.PagePartGroup))
}

func countKind(pages []models.PageDescriptor, kind models.PageKind) int {
	n := 0
	for _, p := range pages {
		if p.Kind == kind {
			n++
		}
	}
	return n
}
