// Package compositor turns a priced cart into an ordered list of page descriptors.
//
// Pages are filled by fixed capacity, never by measuring content: one device per
// page, six part boxes per page, twelve repair lines per page. A box is never
// split across pages.
package compositor

import (
	"strings"

	"repair-shop-quotes/devices"
	"repair-shop-quotes/models"
	"repair-shop-quotes/pricing"
	"repair-shop-quotes/utils"
)

// Default page capacities
const (
	DefaultPartsPerPage       = 6
	DefaultRepairLinesPerPage = 12
	NoItemsPlaceholder        = "No items listed"
)

// Layout holds the page capacities used by Compose
type Layout struct {
	PartsPerPage       int
	RepairLinesPerPage int
	Placeholder        string
}

// DefaultLayout returns the capacities of the printed A4 quote
func DefaultLayout() Layout {
	return Layout{
		PartsPerPage:       DefaultPartsPerPage,
		RepairLinesPerPage: DefaultRepairLinesPerPage,
		Placeholder:        NoItemsPlaceholder,
	}
}

// Compose lays out the cart with the default layout
func Compose(cart models.Cart, totals models.Totals) []models.PageDescriptor {
	return DefaultLayout().Compose(cart, totals)
}

// Compose lays out the cart. totals must come from pricing.ComputePricing(cart).
func (l Layout) Compose(cart models.Cart, totals models.Totals) []models.PageDescriptor {
	l = l.withDefaults()

	var pages []models.PageDescriptor
	switch {
	case cart.Kind() == models.QuoteTypeRepairs:
		pages = l.composeRepairs(cart, totals)
	case totals.Build != nil:
		build, _ := cart.CustomBuild()
		pages = l.composeCustomBuild(cart, build, totals.Build)
	default:
		pages = l.composeStandard(cart, totals)
	}

	for i := range pages {
		pages[i].Number = i + 1
	}
	return pages
}

func (l Layout) withDefaults() Layout {
	if l.PartsPerPage < 1 {
		l.PartsPerPage = DefaultPartsPerPage
	}
	if l.RepairLinesPerPage < 1 {
		l.RepairLinesPerPage = DefaultRepairLinesPerPage
	}
	if l.Placeholder == "" {
		l.Placeholder = NoItemsPlaceholder
	}
	return l
}

func (l Layout) headerOnly() models.PageDescriptor {
	return models.PageDescriptor{
		Kind:        models.PageHeader,
		WithHeader:  true,
		Placeholder: l.Placeholder,
	}
}

// composeStandard: header + first device, one page per remaining device, one final page
func (l Layout) composeStandard(cart models.Cart, totals models.Totals) []models.PageDescriptor {
	pages := make([]models.PageDescriptor, 0, len(cart.Items)+1)
	if len(cart.Items) == 0 {
		pages = append(pages, l.headerOnly())
	}

	checklist := make([]models.ChecklistEntry, 0, len(cart.Items))
	for i, item := range cart.Items {
		content := deviceContent(item, i, totals)
		pages = append(pages, models.PageDescriptor{
			Kind:       models.PageDevice,
			WithHeader: i == 0,
			Device:     content,
		})

		entry := models.ChecklistEntry{
			Label:  item.Title(),
			Detail: strings.TrimSpace(item.Condition),
		}
		if content.Pricing.ShowPrice {
			entry.Amount = utils.FormatUSD(content.Pricing.DisplayedTotal)
		}
		checklist = append(checklist, entry)
	}

	pages = append(pages, models.PageDescriptor{
		Kind:      models.PageApproval,
		Checklist: checklist,
		Notes:     cart.Notes,
		Signature: true,
	})
	return pages
}

// composeCustomBuild: header + first parts, remaining parts in fixed groups,
// the descriptive prompt where there is room, then summary and approval pages
func (l Layout) composeCustomBuild(cart models.Cart, build models.SaleItem, totals *models.BuildTotals) []models.PageDescriptor {
	groups := Chunk(totals.Parts, l.PartsPerPage)

	var pages []models.PageDescriptor
	if len(groups) == 0 {
		pages = append(pages, l.headerOnly())
	}
	for i, group := range groups {
		pages = append(pages, models.PageDescriptor{
			Kind:       models.PagePartGroup,
			WithHeader: i == 0,
			Parts:      group,
		})
	}

	if prompt := strings.TrimSpace(build.Prompt); prompt != "" {
		placed := false
		for i := range pages {
			if len(pages[i].Parts) < l.PartsPerPage {
				pages[i].Prompt = prompt
				placed = true
				break
			}
		}
		if !placed {
			pages = append(pages, models.PageDescriptor{Kind: models.PagePartGroup, Prompt: prompt})
		}
	}

	pages = append(pages, models.PageDescriptor{
		Kind:    models.PageSummary,
		Summary: totals,
	})

	checklist := make([]models.ChecklistEntry, 0, len(totals.Parts)+1)
	for _, p := range totals.Parts {
		entry := models.ChecklistEntry{Label: p.Label, Detail: p.Description}
		if !p.IsOS {
			entry.Amount = utils.FormatUSD(p.MarkedPrice)
		}
		checklist = append(checklist, entry)
	}
	if totals.BuildLabor.IsPositive() {
		checklist = append(checklist, models.ChecklistEntry{
			Label:  "Build Labor",
			Detail: "Assembly, testing and setup",
			Amount: utils.FormatUSD(totals.BuildLabor),
		})
	}

	pages = append(pages, models.PageDescriptor{
		Kind:      models.PageApproval,
		Checklist: checklist,
		Notes:     cart.Notes,
		Signature: true,
	})
	return pages
}

// composeRepairs: header + first lines, remaining lines in fixed groups, one final page
func (l Layout) composeRepairs(cart models.Cart, totals models.Totals) []models.PageDescriptor {
	groups := Chunk(totals.Lines, l.RepairLinesPerPage)

	var pages []models.PageDescriptor
	if len(groups) == 0 {
		pages = append(pages, l.headerOnly())
	}
	for i, group := range groups {
		pages = append(pages, models.PageDescriptor{
			Kind:       models.PageRepairLines,
			WithHeader: i == 0,
			Lines:      group,
		})
	}

	checklist := make([]models.ChecklistEntry, 0, len(totals.Lines))
	for _, line := range totals.Lines {
		checklist = append(checklist, models.ChecklistEntry{
			Label:  line.Description,
			Amount: utils.FormatUSD(line.LineTotal),
		})
	}

	pages = append(pages, models.PageDescriptor{
		Kind:      models.PageApproval,
		Checklist: checklist,
		Notes:     cart.Notes,
		Signature: true,
	})
	return pages
}

func deviceContent(item models.SaleItem, index int, totals models.Totals) *models.DeviceContent {
	category := devices.Lookup(item.DeviceType)

	itemPricing := pricing.ItemTotal(item, index)
	if index < len(totals.Items) {
		itemPricing = totals.Items[index]
	}

	return &models.DeviceContent{
		Index:    index,
		Item:     item,
		Category: category.Name(),
		Fields:   category.Fields(item),
		Specs:    category.Specs(item),
		Pricing:  itemPricing,
	}
}
