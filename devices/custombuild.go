package devices

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"repair-shop-quotes/models"
	"repair-shop-quotes/utils"
)

// OSKey is the dynamic key of the operating system part
const OSKey = "os"

// BasePart is one slot of the custom build form
type BasePart struct {
	Key   string
	Label string
}

// BaseParts is the fixed slot order of a custom PC build.
// Each slot reads <key> (description), <key>Price, <key>Image and <key>Image2 from the item's dynamic fields.
var BaseParts = []BasePart{
	{"cpu", "Processor (CPU)"},
	{"cooler", "CPU Cooler"},
	{"motherboard", "Motherboard"},
	{"ram", "Memory (RAM)"},
	{"storage", "Storage"},
	{"gpu", "Graphics Card"},
	{"psu", "Power Supply"},
	{"case", "Case"},
	{"fans", "Case Fans"},
	{OSKey, "Operating System"},
}

// Dynamic keys of the nested part arrays and the labor field
const (
	ExtraPartsKey = "extraParts"
	PCExtrasKey   = "pcExtras"
	BuildLaborKey = "buildLabor"
)

type customBuildCategory struct{}

func (customBuildCategory) Name() string { return "custom-build" }

func (customBuildCategory) Fields(item models.SaleItem) []models.SpecField {
	fields := []models.SpecField{{Label: "Build", Value: strings.TrimSpace(item.Model)}}
	if b := strings.TrimSpace(item.Brand); b != "" {
		fields = append(fields, models.SpecField{Label: "Builder", Value: b})
	}
	return fields
}

func (customBuildCategory) Specs(item models.SaleItem) []models.SpecField {
	parts := BuildParts(item)
	specs := make([]models.SpecField, 0, len(parts))
	for _, p := range parts {
		specs = append(specs, models.SpecField{Label: p.Label, Value: p.Description})
	}
	return specs
}

// BuildParts synthesizes the part list of a custom build from the item's dynamic fields.
// Order is BaseParts order, then extra parts, then peripheral extras. Slots with
// neither a description nor a price are skipped. MarkedPrice is left zero; the
// pricing package applies the markup.
func BuildParts(item models.SaleItem) []models.CustomBuildPart {
	dyn := item.Dynamic
	parts := make([]models.CustomBuildPart, 0, len(BaseParts))

	for _, slot := range BaseParts {
		desc := utils.DynString(dyn, slot.Key)
		raw, priced := utils.DynAmount(dyn, slot.Key+"Price")
		if slot.Key == OSKey {
			// description only, never priced
			raw, priced = decimal.Zero, false
		}
		if desc == "" && !priced {
			continue
		}
		parts = append(parts, models.CustomBuildPart{
			Label:       slot.Label,
			Key:         slot.Key,
			Description: desc,
			RawPrice:    raw,
			Priced:      priced,
			IsOS:        slot.Key == OSKey,
			Image:       utils.DynString(dyn, slot.Key+"Image"),
			Image2:      utils.DynString(dyn, slot.Key+"Image2"),
		})
	}

	parts = append(parts, listedParts(dyn, ExtraPartsKey, "extra", "Extra Part")...)
	parts = append(parts, listedParts(dyn, PCExtrasKey, "pc-extra", "Peripheral")...)
	return parts
}

// listedParts reads an array like [{"name": "RGB strip", "description": "...", "price": 20, "image": "data:..."}]
func listedParts(dyn map[string]any, key, keyPrefix, defaultLabel string) []models.CustomBuildPart {
	var parts []models.CustomBuildPart
	for i, entry := range utils.DynList(dyn, key) {
		label := firstNonEmpty(utils.DynString(entry, "name"), utils.DynString(entry, "label"), defaultLabel)
		desc := firstNonEmpty(utils.DynString(entry, "description"), utils.DynString(entry, "desc"))
		raw, priced := utils.DynAmount(entry, "price")
		if !priced {
			raw, priced = utils.DynAmount(entry, "cost")
		}
		if desc == "" && !priced && label == defaultLabel {
			continue
		}
		parts = append(parts, models.CustomBuildPart{
			Label:       label,
			Key:         fmt.Sprintf("%s-%d", keyPrefix, i),
			Description: desc,
			RawPrice:    raw,
			Priced:      priced,
			Image:       utils.DynString(entry, "image"),
			Image2:      utils.DynString(entry, "image2"),
		})
	}
	return parts
}

// BuildLabor reads the build labor charge; missing or invalid labor is zero
func BuildLabor(item models.SaleItem) decimal.Decimal {
	labor, ok := utils.DynAmount(item.Dynamic, BuildLaborKey)
	if !ok || labor.IsNegative() {
		return decimal.Zero
	}
	return labor
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
