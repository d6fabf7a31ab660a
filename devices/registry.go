// Package devices dispatches per-device-type rendering over a closed set of categories.
//
// Every sale item resolves to exactly one Category through Lookup. A category
// knows which identity fields and which device-specific spec rows it shows, so
// the renderer and compositor never branch on the raw device type string.
package devices

import (
	"sort"
	"strings"

	"repair-shop-quotes/models"
	"repair-shop-quotes/utils"
)

// Category renders one family of devices
type Category interface {
	// Name is the stable category identifier (phone, laptop, custom-build, ...)
	Name() string
	// Fields returns the identity rows shown at the top of the device box
	Fields(item models.SaleItem) []models.SpecField
	// Specs returns the device-type specific rows computed from item.Dynamic
	Specs(item models.SaleItem) []models.SpecField
}

// specKey maps a dynamic field key to its printed label
type specKey struct {
	key   string
	label string
}

// specCategory covers the device families that only differ by which dynamic keys they print
type specCategory struct {
	name    string
	aliases []string
	keys    []specKey
}

func (c specCategory) Name() string { return c.name }

func (c specCategory) Fields(item models.SaleItem) []models.SpecField {
	return identityFields(item)
}

func (c specCategory) Specs(item models.SaleItem) []models.SpecField {
	specs := make([]models.SpecField, 0, len(c.keys))
	known := make(map[string]bool, len(c.keys))
	for _, k := range c.keys {
		known[k.key] = true
		if v := utils.DynString(item.Dynamic, k.key); v != "" {
			specs = append(specs, models.SpecField{Label: k.label, Value: v})
		}
	}
	// Anything the form added beyond the known keys is still printed, after the known rows
	return append(specs, extraSpecs(item, known)...)
}

// otherCategory prints every scalar dynamic field in key order
type otherCategory struct{}

func (otherCategory) Name() string { return "other" }

func (otherCategory) Fields(item models.SaleItem) []models.SpecField {
	return identityFields(item)
}

func (otherCategory) Specs(item models.SaleItem) []models.SpecField {
	return extraSpecs(item, nil)
}

var (
	phone = specCategory{
		name:    "phone",
		aliases: []string{"phone", "cell phone", "cellphone", "smartphone", "iphone", "android"},
		keys: []specKey{
			{"storage", "Storage"},
			{"color", "Color"},
			{"carrier", "Carrier"},
			{"imei", "IMEI"},
			{"batteryHealth", "Battery Health"},
			{"screenCondition", "Screen Condition"},
		},
	}
	tablet = specCategory{
		name:    "tablet",
		aliases: []string{"tablet", "ipad"},
		keys: []specKey{
			{"storage", "Storage"},
			{"color", "Color"},
			{"screenSize", "Screen Size"},
			{"connectivity", "Connectivity"},
			{"batteryHealth", "Battery Health"},
		},
	}
	laptop = specCategory{
		name:    "laptop",
		aliases: []string{"laptop", "notebook", "macbook", "chromebook"},
		keys: []specKey{
			{"cpu", "Processor"},
			{"ram", "Memory"},
			{"storage", "Storage"},
			{"gpu", "Graphics"},
			{"screenSize", "Screen Size"},
			{"os", "Operating System"},
			{"batteryHealth", "Battery Health"},
		},
	}
	desktop = specCategory{
		name:    "desktop",
		aliases: []string{"desktop", "pc", "desktop pc", "all-in-one", "workstation"},
		keys: []specKey{
			{"cpu", "Processor"},
			{"ram", "Memory"},
			{"storage", "Storage"},
			{"gpu", "Graphics"},
			{"formFactor", "Form Factor"},
			{"os", "Operating System"},
		},
	}
	console = specCategory{
		name:    "console",
		aliases: []string{"console", "game console", "gaming console"},
		keys: []specKey{
			{"storage", "Storage"},
			{"edition", "Edition"},
			{"controllers", "Controllers"},
			{"games", "Included Games"},
		},
	}
	tv = specCategory{
		name:    "tv",
		aliases: []string{"tv", "television", "monitor"},
		keys: []specKey{
			{"screenSize", "Screen Size"},
			{"resolution", "Resolution"},
			{"panelType", "Panel"},
			{"smartPlatform", "Smart Platform"},
			{"mount", "Mount / Stand"},
		},
	}

	registry = []Category{phone, tablet, laptop, desktop, console, tv, customBuildCategory{}}
	fallback = otherCategory{}
)

// Lookup resolves a device type to its category. Unknown types fall back to "other".
func Lookup(deviceType string) Category {
	if models.IsCustomBuild(deviceType) {
		return customBuildCategory{}
	}
	dt := strings.ToLower(strings.TrimSpace(deviceType))
	for _, c := range registry {
		sc, ok := c.(specCategory)
		if !ok {
			continue
		}
		for _, alias := range sc.aliases {
			if dt == alias {
				return sc
			}
		}
	}
	return fallback
}

func identityFields(item models.SaleItem) []models.SpecField {
	return []models.SpecField{
		{Label: "Device", Value: strings.TrimSpace(item.DeviceType)},
		{Label: "Brand", Value: strings.TrimSpace(item.Brand)},
		{Label: "Model", Value: strings.TrimSpace(item.Model)},
		{Label: "Condition", Value: strings.TrimSpace(item.Condition)},
		{Label: "Accessories", Value: strings.TrimSpace(item.Accessories)},
	}
}

// extraSpecs prints scalar dynamic fields not in known, sorted by key for deterministic output
func extraSpecs(item models.SaleItem, known map[string]bool) []models.SpecField {
	keys := make([]string, 0, len(item.Dynamic))
	for k, v := range item.Dynamic {
		if known[k] {
			continue
		}
		switch v.(type) {
		case []any, map[string]any, []map[string]any:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.SpecField, 0, len(keys))
	for _, k := range keys {
		if v := utils.DynString(item.Dynamic, k); v != "" {
			out = append(out, models.SpecField{Label: utils.LabelFromKey(k), Value: v})
		}
	}
	return out
}
