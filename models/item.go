package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"repair-shop-quotes/utils"
)

// MaxItemImages is the number of photos a sale item can carry
const MaxItemImages = 3

// Money is a lenient monetary amount. Numbers, numeric strings, "" and null are
// all accepted so a half-filled form still decodes; Valid is false when no
// usable number was supplied.
type Money struct {
	decimal.NullDecimal
}

// NewMoney wraps a decimal as a valid Money
func NewMoney(d decimal.Decimal) Money {
	return Money{decimal.NullDecimal{Decimal: d, Valid: true}}
}

// MoneyFromFloat is a convenience for tests and fixtures
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// UnmarshalJSON accepts any JSON scalar and keeps only finite numbers
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, ok := utils.ParseAmount(raw)
	m.NullDecimal = decimal.NullDecimal{Decimal: d, Valid: ok}
	return nil
}

// MarshalJSON writes the amount as a JSON number, or null when unset
func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(json.Number(m.Decimal.String()))
}

// Amount returns the value, or zero when unset
func (m Money) Amount() decimal.Decimal {
	if !m.Valid {
		return decimal.Zero
	}
	return m.Decimal
}

// Positive reports whether the amount is set and strictly greater than zero
func (m Money) Positive() bool {
	return m.Valid && m.Decimal.IsPositive()
}

// SaleItem represents one device being quoted
// Example:
//
//	{
//	  "deviceType": "Laptop",
//	  "brand": "Lenovo",
//	  "model": "ThinkPad T14",
//	  "condition": "Refurbished",
//	  "accessories": "Charger",
//	  "dynamic": {"cpu": "i5-1245U", "ram": "16GB"},
//	  "images": ["data:image/jpeg;base64,..."],
//	  "price": 450,
//	  "prompt": ""
//	}
type SaleItem struct {
	DeviceType  string         `json:"deviceType" validate:"required"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	Condition   string         `json:"condition"`
	Accessories string         `json:"accessories"`
	Dynamic     map[string]any `json:"dynamic,omitempty"`
	Images      []string       `json:"images,omitempty" validate:"max=3,dive,startswith=data:image/"`
	Price       Money          `json:"price"`
	Prompt      string         `json:"prompt,omitempty"`
}

// Title is the display name of the item: "Brand Model", falling back to the device type
func (s SaleItem) Title() string {
	title := strings.TrimSpace(strings.TrimSpace(s.Brand) + " " + strings.TrimSpace(s.Model))
	if title == "" {
		title = strings.TrimSpace(s.DeviceType)
	}
	if title == "" {
		return "Item"
	}
	return title
}

// Clone returns a copy that shares no mutable state with the receiver.
// Nested arrays inside Dynamic (extraParts, pcExtras) are copied one level deep.
func (s SaleItem) Clone() SaleItem {
	out := s
	if s.Images != nil {
		out.Images = append([]string(nil), s.Images...)
	}
	if s.Dynamic != nil {
		out.Dynamic = make(map[string]any, len(s.Dynamic))
		for k, v := range s.Dynamic {
			out.Dynamic[k] = cloneDynamicValue(v)
		}
	}
	return out
}

func cloneDynamicValue(v any) any {
	switch t := v.(type) {
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneDynamicValue(e)
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, e := range t {
			cp[k] = cloneDynamicValue(e)
		}
		return cp
	default:
		return v
	}
}

// CustomBuildPart is one line of a custom PC build. It is derived from a
// SaleItem's dynamic fields at render time and never stored on its own.
type CustomBuildPart struct {
	Label       string          `json:"label"`
	Key         string          `json:"key"`
	Description string          `json:"description"`
	RawPrice    decimal.Decimal `json:"rawPrice"`
	MarkedPrice decimal.Decimal `json:"markedPrice"`
	Priced      bool            `json:"priced"` // false when no usable raw price was entered
	IsOS        bool            `json:"isOs"`   // OS part renders without a price box
	Image       string          `json:"image,omitempty"`
	Image2      string          `json:"image2,omitempty"`
}

// RepairLine represents one repair job line. No markup is applied.
type RepairLine struct {
	Description string `json:"description" validate:"required"`
	PartPrice   Money  `json:"partPrice"`
	LaborPrice  Money  `json:"laborPrice"`
}

// LineTotal returns part + labor
func (l RepairLine) LineTotal() decimal.Decimal {
	return l.PartPrice.Amount().Add(l.LaborPrice.Amount())
}
