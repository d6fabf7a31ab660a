package models

import (
	"errors"
	"fmt"
	"strings"
)

// QuoteType distinguishes device sales from repair estimates
type QuoteType string

const (
	QuoteTypeSales   QuoteType = "sales"
	QuoteTypeRepairs QuoteType = "repairs"
)

// CustomBuildDeviceType is the device type that switches a sale item to the per-part PC build layout
const CustomBuildDeviceType = "Custom PC Build"

var (
	ErrItemIndex      = errors.New("item index out of range")
	ErrLineIndex      = errors.New("repair line index out of range")
	ErrTooManyImages  = fmt.Errorf("an item can carry at most %d images", MaxItemImages)
	ErrInvalidDataURI = errors.New("image must be a data:image/ URI")
)

// Cart is the in-memory collection being quoted. It is owned by the editing UI
// and changed only through the methods below or a CartUpdate.
type Cart struct {
	Type          QuoteType    `json:"type"`
	CustomerName  string       `json:"customerName"`
	CustomerPhone string       `json:"customerPhone"`
	CustomerEmail string       `json:"customerEmail,omitempty"`
	Items         []SaleItem   `json:"items,omitempty"`
	Lines         []RepairLine `json:"lines,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

// CartUpdate is an explicit mutation applied to a cart snapshot
type CartUpdate func(*Cart) error

// Apply runs the updates against a copy of the cart and returns the copy.
// The receiver is left untouched when any update fails.
func (c Cart) Apply(updates ...CartUpdate) (Cart, error) {
	next := c.Clone()
	for _, u := range updates {
		if err := u(&next); err != nil {
			return c, err
		}
	}
	return next, nil
}

// Kind returns the effective quote type, defaulting to sales
func (c Cart) Kind() QuoteType {
	if c.Type == QuoteTypeRepairs {
		return QuoteTypeRepairs
	}
	return QuoteTypeSales
}

// IsEmpty reports whether there is nothing to quote
func (c Cart) IsEmpty() bool {
	if c.Kind() == QuoteTypeRepairs {
		return len(c.Lines) == 0
	}
	return len(c.Items) == 0
}

// CustomBuild returns the custom PC build item if the cart is a custom-build quote.
// A cart is a custom-build quote when its first item is a custom build.
func (c Cart) CustomBuild() (SaleItem, bool) {
	if c.Kind() != QuoteTypeSales || len(c.Items) == 0 {
		return SaleItem{}, false
	}
	first := c.Items[0]
	if !IsCustomBuild(first.DeviceType) {
		return SaleItem{}, false
	}
	return first, true
}

// IsCustomBuild reports whether a device type selects the custom build layout
func IsCustomBuild(deviceType string) bool {
	dt := strings.ToLower(strings.TrimSpace(deviceType))
	return dt == strings.ToLower(CustomBuildDeviceType) || dt == "custom build" || dt == "custom-build"
}

// Clone returns a deep copy of the cart
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]SaleItem, len(c.Items))
		for i, it := range c.Items {
			out.Items[i] = it.Clone()
		}
	}
	if c.Lines != nil {
		out.Lines = append([]RepairLine(nil), c.Lines...)
	}
	return out
}

// AddItem appends a sale item
func AddItem(item SaleItem) CartUpdate {
	return func(c *Cart) error {
		c.Items = append(c.Items, item.Clone())
		return nil
	}
}

// RemoveItem drops the item at index i
func RemoveItem(i int) CartUpdate {
	return func(c *Cart) error {
		if i < 0 || i >= len(c.Items) {
			return ErrItemIndex
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	}
}

// SetDynamic sets a device-specific field on item i
func SetDynamic(i int, key string, value any) CartUpdate {
	return func(c *Cart) error {
		if i < 0 || i >= len(c.Items) {
			return ErrItemIndex
		}
		if c.Items[i].Dynamic == nil {
			c.Items[i].Dynamic = map[string]any{}
		}
		c.Items[i].Dynamic[key] = value
		return nil
	}
}

// AddImage attaches a photo to item i, keeping at most MaxItemImages
func AddImage(i int, dataURI string) CartUpdate {
	return func(c *Cart) error {
		if i < 0 || i >= len(c.Items) {
			return ErrItemIndex
		}
		if !strings.HasPrefix(dataURI, "data:image/") {
			return ErrInvalidDataURI
		}
		if len(c.Items[i].Images) >= MaxItemImages {
			return ErrTooManyImages
		}
		c.Items[i].Images = append(c.Items[i].Images, dataURI)
		return nil
	}
}

// RemoveImage drops photo j of item i
func RemoveImage(i, j int) CartUpdate {
	return func(c *Cart) error {
		if i < 0 || i >= len(c.Items) {
			return ErrItemIndex
		}
		imgs := c.Items[i].Images
		if j < 0 || j >= len(imgs) {
			return ErrItemIndex
		}
		c.Items[i].Images = append(imgs[:j], imgs[j+1:]...)
		return nil
	}
}

// AddLine appends a repair line
func AddLine(line RepairLine) CartUpdate {
	return func(c *Cart) error {
		c.Lines = append(c.Lines, line)
		return nil
	}
}

// RemoveLine drops repair line i
func RemoveLine(i int) CartUpdate {
	return func(c *Cart) error {
		if i < 0 || i >= len(c.Lines) {
			return ErrLineIndex
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
}
