package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-quotes/models"
)

func TestBuildParts_OrderAndSkipping(t *testing.T) {
	item := models.SaleItem{
		DeviceType: models.CustomBuildDeviceType,
		Dynamic: map[string]any{
			"gpu":         "RTX 4070",
			"gpuPrice":    549.99,
			"gpuImage":    "data:image/png;base64,AAA",
			"cpu":         "Ryzen 7 7700X",
			"cpuPrice":    "299",
			"os":          "Windows 11 Home",
			"osPrice":     139,
			"motherboard": "",
			ExtraPartsKey: []any{
				map[string]any{"name": "Wi-Fi card", "price": 35},
				map[string]any{},
			},
			PCExtrasKey: []any{
				map[string]any{"name": "Mouse", "cost": 25},
			},
		},
	}

	parts := BuildParts(item)

	require.Len(t, parts, 5)
	assert.Equal(t, "cpu", parts[0].Key)
	assert.Equal(t, "gpu", parts[1].Key)
	assert.Equal(t, "data:image/png;base64,AAA", parts[1].Image)
	assert.Equal(t, OSKey, parts[2].Key)
	assert.True(t, parts[2].IsOS)
	assert.False(t, parts[2].Priced, "OS price is ignored")
	assert.Equal(t, "Wi-Fi card", parts[3].Label)
	assert.Equal(t, "extra-0", parts[3].Key)
	assert.Equal(t, "Mouse", parts[4].Label)
	assert.True(t, parts[4].Priced)
	assert.Equal(t, "25", parts[4].RawPrice.String())
}

func TestBuildLabor(t *testing.T) {
	assert.Equal(t, "75", BuildLabor(models.SaleItem{Dynamic: map[string]any{BuildLaborKey: 75}}).String())
	assert.True(t, BuildLabor(models.SaleItem{}).IsZero())
	assert.True(t, BuildLabor(models.SaleItem{Dynamic: map[string]any{BuildLaborKey: "abc"}}).IsZero())
	assert.True(t, BuildLabor(models.SaleItem{Dynamic: map[string]any{BuildLaborKey: -5}}).IsZero())
}

func TestCustomBuildCategory_SpecsListParts(t *testing.T) {
	item := models.SaleItem{
		DeviceType: models.CustomBuildDeviceType,
		Model:      "Workstation",
		Dynamic:    map[string]any{"ram": "64GB DDR5", "ramPrice": 180},
	}

	c := Lookup(item.DeviceType)

	assert.Equal(t, []models.SpecField{{Label: "Memory (RAM)", Value: "64GB DDR5"}}, c.Specs(item))
	assert.Equal(t, "Workstation", c.Fields(item)[0].Value)
}
