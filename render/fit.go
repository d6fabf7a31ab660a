package render

import "math"

// A4 geometry
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	cssDPI       = 96.0
	mmPerInch    = 25.4
)

// PageWidthPx and PageHeightPx are the A4 page box in CSS pixels
var (
	PageWidthPx  = PageWidthMM / mmPerInch * cssDPI
	PageHeightPx = PageHeightMM / mmPerInch * cssDPI
)

// PageMetrics is one measured page: the physical page box and its content box
type PageMetrics struct {
	PageW    float64 `json:"pageW"`
	PageH    float64 `json:"pageH"`
	ContentW float64 `json:"contentW"`
	ContentH float64 `json:"contentH"`
}

// FitScale is the uniform scale that keeps content inside the page box: never above 1.
// Unmeasurable content keeps scale 1.
func FitScale(m PageMetrics) float64 {
	if !(m.ContentW > 0) || !(m.ContentH > 0) || !(m.PageW > 0) || !(m.PageH > 0) {
		return 1
	}
	return math.Min(1, math.Min(m.PageH/m.ContentH, m.PageW/m.ContentW))
}

// FitScales applies FitScale to each measured page
func FitScales(metrics []PageMetrics) []float64 {
	scales := make([]float64, len(metrics))
	for i, m := range metrics {
		scales[i] = FitScale(m)
	}
	return scales
}

// MMToInches converts millimeters to inches
func MMToInches(mm float64) float64 {
	return mm / mmPerInch
}
